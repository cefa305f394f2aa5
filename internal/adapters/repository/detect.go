package repository

import (
	"encoding/json"
	"fmt"

	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/tournament"
)

// rawDocument accepts every field any known shape may carry. Pointers tell a
// missing field from a zero value.
type rawDocument struct {
	Name           *string            `json:"name"`
	Location       *string            `json:"location"`
	Description    *string            `json:"description"`
	TimeControl    *string            `json:"time_control"`
	StartDate      *string            `json:"start_date"`
	EndDate        *string            `json:"end_date"`
	NumberOfRounds *int               `json:"number_of_rounds"`
	CurrentRound   *int               `json:"current_round"`
	Completed      *bool              `json:"completed"`
	Players        []model.PlayerRef  `json:"players"`
	Rounds         []RoundDocument    `json:"rounds"`
	PlayerPoints   map[string]float64 `json:"player_points"`

	// legacy
	Venue *string `json:"venue"`
	Dates *struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"dates"`
}

// shape recognises one historical document layout and copies the fields it
// owns into the canonical document. Shapes run in order and only fill fields
// that are still empty, so earlier shapes take precedence.
type shape struct {
	name   string
	detect func(*rawDocument) bool
	apply  func(*rawDocument, *Document)
}

var shapes = []shape{
	{
		name: "flat",
		detect: func(r *rawDocument) bool {
			return r.Location != nil || r.StartDate != nil || r.EndDate != nil
		},
		apply: func(r *rawDocument, d *Document) {
			fill(&d.Location, r.Location)
			fill(&d.StartDate, r.StartDate)
			fill(&d.EndDate, r.EndDate)
		},
	},
	{
		name: "legacy",
		detect: func(r *rawDocument) bool {
			return r.Venue != nil || r.Dates != nil
		},
		apply: func(r *rawDocument, d *Document) {
			fill(&d.Location, r.Venue)
			if r.Dates != nil {
				fill(&d.StartDate, &r.Dates.From)
				fill(&d.EndDate, &r.Dates.To)
			}
		},
	},
}

func fill(dst *string, src *string) {
	if *dst == "" && src != nil {
		*dst = *src
	}
}

// Decode reads any known document shape into the canonical Document, with
// defaults applied for missing optional fields.
func Decode(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: decode: %w", ErrPersistence, err)
	}

	var doc Document
	matched := false
	for _, s := range shapes {
		if s.detect(&raw) {
			s.apply(&raw, &doc)
			matched = true
		}
	}
	if !matched {
		return Document{}, fmt.Errorf("%w: %w: no location or dates", ErrPersistence, ErrUnknownShape)
	}

	fill(&doc.Name, raw.Name)
	fill(&doc.Description, raw.Description)
	fill(&doc.TimeControl, raw.TimeControl)
	if doc.TimeControl == "" {
		doc.TimeControl = tournament.DefaultTimeControl
	}
	doc.NumberOfRounds = tournament.DefaultRounds
	if raw.NumberOfRounds != nil {
		doc.NumberOfRounds = *raw.NumberOfRounds
	}
	doc.CurrentRound = raw.CurrentRound
	if raw.Completed != nil {
		doc.Completed = *raw.Completed
	}
	doc.Players = raw.Players
	doc.Rounds = raw.Rounds
	doc.PlayerPoints = raw.PlayerPoints
	return doc, nil
}
