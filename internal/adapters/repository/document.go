package repository

import (
	"encoding/json"
	"fmt"

	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/tournament"
)

// Document is the canonical on-disk shape of a tournament. Field order here
// is the key order of the written JSON.
type Document struct {
	Name           string             `json:"name"`
	Location       string             `json:"location"`
	Description    string             `json:"description"`
	TimeControl    string             `json:"time_control"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	NumberOfRounds int                `json:"number_of_rounds"`
	CurrentRound   *int               `json:"current_round"`
	Completed      bool               `json:"completed"`
	Players        []model.PlayerRef  `json:"players"`
	Rounds         []RoundDocument    `json:"rounds"`
	PlayerPoints   map[string]float64 `json:"player_points"`
}

type RoundDocument struct {
	Name          string           `json:"name"`
	StartDatetime string           `json:"start_datetime"`
	EndDatetime   *string          `json:"end_datetime"`
	Matches       []MatchDocument  `json:"matches"`
	Bye           *model.PlayerRef `json:"bye,omitempty"`
	ByePoints     float64          `json:"bye_points,omitempty"`
}

type MatchDocument struct {
	Player1 model.PlayerRef `json:"player1"`
	Player2 model.PlayerRef `json:"player2"`
	Score1  float64         `json:"score1"`
	Score2  float64         `json:"score2"`
}

// Encode writes doc as indented JSON. Map keys are sorted by encoding/json.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode %q: %w", ErrPersistence, doc.Name, err)
	}
	return append(data, '\n'), nil
}

// FromTournament captures t in the canonical shape.
func FromTournament(t *tournament.Tournament) Document {
	snap := t.Snapshot()
	doc := Document{
		Name:           snap.Name,
		Location:       snap.Location,
		Description:    snap.Description,
		TimeControl:    snap.TimeControl,
		StartDate:      snap.StartDate,
		EndDate:        snap.EndDate,
		NumberOfRounds: snap.NumberOfRounds,
		Completed:      snap.Completed,
		Players:        append([]model.PlayerRef{}, snap.Players...),
		Rounds:         make([]RoundDocument, 0, len(snap.Rounds)),
		PlayerPoints:   snap.Points,
	}
	if snap.CurrentRound > 0 {
		current := snap.CurrentRound
		doc.CurrentRound = &current
	}

	for _, r := range snap.Rounds {
		rd := RoundDocument{
			Name:          r.Name,
			StartDatetime: r.StartString(),
			Matches:       make([]MatchDocument, 0, len(r.Matches)),
		}
		if r.Closed() {
			end := r.EndString()
			rd.EndDatetime = &end
		}
		if !r.Bye.IsZero() {
			bye := r.Bye
			rd.Bye = &bye
			rd.ByePoints = r.ByePoints
		}
		for _, m := range r.Matches {
			rd.Matches = append(rd.Matches, MatchDocument{
				Player1: m.Player1,
				Player2: m.Player2,
				Score1:  m.Score1,
				Score2:  m.Score2,
			})
		}
		doc.Rounds = append(doc.Rounds, rd)
	}
	return doc
}

// Snapshot converts the document into tournament state.
func (d Document) Snapshot() (tournament.Snapshot, error) {
	snap := tournament.Snapshot{
		Name:           d.Name,
		Location:       d.Location,
		Description:    d.Description,
		TimeControl:    d.TimeControl,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		NumberOfRounds: d.NumberOfRounds,
		Completed:      d.Completed,
		Players:        d.Players,
		Rounds:         make([]*model.Round, 0, len(d.Rounds)),
		Points:         d.PlayerPoints,
	}
	if d.CurrentRound != nil {
		snap.CurrentRound = *d.CurrentRound
	}

	for i, rd := range d.Rounds {
		end := ""
		if rd.EndDatetime != nil {
			end = *rd.EndDatetime
		}
		r, err := model.NewRound(rd.Name, rd.StartDatetime, end)
		if err != nil {
			return tournament.Snapshot{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		if rd.Bye != nil {
			r.Bye = *rd.Bye
			r.ByePoints = rd.ByePoints
		}
		for j, md := range rd.Matches {
			m, err := model.NewMatch(md.Player1, md.Player2)
			if err != nil {
				return tournament.Snapshot{}, fmt.Errorf("round %d board %d: %w", i+1, j+1, err)
			}
			m.SetResult(md.Score1, md.Score2)
			r.AddMatch(m)
		}
		snap.Rounds = append(snap.Rounds, r)
	}
	return snap, nil
}
