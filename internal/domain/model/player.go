// Package model contains the tournament records passed between layers:
// player references, matches and rounds.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PlayerRef identifies a player registered in a tournament. Identity and
// equality use ID only; Name is display data borrowed from the roster.
type PlayerRef struct {
	ID   string
	Name string
}

// Ref builds a reference carrying only an identifier.
func Ref(id string) PlayerRef {
	return PlayerRef{ID: strings.TrimSpace(id)}
}

// IsZero reports whether the reference has no identifier.
func (p PlayerRef) IsZero() bool { return p.ID == "" }

// Is reports whether p and o denote the same player.
func (p PlayerRef) Is(o PlayerRef) bool { return p.ID == o.ID }

// Key returns the string form used to key the points ledger.
func (p PlayerRef) Key() string { return p.ID }

// String returns the display name when known, the identifier otherwise.
func (p PlayerRef) String() string {
	if p.Name != "" {
		return p.Name + " (" + p.ID + ")"
	}
	return p.ID
}

// playerRecord is the full serialized player shape found in older documents.
type playerRecord struct {
	ChessID         string `json:"chess_id"`
	NationalChessID string `json:"national_chess_id"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// MarshalJSON writes the opaque reference string.
func (p PlayerRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ID)
}

// UnmarshalJSON accepts either an opaque reference string or a full player record.
func (p *PlayerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*p = Ref(id)
		return nil
	}

	var rec playerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: player reference: %w", ErrValidation, err)
	}
	id := firstNonEmpty(rec.ChessID, rec.NationalChessID, rec.ID)
	if id == "" {
		return fmt.Errorf("%w: player record without identifier", ErrValidation)
	}
	name := rec.Name
	if name == "" {
		name = strings.TrimSpace(rec.FirstName + " " + rec.LastName)
	}
	*p = PlayerRef{ID: strings.TrimSpace(id), Name: name}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
