package tournament

import (
	"fmt"

	"github.com/okian/chessrecord/internal/domain/model"
)

// Snapshot is the full persisted state of a tournament.
type Snapshot struct {
	Name           string
	Location       string
	Description    string
	TimeControl    string
	StartDate      string
	EndDate        string
	NumberOfRounds int
	CurrentRound   int // 0 while unset
	Completed      bool
	Players        []model.PlayerRef
	Rounds         []*model.Round
	// Points is the stored ledger; differences against the match history
	// are kept as corrections.
	Points map[string]float64
}

// Snapshot captures the current state, with the ledger fully materialised.
func (t *Tournament) Snapshot() Snapshot {
	return Snapshot{
		Name:           t.name,
		Location:       t.location,
		Description:    t.description,
		TimeControl:    t.timeControl,
		StartDate:      t.StartDate(),
		EndDate:        t.EndDate(),
		NumberOfRounds: t.numberOfRounds,
		CurrentRound:   t.currentRound,
		Completed:      t.completed,
		Players:        t.Players(),
		Rounds:         t.Rounds(),
		Points:         t.Ledger(),
	}
}

// Restore rebuilds a tournament from a snapshot. Options such as the pairing
// engine or clock apply after the stored description and time control.
func Restore(s Snapshot, opts ...Option) (*Tournament, error) {
	base := []Option{
		WithDescription(s.Description),
		WithTimeControl(s.TimeControl),
		WithRounds(s.NumberOfRounds),
	}
	t, err := New(s.Name, s.Location, s.StartDate, s.EndDate, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	if s.CurrentRound < 0 || s.CurrentRound > s.NumberOfRounds {
		return nil, fmt.Errorf("%w: current round %d outside 0..%d", ErrInconsistentState, s.CurrentRound, s.NumberOfRounds)
	}
	if s.Completed && s.CurrentRound != s.NumberOfRounds {
		return nil, fmt.Errorf("%w: completed at round %d of %d", ErrInconsistentState, s.CurrentRound, s.NumberOfRounds)
	}
	t.currentRound = s.CurrentRound
	t.completed = s.Completed

	for _, p := range s.Players {
		if p.IsZero() || t.HasPlayer(p) {
			continue
		}
		t.players = append(t.players, p)
	}
	for _, r := range s.Rounds {
		if r != nil {
			t.rounds = append(t.rounds, r)
		}
	}

	derived := t.Ledger()
	for k, stored := range s.Points {
		if delta := stored - derived[k]; delta != 0 {
			t.adjustments[k] = delta
		}
	}
	return t, nil
}
