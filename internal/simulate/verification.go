package simulate

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/pairing"
	"github.com/okian/chessrecord/internal/domain/tournament"
)

// ErrVerification reports a broken tournament invariant.
var ErrVerification = errors.New("simulation verification failed")

const ledgerTolerance = 1e-9

// verifyRound checks the boards of a freshly paired round against the
// history before it.
func verifyRound(r *model.Round, res pairing.Result, players int, history pairing.History) error {
	if want := players / 2; len(r.Matches) != want {
		return fmt.Errorf("%w: %s has %d boards, want %d", ErrVerification, r.Name, len(r.Matches), want)
	}

	seen := make(map[string]bool, players)
	rematches := 0
	for _, m := range r.Matches {
		for _, p := range []model.PlayerRef{m.Player1, m.Player2} {
			if seen[p.Key()] {
				return fmt.Errorf("%w: %s plays twice in %s", ErrVerification, p, r.Name)
			}
			seen[p.Key()] = true
		}
		if history.PlayedBefore(m.Player1, m.Player2) {
			rematches++
		}
	}
	if rematches > res.Rematches {
		return fmt.Errorf("%w: %s has %d rematches but the engine reported %d fallbacks",
			ErrVerification, r.Name, rematches, res.Rematches)
	}

	if players%2 == 1 {
		if len(res.Unpaired) != 1 || seen[res.Unpaired[0].Key()] {
			return fmt.Errorf("%w: %s must leave exactly one player unpaired", ErrVerification, r.Name)
		}
	}
	return nil
}

// verifyLedger checks that the points handed out equal one per board plus
// the bye awards, and that the rankings are ordered.
func verifyLedger(t *tournament.Tournament) (float64, error) {
	var want, got float64
	for _, r := range t.Rounds() {
		want += float64(len(r.Matches))
		if !r.Bye.IsZero() {
			want += r.ByePoints
		}
	}
	for _, pts := range t.Ledger() {
		got += pts
	}
	if math.Abs(got-want) > ledgerTolerance {
		return got, fmt.Errorf("%w: ledger holds %g points, want %g", ErrVerification, got, want)
	}

	ranked := t.Rankings()
	for i := 1; i < len(ranked); i++ {
		if t.Points(ranked[i]) > t.Points(ranked[i-1]) {
			return got, fmt.Errorf("%w: rankings out of order at %d", ErrVerification, i+1)
		}
	}
	return got, nil
}

func verifyCompletion(t *tournament.Tournament, played int) error {
	if played < t.NumberOfRounds() && t.Completed() {
		return fmt.Errorf("%w: completed after %d of %d rounds", ErrVerification, played, t.NumberOfRounds())
	}
	if played == t.NumberOfRounds() && (!t.Completed() || t.CurrentRound() != played) {
		return fmt.Errorf("%w: not completed after the last round", ErrVerification)
	}
	return nil
}
