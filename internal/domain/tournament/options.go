package tournament

import (
	"strings"
	"time"

	"github.com/okian/chessrecord/internal/domain/pairing"
)

// Option applies a configuration option to a Tournament.
type Option func(*Tournament)

// WithDescription sets the free-form description.
func WithDescription(desc string) Option {
	return func(t *Tournament) {
		t.description = desc
	}
}

// WithTimeControl sets the time control (bullet, blitz, rapid...). The value
// is free-form and kept as given, apart from surrounding spaces.
func WithTimeControl(tc string) Option {
	return func(t *Tournament) {
		if tc = strings.TrimSpace(tc); tc != "" {
			t.timeControl = tc
		}
	}
}

// WithRounds sets the number of rounds. Non-positive values are rejected by New.
func WithRounds(n int) Option {
	return func(t *Tournament) {
		t.numberOfRounds = n
	}
}

// WithClock overrides the time source used for round timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tournament) {
		if now != nil {
			t.now = now
		}
	}
}

// WithPairingEngine sets the engine used to pair rounds.
func WithPairingEngine(e *pairing.Engine) Option {
	return func(t *Tournament) {
		if e != nil {
			t.engine = e
		}
	}
}

// WithByeAward sets the policy crediting a player left without an opponent.
func WithByeAward(award pairing.ByeAward) Option {
	return func(t *Tournament) {
		if award != nil {
			t.byeAward = award
		}
	}
}
