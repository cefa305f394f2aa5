package roster

import "time"

// Option applies a configuration option to the Roster.
type Option func(*Roster)

// WithIDGenerator sets the generator for players registered without a chess id.
func WithIDGenerator(gen func() string) Option {
	return func(r *Roster) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithClock overrides the time source for created_at.
func WithClock(now func() time.Time) Option {
	return func(r *Roster) {
		if now != nil {
			r.now = now
		}
	}
}
