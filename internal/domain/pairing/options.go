package pairing

import "math/rand"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRand sets the random source used for the round-1 shuffle.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds the round-1 shuffle. A zero seed keeps the time based default.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // pairing fairness, not security
		}
	}
}
