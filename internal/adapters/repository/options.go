package repository

import (
	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
)

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithLogger sets the logger used for degraded loads.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTournamentOptions sets options applied to every restored tournament,
// typically the pairing engine, bye award and clock.
func WithTournamentOptions(opts ...tournament.Option) Option {
	return func(r *Repository) {
		r.tournamentOpts = append(r.tournamentOpts, opts...)
	}
}
