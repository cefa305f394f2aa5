package service

import (
	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRoster sets the player directory used to resolve registrations.
func WithRoster(r Roster) Option {
	return func(s *Service) {
		s.roster = r
	}
}

// WithTournamentOptions sets options applied to newly created tournaments.
func WithTournamentOptions(opts ...tournament.Option) Option {
	return func(s *Service) {
		s.tournamentOpts = append(s.tournamentOpts, opts...)
	}
}

// WithDefaultRounds sets the round count used when a request leaves it at 0.
func WithDefaultRounds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultRounds = n
		}
	}
}

// WithDefaultTimeControl sets the time control used when a request leaves it blank.
func WithDefaultTimeControl(tc string) Option {
	return func(s *Service) {
		if tc != "" {
			s.defaultTimeControl = tc
		}
	}
}
