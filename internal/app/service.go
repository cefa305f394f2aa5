// Package service is the single entry point the shell uses to manage
// tournaments. Every mutation is saved before the call returns.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/chessrecord/internal/adapters/repository"
	"github.com/okian/chessrecord/internal/adapters/roster"
	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/pairing"
	"github.com/okian/chessrecord/internal/domain/scoring"
	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
	"github.com/okian/chessrecord/pkg/metrics"
)

// Repository loads and saves whole tournaments.
type Repository interface {
	Save(ctx context.Context, t *tournament.Tournament) error
	Find(ctx context.Context, name string) (*tournament.Tournament, error)
	Exists(ctx context.Context, name string) (bool, error)
	LoadAll(ctx context.Context) ([]*tournament.Tournament, error)
}

// Roster resolves registration queries to players.
type Roster interface {
	Find(ctx context.Context, query string) ([]roster.Player, error)
}

// Filter selects tournaments by status.
type Filter int

const (
	All Filter = iota
	Active
	Completed
)

// CreateRequest carries the fields of a new tournament. Zero Rounds and blank
// TimeControl take the service defaults.
type CreateRequest struct {
	Name        string
	Location    string
	Description string
	TimeControl string
	StartDate   string
	EndDate     string
	Rounds      int
}

// AmbiguousPlayerError lists the roster entries a registration query matched.
type AmbiguousPlayerError struct {
	Query      string
	Candidates []roster.Player
}

func (e *AmbiguousPlayerError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, p := range e.Candidates {
		names[i] = p.Ref().String()
	}
	return fmt.Sprintf("%v: %q matches %s", ErrAmbiguousPlayer, e.Query, strings.Join(names, ", "))
}

func (e *AmbiguousPlayerError) Unwrap() error { return ErrAmbiguousPlayer }

// Service manages tournaments through one Repository handle.
type Service struct {
	repo               Repository
	roster             Roster
	logger             logger.Logger
	tournamentOpts     []tournament.Option
	defaultRounds      int
	defaultTimeControl string
}

// New constructs a Service over repo.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:               repo,
		logger:             logger.Nop(),
		defaultRounds:      tournament.DefaultRounds,
		defaultTimeControl: tournament.DefaultTimeControl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTournament creates and saves a tournament. A save failure is
// returned alongside the created tournament.
func (s *Service) CreateTournament(ctx context.Context, req CreateRequest) (*tournament.Tournament, error) {
	if repository.Key(req.Name) == "" {
		return nil, fmt.Errorf("%w: tournament name %q needs at least one letter or digit", model.ErrValidation, req.Name)
	}
	exists, err := s.repo.Exists(ctx, req.Name)
	switch {
	case errors.Is(err, repository.ErrKeyConflict):
		return nil, err
	case err != nil:
		s.logger.Warn(ctx, "could not check for an existing tournament", logger.String("name", req.Name), logger.Error(err))
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrTournamentExists, req.Name)
	}

	rounds := req.Rounds
	if rounds == 0 {
		rounds = s.defaultRounds
	}
	tc := strings.ToLower(strings.TrimSpace(req.TimeControl))
	if tc == "" {
		tc = s.defaultTimeControl
	}
	opts := append([]tournament.Option{
		tournament.WithDescription(req.Description),
		tournament.WithTimeControl(tc),
		tournament.WithRounds(rounds),
	}, s.tournamentOpts...)

	t, err := tournament.New(req.Name, req.Location, req.StartDate, req.EndDate, opts...)
	if err != nil {
		return nil, err
	}
	metrics.RecordTournamentCreated()
	s.logger.Info(ctx, "tournament created",
		logger.String("name", t.Name()),
		logger.String("location", t.Location()),
		logger.Int("rounds", t.NumberOfRounds()),
	)
	return t, s.save(ctx, t)
}

// Tournaments returns the stored tournaments matching f, newest start date
// first. Unreadable documents are skipped and reported in the error.
func (s *Service) Tournaments(ctx context.Context, f Filter) ([]*tournament.Tournament, error) {
	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.Warn(ctx, "some tournaments could not be loaded", logger.Error(err))
	}

	out := make([]*tournament.Tournament, 0, len(all))
	for _, t := range all {
		switch {
		case f == Active && t.Completed():
		case f == Completed && !t.Completed():
		default:
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Starts().After(out[j].Starts())
	})
	return out, err
}

// Get loads the tournament with the given name.
func (s *Service) Get(ctx context.Context, name string) (*tournament.Tournament, error) {
	return s.repo.Find(ctx, name)
}

// RegisterPlayer resolves query through the roster and registers the player.
// Without a roster, or when nothing matches, the query is used as the player id.
func (s *Service) RegisterPlayer(ctx context.Context, name, query string) (model.PlayerRef, error) {
	t, err := s.repo.Find(ctx, name)
	if err != nil {
		return model.PlayerRef{}, err
	}
	p, err := s.resolve(ctx, query)
	if err != nil {
		return model.PlayerRef{}, err
	}
	if err := t.AddPlayer(p); err != nil {
		return model.PlayerRef{}, err
	}
	metrics.RecordPlayerRegistered()
	s.logger.Info(ctx, "player registered", logger.String("tournament", t.Name()), logger.String("player", p.String()))
	return p, s.save(ctx, t)
}

func (s *Service) resolve(ctx context.Context, query string) (model.PlayerRef, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.PlayerRef{}, fmt.Errorf("%w: player id or name is required", model.ErrValidation)
	}
	if s.roster == nil {
		return model.Ref(query), nil
	}

	found, err := s.roster.Find(ctx, query)
	if err != nil {
		s.logger.Warn(ctx, "roster lookup failed, using raw id", logger.String("query", query), logger.Error(err))
		return model.Ref(query), nil
	}
	switch len(found) {
	case 0:
		return model.Ref(query), nil
	case 1:
		return found[0].Ref(), nil
	default:
		return model.PlayerRef{}, &AmbiguousPlayerError{Query: query, Candidates: found}
	}
}

// AdvanceRound pairs the next round of the named tournament.
func (s *Service) AdvanceRound(ctx context.Context, name string) (*model.Round, pairing.Result, error) {
	t, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, pairing.Result{}, err
	}
	if last := t.LastRound(); last != nil && last.Pending() > 0 {
		s.logger.Warn(ctx, "advancing with results still pending",
			logger.String("tournament", t.Name()),
			logger.String("round", last.Name),
			logger.Int("pending", last.Pending()),
		)
	}

	start := time.Now()
	r, res, err := t.AdvanceRound()
	if err != nil {
		return nil, pairing.Result{}, err
	}
	metrics.RecordPairingLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordRoundAdvanced(res.Rematches, len(res.Unpaired))

	fields := []logger.Field{
		logger.String("tournament", t.Name()),
		logger.String("round", r.Name),
		logger.Int("boards", len(r.Matches)),
	}
	if !r.Bye.IsZero() {
		fields = append(fields, logger.String("bye", r.Bye.String()), logger.Float64("bye_points", r.ByePoints))
	}
	if res.Rematches > 0 {
		fields = append(fields, logger.Int("rematches", res.Rematches))
	}
	s.logger.Info(ctx, "round advanced", fields...)
	if t.Completed() {
		s.logger.Info(ctx, "final round paired", logger.String("tournament", t.Name()))
	}
	return r, res, s.save(ctx, t)
}

// RecordResult enters the outcome of a board. round and board are 1-based;
// round 0 selects the latest round.
func (s *Service) RecordResult(ctx context.Context, name string, round, board int, o scoring.Outcome) (*model.Match, error) {
	t, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if round == 0 {
		round = len(t.Rounds())
		if round == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoRounds, t.Name())
		}
	}

	m, err := t.RecordResult(round-1, board-1, o)
	if err != nil {
		return nil, err
	}
	metrics.RecordResult(o.String())
	s.logger.Info(ctx, "result recorded",
		logger.String("tournament", t.Name()),
		logger.Int("round", round),
		logger.Int("board", board),
		logger.String("outcome", o.String()),
	)
	return m, s.save(ctx, t)
}

// Standings returns the ranked table of the named tournament.
func (s *Service) Standings(ctx context.Context, name string) ([]tournament.Standing, error) {
	t, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	return t.Standings(), nil
}

// Correct applies an explicit ledger correction and returns the new total.
func (s *Service) Correct(ctx context.Context, name, playerID string, delta float64) (float64, error) {
	t, err := s.repo.Find(ctx, name)
	if err != nil {
		return 0, err
	}
	p := model.Ref(strings.TrimSpace(playerID))
	if !t.HasPlayer(p) {
		return 0, fmt.Errorf("%w: %s is not registered in %s", model.ErrValidation, p.ID, t.Name())
	}

	t.AddPoints(p, delta)
	metrics.RecordLedgerCorrection()
	total := t.Points(p)
	s.logger.Info(ctx, "ledger corrected",
		logger.String("tournament", t.Name()),
		logger.String("player", p.ID),
		logger.Float64("delta", delta),
		logger.Float64("total", total),
	)
	return total, s.save(ctx, t)
}

func (s *Service) save(ctx context.Context, t *tournament.Tournament) error {
	if err := s.repo.Save(ctx, t); err != nil {
		s.logger.Warn(ctx, "tournament not saved", logger.String("tournament", t.Name()), logger.Error(err))
		metrics.RecordErrorByComponent("service", "save")
		if !errors.Is(err, repository.ErrPersistence) {
			err = fmt.Errorf("%w: %w", repository.ErrPersistence, err)
		}
		return err
	}
	s.logger.Debug(ctx, "tournament saved", logger.String("key", repository.Key(t.Name())))
	return nil
}
