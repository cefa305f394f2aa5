package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/chessrecord/internal/adapters/repository"
	"github.com/okian/chessrecord/internal/adapters/roster"
	service "github.com/okian/chessrecord/internal/app"
	"github.com/okian/chessrecord/internal/config"
	"github.com/okian/chessrecord/internal/domain/pairing"
	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
	"github.com/okian/chessrecord/pkg/metrics"
)

// needsRoster marks commands that open the roster database.
const needsRoster = "roster"

// application holds the handles shared by every command of one run.
type application struct {
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	log    logger.Logger
	repo   *repository.Repository
	roster *roster.Roster
	svc    *service.Service
}

func (a *application) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		a.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	opts := []tournament.Option{
		tournament.WithPairingEngine(pairing.New(pairing.WithSeed(cfg.Seed))),
		tournament.WithByeAward(pairing.FixedBye(cfg.ByePoints)),
	}
	a.repo = repository.New(
		repository.NewFileStore(cfg.DataDir),
		repository.WithLogger(a.log.Named("repository")),
		repository.WithTournamentOptions(opts...),
	)

	svcOpts := []service.Option{
		service.WithLogger(a.log.Named("service")),
		service.WithTournamentOptions(opts...),
		service.WithDefaultRounds(cfg.DefaultRounds),
		service.WithDefaultTimeControl(cfg.DefaultTimeControl),
	}
	if _, ok := cmd.Annotations[needsRoster]; ok {
		r, err := roster.Open(ctx, cfg.RosterDB)
		if err != nil {
			// Registration still works with raw ids.
			a.log.Warn(ctx, "roster unavailable", logger.String("path", cfg.RosterDB), logger.Error(err))
		} else {
			a.roster = r
			svcOpts = append(svcOpts, service.WithRoster(r))
		}
	}
	a.svc = service.New(a.repo, svcOpts...)
	return nil
}

func (a *application) requireRoster() (*roster.Roster, error) {
	if a.roster == nil {
		return nil, fmt.Errorf("%w: roster database %s could not be opened", roster.ErrRoster, a.cfg.RosterDB)
	}
	return a.roster, nil
}

// degraded reports a persistence failure as a warning and lets the command
// finish; other errors are returned unchanged.
func (a *application) degraded(err error) error {
	if err == nil || !errors.Is(err, repository.ErrPersistence) {
		return err
	}
	fmt.Fprintf(a.errOut, "Warning: changes were not saved: %v\n", err)
	return nil
}

func (a *application) close(ctx context.Context) {
	if a.roster != nil {
		if err := a.roster.Close(); err != nil && a.log != nil {
			a.log.Warn(ctx, "closing roster", logger.Error(err))
		}
	}
	if a.cfg != nil && a.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.log.Warn(ctx, "metrics not written", logger.String("path", a.cfg.MetricsFile), logger.Error(err))
		}
	}
	_ = logger.Sync()
}
