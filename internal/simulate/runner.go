// Package simulate plays complete tournaments with generated players and
// random results, verifying the pairing and ledger invariants as it goes.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/pairing"
	"github.com/okian/chessrecord/internal/domain/scoring"
	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
)

// Run plays a whole tournament and returns it with the run statistics.
func Run(ctx context.Context, cfg Config) (*tournament.Tournament, *Stats, error) {
	if cfg.Players < 2 {
		return nil, nil, fmt.Errorf("simulate: need at least 2 players, got %d", cfg.Players)
	}
	if cfg.Rounds < 1 {
		return nil, nil, fmt.Errorf("simulate: need at least 1 round, got %d", cfg.Rounds)
	}
	if cfg.DrawRate < 0 || cfg.DrawRate > 1 {
		return nil, nil, fmt.Errorf("simulate: draw rate %g outside [0, 1]", cfg.DrawRate)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	stats := &Stats{Players: cfg.Players, StartTime: time.Now()}
	rng := rand.New(rand.NewSource(seed))
	faker := gofakeit.New(uint64(seed))

	name := cfg.Name
	if name == "" {
		name = tournamentName(faker)
	}
	day := model.FormatDate(stats.StartTime)
	t, err := tournament.New(name, faker.City(), day, day,
		tournament.WithRounds(cfg.Rounds),
		tournament.WithDescription("simulated"),
		tournament.WithPairingEngine(pairing.New(pairing.WithSeed(seed))),
		tournament.WithByeAward(pairing.FixedBye(cfg.ByePoints)),
	)
	if err != nil {
		return nil, nil, err
	}

	players, err := generatePlayers(faker, rng, cfg.Players)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range players {
		if err := t.AddPlayer(p); err != nil {
			return nil, nil, err
		}
	}

	log.Info(ctx, "starting simulated tournament",
		logger.String("name", name),
		logger.Int("players", cfg.Players),
		logger.Int("rounds", cfg.Rounds),
		logger.Any("seed", seed),
	)

	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return t, stats, err
		}
		if err := playRound(ctx, log, cfg, t, rng, stats); err != nil {
			return t, stats, err
		}
		if err := verifyCompletion(t, stats.RoundsPlayed); err != nil {
			return t, stats, err
		}
		if cfg.Saver != nil {
			if err := cfg.Saver.Save(ctx, t); err != nil {
				stats.SaveFailures++
				log.Warn(ctx, "could not save simulated tournament", logger.Error(err))
			}
		}
	}

	total, err := verifyLedger(t)
	stats.LedgerTotal = total
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	if err != nil {
		return t, stats, err
	}

	displayFinalStats(ctx, log, t, stats)
	return t, stats, nil
}

func playRound(ctx context.Context, log logger.Logger, cfg Config, t *tournament.Tournament, rng *rand.Rand, stats *Stats) error {
	history := pairing.FromRounds(t.Rounds())
	r, res, err := t.AdvanceRound()
	if err != nil {
		return err
	}
	if err := verifyRound(r, res, cfg.Players, history); err != nil {
		return err
	}
	idx := len(t.Rounds()) - 1

	for board := range r.Matches {
		o := randomOutcome(rng, cfg.DrawRate)
		m, err := t.RecordResult(idx, board, o)
		if err != nil {
			return err
		}
		switch o {
		case scoring.Player1Win:
			stats.WhiteWins++
		case scoring.Player2Win:
			stats.BlackWins++
		case scoring.Draw:
			stats.Draws++
		}
		if cfg.Verbose {
			log.Debug(ctx, "board played", logger.String("round", r.Name), logger.String("match", m.String()))
		}
	}

	stats.RoundsPlayed++
	stats.Boards += len(r.Matches)
	stats.Rematches += res.Rematches
	if !r.Bye.IsZero() {
		stats.Byes++
	}
	log.Info(ctx, "round played",
		logger.String("round", r.Name),
		logger.Int("boards", len(r.Matches)),
		logger.Int("rematches", res.Rematches),
	)
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, t *tournament.Tournament, stats *Stats) {
	fields := []logger.Field{
		logger.String("tournament", t.Name()),
		logger.Int("rounds", stats.RoundsPlayed),
		logger.Int("boards", stats.Boards),
		logger.Int("byes", stats.Byes),
		logger.Int("rematches", stats.Rematches),
		logger.Int("white_wins", stats.WhiteWins),
		logger.Int("black_wins", stats.BlackWins),
		logger.Int("draws", stats.Draws),
		logger.Float64("ledger_total", stats.LedgerTotal),
		logger.String("duration", stats.Duration.String()),
	}
	if ranked := t.Rankings(); len(ranked) > 0 {
		fields = append(fields, logger.String("leader", ranked[0].String()), logger.Float64("leader_points", t.Points(ranked[0])))
	}
	log.Info(ctx, "simulation completed", fields...)
}
