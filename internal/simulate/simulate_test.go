package simulate_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/chessrecord/internal/adapters/repository"
	"github.com/okian/chessrecord/internal/simulate"
	"github.com/okian/chessrecord/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// recordingLogger keeps the messages it receives.
type recordingLogger struct {
	mu   *sync.Mutex
	msgs *[]string
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{mu: &sync.Mutex{}, msgs: &[]string{}}
}

func (l recordingLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.msgs = append(*l.msgs, msg)
}

func (l recordingLogger) Info(_ context.Context, msg string, _ ...logger.Field)  { l.add(msg) }
func (l recordingLogger) Error(_ context.Context, msg string, _ ...logger.Field) { l.add(msg) }
func (l recordingLogger) Debug(_ context.Context, msg string, _ ...logger.Field) { l.add(msg) }
func (l recordingLogger) Warn(_ context.Context, msg string, _ ...logger.Field)  { l.add(msg) }
func (l recordingLogger) Fatal(_ context.Context, msg string, _ ...logger.Field) { l.add(msg) }
func (l recordingLogger) Named(string) logger.Logger                             { return l }

func rankingIDs(ctx context.Context, cfg simulate.Config) []string {
	t, _, err := simulate.Run(ctx, cfg)
	So(err, ShouldBeNil)
	var ids []string
	for _, p := range t.Rankings() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given an odd field with a full-point bye", t, func() {
		cfg := simulate.Config{Players: 7, Rounds: 5, Seed: 42, DrawRate: 0.3, ByePoints: 1}

		Convey("When the tournament is simulated", func() {
			tr, stats, err := simulate.Run(ctx, cfg)

			Convey("Then every invariant holds", func() {
				So(err, ShouldBeNil)
				So(tr.Completed(), ShouldBeTrue)
				So(tr.CurrentRound(), ShouldEqual, 5)
				So(stats.RoundsPlayed, ShouldEqual, 5)
				So(stats.Boards, ShouldEqual, 15)
				So(stats.Byes, ShouldEqual, 5)
				So(stats.LedgerTotal, ShouldEqual, 20.0)
				So(stats.WhiteWins+stats.BlackWins+stats.Draws, ShouldEqual, 15)
				So(tr.Players(), ShouldHaveLength, 7)
				So(tr.Players()[0].Name, ShouldNotBeEmpty)
			})
		})

		Convey("When it is simulated twice with the same seed", func() {
			So(rankingIDs(ctx, cfg), ShouldResemble, rankingIDs(ctx, cfg))
		})
	})

	Convey("Given two players over three rounds", t, func() {
		_, stats, err := simulate.Run(ctx, simulate.Config{Players: 2, Rounds: 3, Seed: 7})

		Convey("Then the forced rematches are counted", func() {
			So(err, ShouldBeNil)
			So(stats.Rematches, ShouldEqual, 2)
			So(stats.LedgerTotal, ShouldEqual, 3.0)
		})
	})

	Convey("Given a repository to save into", t, func() {
		dir := t.TempDir()
		repo := repository.New(repository.NewFileStore(dir))
		tr, stats, err := simulate.Run(ctx, simulate.Config{Name: "Sim Cup", Players: 6, Rounds: 3, Seed: 3, Saver: repo})

		Convey("Then the final state can be loaded back", func() {
			So(err, ShouldBeNil)
			So(stats.SaveFailures, ShouldEqual, 0)
			loaded, err := repo.Find(ctx, "Sim Cup")
			So(err, ShouldBeNil)
			So(loaded.Completed(), ShouldBeTrue)
			So(loaded.Ledger(), ShouldResemble, tr.Ledger())
		})
	})

	Convey("Given no global logger", t, func() {
		Convey("A run without a logger still completes", func() {
			var err error
			So(func() {
				_, _, err = simulate.Run(ctx, simulate.Config{Players: 4, Rounds: 2, Seed: 9})
			}, ShouldNotPanic)
			So(err, ShouldBeNil)
		})

		Convey("A supplied logger receives the run log", func() {
			log := newRecordingLogger()
			_, _, err := simulate.Run(ctx, simulate.Config{Players: 4, Rounds: 2, Seed: 9, Logger: log, Verbose: true})
			So(err, ShouldBeNil)
			So(*log.msgs, ShouldNotBeEmpty)
			So(*log.msgs, ShouldContain, "board played")
		})
	})

	Convey("Given invalid settings", t, func() {
		_, _, err := simulate.Run(ctx, simulate.Config{Players: 1, Rounds: 3})
		So(err, ShouldNotBeNil)
		_, _, err = simulate.Run(ctx, simulate.Config{Players: 4, Rounds: 0})
		So(err, ShouldNotBeNil)
		_, _, err = simulate.Run(ctx, simulate.Config{Players: 4, Rounds: 2, DrawRate: 1.5})
		So(err, ShouldNotBeNil)
	})
}
