package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/chessrecord/internal/adapters/repository"
	"github.com/okian/chessrecord/internal/adapters/roster"
	service "github.com/okian/chessrecord/internal/app"
	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/pairing"
	"github.com/okian/chessrecord/internal/domain/scoring"
	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var testLog bytes.Buffer

func init() {
	if err := logger.InitWithWriter(&testLog); err != nil {
		panic(err)
	}
}

func clock() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local) }

func tournamentOpts() []tournament.Option {
	return []tournament.Option{
		tournament.WithClock(clock),
		tournament.WithPairingEngine(pairing.New(pairing.WithSeed(5))),
	}
}

type fakeRoster struct {
	players []roster.Player
	err     error
}

func (f fakeRoster) Find(_ context.Context, query string) ([]roster.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []roster.Player
	for _, p := range f.players {
		if p.ID == query || p.LastName == query {
			out = append(out, p)
		}
	}
	return out, nil
}

// failingStore reads from an inner store but refuses every write.
type failingStore struct {
	repository.Store
}

func (failingStore) Write(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func newService(t *testing.T, opts ...service.Option) (*service.Service, *repository.FileStore) {
	t.Helper()
	store := repository.NewFileStore(t.TempDir())
	repo := repository.New(store, repository.WithTournamentOptions(tournamentOpts()...))
	opts = append([]service.Option{
		service.WithLogger(logger.Get()),
		service.WithTournamentOptions(tournamentOpts()...),
	}, opts...)
	return service.New(repo, opts...), store
}

func create(ctx context.Context, svc *service.Service, name, start string, rounds int) {
	_, err := svc.CreateTournament(ctx, service.CreateRequest{
		Name: name, Location: "Leeds", StartDate: start, EndDate: start, Rounds: rounds,
	})
	So(err, ShouldBeNil)
}

func TestService_CreateAndList(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over an empty data directory", t, func() {
		svc, _ := newService(t, service.WithDefaultRounds(5), service.WithDefaultTimeControl("blitz"))

		Convey("When a tournament is created with defaults", func() {
			tr, err := svc.CreateTournament(ctx, service.CreateRequest{
				Name: "Spring Open", Location: "Leeds", StartDate: "01-04-2024", EndDate: "02-04-2024",
			})

			Convey("Then it is saved with the service defaults", func() {
				So(err, ShouldBeNil)
				So(tr.NumberOfRounds(), ShouldEqual, 5)
				So(tr.TimeControl(), ShouldEqual, "blitz")

				loaded, err := svc.Get(ctx, "spring open")
				So(err, ShouldBeNil)
				So(loaded.Name(), ShouldEqual, "Spring Open")
			})

			Convey("And creating it again is rejected", func() {
				_, err := svc.CreateTournament(ctx, service.CreateRequest{
					Name: "Spring Open", Location: "York", StartDate: "01-05-2024", EndDate: "01-05-2024",
				})
				So(errors.Is(err, service.ErrTournamentExists), ShouldBeTrue)
			})

			Convey("And a different name with the same file name is refused", func() {
				_, err := svc.CreateTournament(ctx, service.CreateRequest{
					Name: "Spring-Open", Location: "York", StartDate: "01-05-2024", EndDate: "01-05-2024",
				})
				So(errors.Is(err, repository.ErrKeyConflict), ShouldBeTrue)
				So(errors.Is(err, service.ErrTournamentExists), ShouldBeFalse)

				kept, err := svc.Get(ctx, "Spring Open")
				So(err, ShouldBeNil)
				So(kept.Location(), ShouldEqual, "Leeds")
			})
		})

		Convey("When the time control is given", func() {
			tr, err := svc.CreateTournament(ctx, service.CreateRequest{
				Name: "Bullet Night", Location: "Leeds", StartDate: "01-04-2024", EndDate: "01-04-2024", TimeControl: " Bullet ",
			})
			So(err, ShouldBeNil)
			So(tr.TimeControl(), ShouldEqual, "bullet")
		})

		Convey("When the name has nothing to build a file name from", func() {
			for _, name := range []string{"", "!!!", "*** ---"} {
				_, err := svc.CreateTournament(ctx, service.CreateRequest{
					Name: name, Location: "Leeds", StartDate: "01-04-2024", EndDate: "01-04-2024",
				})
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			}
		})

		Convey("When required fields are missing", func() {
			_, err := svc.CreateTournament(ctx, service.CreateRequest{Name: "No Venue", StartDate: "01-04-2024", EndDate: "01-04-2024"})
			So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
		})

		Convey("When several tournaments exist", func() {
			create(ctx, svc, "Old Cup", "01-01-2023", 1)
			create(ctx, svc, "New Cup", "01-01-2024", 1)
			create(ctx, svc, "Mid Cup", "01-06-2023", 2)
			_, err := svc.RegisterPlayer(ctx, "Old Cup", "AA")
			So(err, ShouldBeNil)
			_, err = svc.RegisterPlayer(ctx, "Old Cup", "BB")
			So(err, ShouldBeNil)
			_, _, err = svc.AdvanceRound(ctx, "Old Cup")
			So(err, ShouldBeNil)

			Convey("Then they are listed newest first and filtered by status", func() {
				all, err := svc.Tournaments(ctx, service.All)
				So(err, ShouldBeNil)
				So(names(all), ShouldResemble, []string{"New Cup", "Mid Cup", "Old Cup"})

				active, _ := svc.Tournaments(ctx, service.Active)
				So(names(active), ShouldResemble, []string{"New Cup", "Mid Cup"})

				done, _ := svc.Tournaments(ctx, service.Completed)
				So(names(done), ShouldResemble, []string{"Old Cup"})
			})
		})
	})
}

func names(ts []*tournament.Tournament) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name()
	}
	return out
}

func TestService_RegisterPlayer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tournament and a roster", t, func() {
		rost := fakeRoster{players: []roster.Player{
			{ID: "AB12345", FirstName: "Ada", LastName: "Byrne"},
			{ID: "CD23456", FirstName: "Cal", LastName: "Smith"},
			{ID: "EF34567", FirstName: "Eve", LastName: "Smith"},
		}}
		svc, _ := newService(t, service.WithRoster(rost))
		create(ctx, svc, "Club Night", "05-06-2024", 3)

		Convey("A unique match registers the roster player", func() {
			p, err := svc.RegisterPlayer(ctx, "Club Night", "Byrne")
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, "AB12345")
			So(p.Name, ShouldEqual, "Ada Byrne")

			tr, _ := svc.Get(ctx, "Club Night")
			So(tr.HasPlayer(model.Ref("AB12345")), ShouldBeTrue)
			So(tr.Points(model.Ref("AB12345")), ShouldEqual, 0.0)
		})

		Convey("An ambiguous query lists the candidates", func() {
			_, err := svc.RegisterPlayer(ctx, "Club Night", "Smith")
			So(errors.Is(err, service.ErrAmbiguousPlayer), ShouldBeTrue)
			var amb *service.AmbiguousPlayerError
			So(errors.As(err, &amb), ShouldBeTrue)
			So(amb.Candidates, ShouldHaveLength, 2)
		})

		Convey("An unknown query is used as a raw id", func() {
			p, err := svc.RegisterPlayer(ctx, "Club Night", "ZZ99999")
			So(err, ShouldBeNil)
			So(p, ShouldResemble, model.Ref("ZZ99999"))
		})

		Convey("Registering twice is rejected", func() {
			_, err := svc.RegisterPlayer(ctx, "Club Night", "AB12345")
			So(err, ShouldBeNil)
			_, err = svc.RegisterPlayer(ctx, "Club Night", "AB12345")
			So(errors.Is(err, tournament.ErrDuplicatePlayer), ShouldBeTrue)
		})

		Convey("An unknown tournament is reported", func() {
			_, err := svc.RegisterPlayer(ctx, "Nope", "AB12345")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a roster that fails", t, func() {
		svc, _ := newService(t, service.WithRoster(fakeRoster{err: errors.New("locked")}))
		create(ctx, svc, "Club Night", "05-06-2024", 3)

		Convey("The query falls back to a raw id", func() {
			p, err := svc.RegisterPlayer(ctx, "Club Night", "AB12345")
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, "AB12345")
		})
	})
}

func TestService_PlayTournament(t *testing.T) {
	ctx := context.Background()

	Convey("Given four registered players over two rounds", t, func() {
		svc, _ := newService(t)
		create(ctx, svc, "Weekend Swiss", "08-06-2024", 2)
		for _, id := range []string{"P1", "P2", "P3", "P4"} {
			_, err := svc.RegisterPlayer(ctx, "Weekend Swiss", id)
			So(err, ShouldBeNil)
		}

		Convey("Results cannot be entered before a round exists", func() {
			_, err := svc.RecordResult(ctx, "Weekend Swiss", 0, 1, scoring.Draw)
			So(errors.Is(err, service.ErrNoRounds), ShouldBeTrue)
		})

		Convey("When both rounds are played", func() {
			r1, res, err := svc.AdvanceRound(ctx, "Weekend Swiss")
			So(err, ShouldBeNil)
			So(r1.Matches, ShouldHaveLength, 2)
			So(res.Unpaired, ShouldBeEmpty)

			m, err := svc.RecordResult(ctx, "Weekend Swiss", 0, 1, scoring.Player1Win)
			So(err, ShouldBeNil)
			winner := m.Player1
			_, err = svc.RecordResult(ctx, "Weekend Swiss", 1, 2, scoring.Draw)
			So(err, ShouldBeNil)

			_, err = svc.RecordResult(ctx, "Weekend Swiss", 1, 9, scoring.Draw)
			So(errors.Is(err, tournament.ErrMatchNotFound), ShouldBeTrue)

			_, err = svc.RegisterPlayer(ctx, "Weekend Swiss", "LATE")
			So(errors.Is(err, tournament.ErrRosterLocked), ShouldBeTrue)

			_, _, err = svc.AdvanceRound(ctx, "Weekend Swiss")
			So(err, ShouldBeNil)

			Convey("Then the tournament is completed and the standings persisted", func() {
				tr, err := svc.Get(ctx, "Weekend Swiss")
				So(err, ShouldBeNil)
				So(tr.Completed(), ShouldBeTrue)
				So(tr.CurrentRound(), ShouldEqual, 2)

				rows, err := svc.Standings(ctx, "Weekend Swiss")
				So(err, ShouldBeNil)
				So(rows[0].Player, ShouldResemble, winner)
				So(rows[0].Points, ShouldEqual, 1.0)

				_, _, err = svc.AdvanceRound(ctx, "Weekend Swiss")
				So(errors.Is(err, tournament.ErrTournamentCompleted), ShouldBeTrue)
			})

			Convey("Then a correction adjusts the saved ledger", func() {
				total, err := svc.Correct(ctx, "Weekend Swiss", winner.ID, -0.5)
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 0.5)

				tr, _ := svc.Get(ctx, "Weekend Swiss")
				So(tr.Points(winner), ShouldEqual, 0.5)

				_, err = svc.Correct(ctx, "Weekend Swiss", "GHOST", 1)
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})
	})
}

func TestService_DegradedPersistence(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store that cannot be written", t, func() {
		dir := t.TempDir()
		repo := repository.New(failingStore{Store: repository.NewFileStore(dir)})
		svc := service.New(repo, service.WithLogger(logger.Get()))

		Convey("When a tournament is created", func() {
			tr, err := svc.CreateTournament(ctx, service.CreateRequest{
				Name: "Offline", Location: "Hull", StartDate: "01-07-2024", EndDate: "01-07-2024",
			})

			Convey("Then the tournament is returned with a persistence error", func() {
				So(tr, ShouldNotBeNil)
				So(tr.Name(), ShouldEqual, "Offline")
				So(errors.Is(err, repository.ErrPersistence), ShouldBeTrue)
				So(testLog.String(), ShouldContainSubstring, "tournament not saved")
			})
		})
	})
}
