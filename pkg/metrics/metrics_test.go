package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the collectors are registered under the default names", func() {
				So(manager, ShouldNotBeNil)
				manager.tournamentsCreated.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "chess_tournament_created_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("club"),
				WithSubsystem("events"),
				WithHistogramBuckets([]float64{1, 2}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "club")
				So(manager.subsystem, ShouldEqual, "events")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2})
				So(manager.customLabels, ShouldContainKey, "env")
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "chess")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When a round is advanced", func() {
			before := testutil.ToFloat64(globalManager.pairingRematches)
			RecordRoundAdvanced(2, 1)

			Convey("Then rematches and unpaired players are counted", func() {
				So(testutil.ToFloat64(globalManager.pairingRematches)-before, ShouldEqual, 2)
			})
		})

		Convey("When results and persistence operations are recorded", func() {
			before := testutil.ToFloat64(globalManager.resultsRecorded.WithLabelValues("draw"))
			RecordResult("draw")
			RecordPersistence("save", "ok", 1.5)

			Convey("Then the labelled counters move", func() {
				So(testutil.ToFloat64(globalManager.resultsRecorded.WithLabelValues("draw"))-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.persistenceOps.WithLabelValues("save", "ok")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When the remaining recorders are called", func() {
			So(func() {
				RecordTournamentCreated()
				RecordPlayerRegistered()
				RecordLedgerCorrection()
				RecordPairingLatency(0.2)
				UpdateTournamentCounts(3, 1)
				RecordErrorByComponent("repository", "decode")
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.tournamentsLoaded.WithLabelValues("active")), ShouldEqual, 3)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a metrics file path", t, func() {
		path := filepath.Join(t.TempDir(), "chess.prom")
		RecordTournamentCreated()

		Convey("When the registry is written", func() {
			err := WriteTextfile(path)

			Convey("Then the file holds the exposition format", func() {
				So(err, ShouldBeNil)
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(strings.Contains(string(data), "chess_tournament_created_total"), ShouldBeTrue)
			})
		})

		Convey("When the directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "chess.prom"))
			So(err, ShouldNotBeNil)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given configured metric options", t, func() {
		defer func() { So(Init(), ShouldBeNil) }()

		Convey("When the global manager is rebuilt", func() {
			err := Init(
				WithNamespace("club"),
				WithSubsystem("events"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithCustomLabels(map[string]string{"club": "leeds"}),
			)
			So(err, ShouldBeNil)
			RecordTournamentCreated()
			RecordPairingLatency(5)

			Convey("Then the exported names and labels follow them", func() {
				So(testutil.ToFloat64(globalManager.tournamentsCreated), ShouldEqual, 1)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
					So(f.GetMetric()[0].GetLabel(), ShouldNotBeEmpty)
				}
				So(names, ShouldContain, "club_events_created_total")
				So(names, ShouldContain, "club_events_pairing_latency_milliseconds")
				So(names, ShouldNotContain, "chess_tournament_created_total")
			})
		})

		Convey("When the options are invalid", func() {
			before := globalManager
			for _, opt := range []Option{
				WithNamespace("9lives"),
				WithSubsystem("with-dash"),
				WithHistogramBuckets([]float64{5, 1}),
				WithCustomLabels(map[string]string{"outcome": "x"}),
				WithCustomLabels(map[string]string{"__reserved": "x"}),
			} {
				So(errors.Is(Init(opt), ErrInvalidOption), ShouldBeTrue)
			}

			Convey("Then the previous manager stays in place", func() {
				So(globalManager, ShouldEqual, before)
			})
		})
	})
}
