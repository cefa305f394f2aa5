package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/chessrecord/pkg/logger"
)

func init() {
	_ = logger.InitWithWriter(io.Discard)
}

type outcome struct {
	code   int
	stdout string
	stderr string
}

func execute(args ...string) outcome {
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return outcome{code: code, stdout: out.String(), stderr: errOut.String()}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func useTempEnv(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("CHESS_DATA_DIR", filepath.Join(dir, "tournaments"))
	t.Setenv("CHESS_ROSTER_DB", filepath.Join(dir, "roster.db"))
	t.Setenv("CHESS_METRICS_FILE", filepath.Join(dir, "metrics.prom"))
	t.Setenv("CHESS_ENV_FILE", filepath.Join(dir, "none.env"))
	t.Setenv("CHESS_CONFIG", "")
	t.Setenv("CHESS_SEED", "7")
	t.Setenv("CHESS_LOG_LEVEL", "error")
	t.Setenv("CHESS_METRICS_NAMESPACE", "chess")
	return dir
}

func TestTournamentLifecycle(t *testing.T) {
	convey.Convey("Given an empty data directory", t, func() {
		dir := useTempEnv(t)

		convey.Convey("A tournament can be run from creation to report", func() {
			res := execute("create", "Spring Open", "--location", "Lyon", "--start", "12-04-2025", "--end", "13-04-2025", "--rounds", "2")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Spring Open")
			convey.So(res.stdout, convey.ShouldContainSubstring, "Lyon")
			convey.So(fileExists(filepath.Join(dir, "tournaments", "spring_open.json")), convey.ShouldBeTrue)

			res = execute("create", "Spring Open", "--location", "Lyon")
			convey.So(res.code, convey.ShouldEqual, 1)
			convey.So(res.stderr, convey.ShouldContainSubstring, "already exists")

			res = execute("create", "Spring-Open", "--location", "York")
			convey.So(res.code, convey.ShouldEqual, 1)
			convey.So(res.stderr, convey.ShouldContainSubstring, "storage key used by another tournament")

			res = execute("roster", "add", "--id", "AB12345", "--first", "Magnus", "--last", "Carlsen")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "AB12345")

			res = execute("register", "Spring Open", "carlsen", "CD23456", "EF34567", "GH45678")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Registered Magnus Carlsen")
			convey.So(res.stdout, convey.ShouldContainSubstring, "Registered GH45678")

			res = execute("advance", "Spring Open")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Round 1")

			res = execute("register", "Spring Open", "IJ56789")
			convey.So(res.code, convey.ShouldEqual, 1)
			convey.So(res.stderr, convey.ShouldContainSubstring, "roster is locked")

			res = execute("result", "Spring Open", "1", "1-0")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "1-0")

			res = execute("result", "Spring Open", "2", "3")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "1/2-1/2")

			res = execute("correct", "Spring Open", "AB12345", "-0.5")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "AB12345 now has")

			res = execute("standings", "Spring Open")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Rank")
			convey.So(res.stdout, convey.ShouldContainSubstring, "CD23456")

			res = execute("advance", "Spring Open")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Round 2")

			res = execute("advance", "Spring Open")
			convey.So(res.code, convey.ShouldEqual, 1)
			convey.So(res.stderr, convey.ShouldContainSubstring, "completed")

			res = execute("list", "--completed")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Spring Open")

			res = execute("list", "--active")
			convey.So(res.stdout, convey.ShouldContainSubstring, "No tournaments found")

			res = execute("report", "Spring Open")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Round 1")
			convey.So(res.stdout, convey.ShouldContainSubstring, "Round 2")
			convey.So(res.stdout, convey.ShouldContainSubstring, "Standings")

			dump, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(dump), convey.ShouldContainSubstring, "chess_tournament_created_total")
		})

		convey.Convey("A file saved under another name is found by tournament name", func() {
			legacy := `{"name": "Winter Cup", "venue": "Glasgow", "dates": {"from": "10-12-2023", "to": "11-12-2023"},
				"number_of_rounds": 2, "players": [{"chess_id": "AB12345"}, {"chess_id": "CD23456"}]}`
			tournaments := filepath.Join(dir, "tournaments")
			convey.So(os.MkdirAll(tournaments, 0o755), convey.ShouldBeNil)
			convey.So(os.WriteFile(filepath.Join(tournaments, "sample_tournament.json"), []byte(legacy), 0o644), convey.ShouldBeNil)

			res := execute("advance", "Winter Cup")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Round 1")

			entries, err := os.ReadDir(tournaments)
			convey.So(err, convey.ShouldBeNil)
			convey.So(entries, convey.ShouldHaveLength, 1)
			convey.So(entries[0].Name(), convey.ShouldEqual, "sample_tournament.json")

			res = execute("show", "winter cup")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Glasgow")
		})

		convey.Convey("Unknown tournaments are reported", func() {
			res := execute("show", "Nowhere Cup")
			convey.So(res.code, convey.ShouldEqual, 1)
			convey.So(res.stderr, convey.ShouldContainSubstring, "not found")
		})

		convey.Convey("Malformed arguments fail the command", func() {
			convey.So(execute("create", "No Location").code, convey.ShouldEqual, 1)
			convey.So(execute("result", "Spring Open", "one", "1-0").code, convey.ShouldEqual, 1)
			convey.So(execute("list", "--active", "--completed").code, convey.ShouldEqual, 1)
		})

		convey.Convey("The metrics namespace comes from the configuration", func() {
			t.Setenv("CHESS_METRICS_NAMESPACE", "club")
			convey.So(execute("list").code, convey.ShouldEqual, 0)
			dump, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(dump), convey.ShouldContainSubstring, "club_tournament_created_total")

			t.Setenv("CHESS_METRICS_NAMESPACE", "bad-name")
			res := execute("list")
			convey.So(res.code, convey.ShouldEqual, 1)
			convey.So(res.stderr, convey.ShouldContainSubstring, "invalid metrics option")
		})

		convey.Convey("An empty data directory lists nothing", func() {
			res := execute("list")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "No tournaments found")
		})
	})
}

func TestRosterCommands(t *testing.T) {
	convey.Convey("Given a fresh roster database", t, func() {
		useTempEnv(t)

		convey.So(execute("roster", "add", "--id", "AB12345", "--first", "Judit", "--last", "Polgar", "--club", "Budapest").code, convey.ShouldEqual, 0)
		convey.So(execute("roster", "add", "--first", "Susan", "--last", "Polgar").code, convey.ShouldEqual, 0)

		convey.Convey("find matches by name", func() {
			res := execute("roster", "find", "polgar")
			convey.So(res.code, convey.ShouldEqual, 0)
			convey.So(res.stdout, convey.ShouldContainSubstring, "Judit Polgar")
			convey.So(res.stdout, convey.ShouldContainSubstring, "Susan Polgar")
		})

		convey.Convey("duplicate ids are rejected", func() {
			res := execute("roster", "add", "--id", "AB12345", "--last", "Other")
			convey.So(res.code, convey.ShouldEqual, 1)
		})

		convey.Convey("an ambiguous registration lists the candidates", func() {
			convey.So(execute("create", "Club Night", "--location", "Budapest").code, convey.ShouldEqual, 0)
			res := execute("register", "Club Night", "polgar")
			convey.So(res.code, convey.ShouldEqual, 1)
			convey.So(res.stderr, convey.ShouldContainSubstring, "Judit Polgar")
		})
	})
}

func TestSimulateCommand(t *testing.T) {
	convey.Convey("simulate plays a complete tournament", t, func() {
		dir := useTempEnv(t)

		res := execute("simulate", "--name", "Sim Cup", "--players", "5", "--rounds", "3", "--seed", "11", "--save")
		convey.So(res.code, convey.ShouldEqual, 0)
		convey.So(res.stdout, convey.ShouldContainSubstring, "Simulated 3 rounds")
		convey.So(fileExists(filepath.Join(dir, "tournaments", "sim_cup.json")), convey.ShouldBeTrue)

		res = execute("show", "Sim Cup")
		convey.So(res.code, convey.ShouldEqual, 0)
		convey.So(res.stdout, convey.ShouldContainSubstring, "Completed")
	})
}
