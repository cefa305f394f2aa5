package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/chessrecord/internal/adapters/repository"
	service "github.com/okian/chessrecord/internal/app"
	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/scoring"
	"github.com/okian/chessrecord/internal/report"
)

func newCreateCmd(a *application) *cobra.Command {
	var req service.CreateRequest
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a tournament",
		Example: `  chessrecord create "Spring Open" --location Lyon --start 12-04-2025 --end 13-04-2025
  chessrecord create Blitz --location Paris --start 01-05-2025 --time-control blitz --rounds 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			if req.StartDate == "" {
				req.StartDate = model.FormatDate(time.Now())
			}
			if req.EndDate == "" {
				req.EndDate = req.StartDate
			}
			t, err := a.svc.CreateTournament(cmd.Context(), req)
			if t == nil {
				return err
			}
			fmt.Fprint(a.out, report.Summary(t))
			return a.degraded(err)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Location, "location", "", "where the tournament is played")
	f.StringVar(&req.Description, "description", "", "free-form description")
	f.StringVar(&req.TimeControl, "time-control", "", "bullet, blitz, rapid, ... (default from config)")
	f.StringVar(&req.StartDate, "start", "", "start date DD-MM-YYYY (default today)")
	f.StringVar(&req.EndDate, "end", "", "end date DD-MM-YYYY (default start date)")
	f.IntVar(&req.Rounds, "rounds", 0, "number of rounds (default from config)")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newListCmd(a *application) *cobra.Command {
	var active, completed bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tournaments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := service.All
			switch {
			case active && completed:
				return errors.New("--active and --completed are mutually exclusive")
			case active:
				filter = service.Active
			case completed:
				filter = service.Completed
			}
			ts, err := a.svc.Tournaments(cmd.Context(), filter)
			if len(ts) > 0 || err == nil {
				fmt.Fprint(a.out, report.List(ts))
			}
			if err != nil {
				// Unreadable files do not hide the readable ones.
				fmt.Fprintf(a.errOut, "Warning: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "only tournaments still running")
	cmd.Flags().BoolVar(&completed, "completed", false, "only completed tournaments")
	return cmd
}

func newShowCmd(a *application) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a tournament summary, its players and the current round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, report.Summary(t))
			for i, p := range t.Players() {
				fmt.Fprintf(a.out, "  %d. %s\n", i+1, p)
			}
			if r := t.LastRound(); r != nil {
				fmt.Fprintln(a.out)
				fmt.Fprint(a.out, report.Round(r))
			}
			return nil
		},
	}
}

func newRegisterCmd(a *application) *cobra.Command {
	return &cobra.Command{
		Use:   "register NAME PLAYER...",
		Short: "Register players by chess id or roster name",
		Long: `Register players in a tournament that has not started yet.

Each PLAYER is looked up in the roster by id, then by name. A query that
matches nobody is registered as a raw player id.`,
		Args:        cobra.MinimumNArgs(2),
		Annotations: map[string]string{needsRoster: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, q := range args[1:] {
				p, err := a.svc.RegisterPlayer(cmd.Context(), args[0], q)
				if p.IsZero() {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(a.out, "Registered %s\n", p)
				if err := a.degraded(err); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func newAdvanceCmd(a *application) *cobra.Command {
	return &cobra.Command{
		Use:   "advance NAME",
		Short: "Pair and start the next round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, res, err := a.svc.AdvanceRound(cmd.Context(), args[0])
			if r == nil {
				return err
			}
			fmt.Fprint(a.out, report.Round(r))
			if res.Rematches > 0 {
				fmt.Fprintf(a.out, "Note: %d pairing(s) repeat an earlier game.\n", res.Rematches)
			}
			return a.degraded(err)
		},
	}
}

func newResultCmd(a *application) *cobra.Command {
	var round int
	cmd := &cobra.Command{
		Use:   "result NAME BOARD OUTCOME",
		Short: "Record the result of a board",
		Long: `Record the result of a board of the latest round, or of --round.

OUTCOME is 1 (white/player 1 wins), 2 (black/player 2 wins) or 3 (draw).
PGN results 1-0, 0-1 and 1/2-1/2 are accepted too.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: board must be a number, got %q", model.ErrValidation, args[1])
			}
			o, err := scoring.ParseOutcome(args[2])
			if err != nil {
				return err
			}
			m, err := a.svc.RecordResult(cmd.Context(), args[0], round, board, o)
			if m == nil {
				return err
			}
			fmt.Fprintf(a.out, "Board %d: %s %s %s\n", board, m.Player1, report.Result(m), m.Player2)
			return a.degraded(err)
		},
	}
	cmd.Flags().IntVar(&round, "round", 0, "round number (default latest)")
	return cmd
}

func newStandingsCmd(a *application) *cobra.Command {
	return &cobra.Command{
		Use:   "standings NAME",
		Short: "Print the points standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, report.Standings(t))
			return nil
		},
	}
}

func newReportCmd(a *application) *cobra.Command {
	return &cobra.Command{
		Use:   "report NAME",
		Short: "Print the full tournament report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, report.Tournament(t))
			return nil
		},
	}
}

func newCorrectCmd(a *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "correct NAME PLAYER DELTA",
		Short:   "Apply a manual points correction",
		Example: `  chessrecord correct "Spring Open" AB12345 -0.5`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("%w: delta must be a number, got %q", model.ErrValidation, args[2])
			}
			total, err := a.svc.Correct(cmd.Context(), args[0], args[1], delta)
			if err != nil && !errors.Is(err, repository.ErrPersistence) {
				return err
			}
			fmt.Fprintf(a.out, "%s now has %g points\n", args[1], total)
			return a.degraded(err)
		},
	}
	// Negative deltas are positional arguments, not flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
