package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/chessrecord/internal/report"
	"github.com/okian/chessrecord/internal/simulate"
)

func newSimulateCmd(a *application) *cobra.Command {
	var (
		cfg  simulate.Config
		save bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a generated tournament with random results",
		Long: `Generate players, play every round with random results and print the
final report. Every round is checked against the pairing and ledger rules.

With --save the tournament is written to data_dir after each round.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("bye-points") {
				cfg.ByePoints = a.cfg.ByePoints
			}
			if !cmd.Flags().Changed("seed") {
				cfg.Seed = a.cfg.Seed
			}
			cfg.Logger = a.log.Named("simulate")
			if save {
				cfg.Saver = a.repo
			}
			t, stats, err := simulate.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, report.Tournament(t))
			fmt.Fprintf(a.out, "\nSimulated %d rounds, %d boards (%d white wins, %d black wins, %d draws, %d byes) in %s\n",
				stats.RoundsPlayed, stats.Boards, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.Byes, stats.Duration)
			if stats.SaveFailures > 0 {
				fmt.Fprintf(a.errOut, "Warning: %d saves failed\n", stats.SaveFailures)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Name, "name", "", "tournament name (generated when empty)")
	f.IntVar(&cfg.Players, "players", 8, "number of generated players")
	f.IntVar(&cfg.Rounds, "rounds", 4, "number of rounds")
	f.Int64Var(&cfg.Seed, "seed", 0, "random seed (default from config, 0 is time based)")
	f.Float64Var(&cfg.DrawRate, "draw-rate", 0.3, "probability of a draw")
	f.Float64Var(&cfg.ByePoints, "bye-points", 0, "points for the unpaired player (default from config)")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log every board")
	f.BoolVar(&save, "save", false, "save the tournament after every round")
	return cmd
}
