package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *application) *cobra.Command {
	root := &cobra.Command{
		Use:   "chessrecord",
		Short: "Chess tournament record keeper",
		Long: `chessrecord keeps the records of chess tournaments: the roster, the
rounds and their pairings, the results and the points standings.

Tournaments are stored as one JSON document each under data_dir.
Configuration comes from CHESS_* environment variables, an optional .env
file and an optional YAML file named by CHESS_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.AddCommand(
		newCreateCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newRegisterCmd(a),
		newAdvanceCmd(a),
		newResultCmd(a),
		newStandingsCmd(a),
		newReportCmd(a),
		newCorrectCmd(a),
		newRosterCmd(a),
		newSimulateCmd(a),
	)
	return root
}
