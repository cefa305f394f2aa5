package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/chessrecord/internal/adapters/roster"
	"github.com/okian/chessrecord/internal/report"
)

func newRosterCmd(a *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the player roster",
	}
	cmd.AddCommand(newRosterAddCmd(a), newRosterFindCmd(a), newRosterListCmd(a))
	return cmd
}

func newRosterAddCmd(a *application) *cobra.Command {
	var p roster.Player
	cmd := &cobra.Command{
		Use:         "add",
		Short:       "Add a player to the roster",
		Example:     `  chessrecord roster add --id AB12345 --first Magnus --last Carlsen --born 30-11-1990`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsRoster: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.requireRoster()
			if err != nil {
				return err
			}
			added, err := r.Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s\n", added.Ref())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.ID, "id", "", "national chess id AB12345 (generated when empty)")
	f.StringVar(&p.FirstName, "first", "", "first name")
	f.StringVar(&p.LastName, "last", "", "last name")
	f.StringVar(&p.BirthDate, "born", "", "birth date DD-MM-YYYY")
	f.StringVar(&p.Club, "club", "", "club")
	_ = cmd.MarkFlagRequired("last")
	return cmd
}

func newRosterFindCmd(a *application) *cobra.Command {
	return &cobra.Command{
		Use:         "find QUERY",
		Short:       "Find roster players by id or name",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{needsRoster: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.requireRoster()
			if err != nil {
				return err
			}
			found, err := r.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, report.Players(found))
			return nil
		},
	}
}

func newRosterListCmd(a *application) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List every roster player",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsRoster: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.requireRoster()
			if err != nil {
				return err
			}
			all, err := r.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, report.Players(all))
			return nil
		},
	}
}
