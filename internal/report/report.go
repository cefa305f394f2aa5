// Package report renders tournaments, rounds and standings as terminal tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/chessrecord/internal/adapters/roster"
	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/scoring"
	"github.com/okian/chessrecord/internal/domain/tournament"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// Status is "Completed" or "Active".
func Status(t *tournament.Tournament) string {
	if t.Completed() {
		return "Completed"
	}
	return "Active"
}

// List renders tournaments in the given order with their status.
func List(ts []*tournament.Tournament) string {
	if len(ts) == 0 {
		return "No tournaments found.\n"
	}
	tbl := newTable("#", "Name", "Location", "Start", "Round", "Status")
	for i, t := range ts {
		tbl.Row(
			strconv.Itoa(i+1),
			t.Name(),
			t.Location(),
			t.StartDate(),
			fmt.Sprintf("%d/%d", t.CurrentRound(), t.NumberOfRounds()),
			Status(t),
		)
	}
	return tbl.String() + "\n"
}

// Result renders a match score: 1-0, 0-1, 1/2-1/2, "-" when pending, or the
// raw scores when they are non-standard.
func Result(m *model.Match) string {
	switch scoring.Of(m.Score1, m.Score2) {
	case scoring.Player1Win:
		return "1-0"
	case scoring.Player2Win:
		return "0-1"
	case scoring.Draw:
		return "1/2-1/2"
	}
	if !m.Played() {
		return "-"
	}
	return fmt.Sprintf("%g-%g", m.Score1, m.Score2)
}

// Round renders the boards of r.
func Round(r *model.Round) string {
	var b strings.Builder
	span := r.StartString()
	if r.Closed() {
		span += " - " + r.EndString()
	}
	fmt.Fprintf(&b, "%s (%s)\n", titleStyle.Render(r.Name), span)

	if len(r.Matches) == 0 {
		b.WriteString("No boards.\n")
	} else {
		tbl := newTable("Board", "Player 1", "Player 2", "Result")
		for i, m := range r.Matches {
			tbl.Row(strconv.Itoa(i+1), m.Player1.String(), m.Player2.String(), Result(m))
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}
	if !r.Bye.IsZero() {
		fmt.Fprintf(&b, "Bye: %s (+%g)\n", r.Bye, r.ByePoints)
	}
	return b.String()
}

// Standings renders the ranked table of t.
func Standings(t *tournament.Tournament) string {
	rows := t.Standings()
	if len(rows) == 0 {
		return "No players registered.\n"
	}
	tbl := newTable("Rank", "Player", "Points", "Played", "W", "D", "L", "Byes")
	for _, s := range rows {
		tbl.Row(
			strconv.Itoa(s.Rank),
			s.Player.String(),
			strconv.FormatFloat(s.Points, 'g', -1, 64),
			strconv.Itoa(s.Played),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Draws),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Byes),
		)
	}
	return tbl.String() + "\n"
}

// Summary renders the header block of t.
func Summary(t *tournament.Tournament) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("=== "+t.Name()+" ==="))
	fmt.Fprintf(&b, "Location: %s\n", t.Location())
	if t.Description() != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description())
	}
	fmt.Fprintf(&b, "Dates: %s to %s\n", t.StartDate(), t.EndDate())
	fmt.Fprintf(&b, "Time control: %s\n", t.TimeControl())
	current := "Not started"
	if t.CurrentRound() > 0 {
		current = strconv.Itoa(t.CurrentRound())
	}
	fmt.Fprintf(&b, "Rounds: %d of %d | Current: %s | %s\n", len(t.Rounds()), t.NumberOfRounds(), current, Status(t))
	fmt.Fprintf(&b, "Players: %d\n", len(t.Players()))
	return b.String()
}

// Tournament renders the full report: summary, every round and the standings.
func Tournament(t *tournament.Tournament) string {
	var b strings.Builder
	b.WriteString(Summary(t))
	for _, r := range t.Rounds() {
		b.WriteString("\n")
		b.WriteString(Round(r))
	}
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Standings"))
	b.WriteString("\n")
	b.WriteString(Standings(t))
	return b.String()
}

// Players renders roster entries.
func Players(ps []roster.Player) string {
	if len(ps) == 0 {
		return "No players found.\n"
	}
	tbl := newTable("ID", "Name", "Born", "Club")
	for _, p := range ps {
		tbl.Row(p.ID, p.Name(), p.BirthDate, p.Club)
	}
	return tbl.String() + "\n"
}
