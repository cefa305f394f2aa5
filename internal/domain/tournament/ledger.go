package tournament

import (
	"sort"

	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/scoring"
)

// The ledger is derived from match history on every query; only explicit
// corrections are stored.

// Points returns p's total, 0 for unknown players.
func (t *Tournament) Points(p model.PlayerRef) float64 {
	return t.Ledger()[p.Key()]
}

// AddPoints records an explicit correction of delta points for p.
func (t *Tournament) AddPoints(p model.PlayerRef, delta float64) {
	t.adjustments[p.Key()] += delta
}

// Ledger returns the total of every registered player, plus anyone else that
// appears in a match or a correction.
func (t *Tournament) Ledger() map[string]float64 {
	ledger := make(map[string]float64, len(t.players))
	for _, p := range t.players {
		ledger[p.Key()] = 0
	}
	for _, r := range t.rounds {
		for _, m := range r.Matches {
			ledger[m.Player1.Key()] += m.Score1
			ledger[m.Player2.Key()] += m.Score2
		}
		if !r.Bye.IsZero() {
			ledger[r.Bye.Key()] += r.ByePoints
		}
	}
	for k, delta := range t.adjustments {
		ledger[k] += delta
	}
	return ledger
}

// Rankings orders players by descending points. Equal scores keep
// registration order.
func (t *Tournament) Rankings() []model.PlayerRef {
	ledger := t.Ledger()
	ranked := t.Players()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ledger[ranked[i].Key()] > ledger[ranked[j].Key()]
	})
	return ranked
}

// Standing is one row of the standings table.
type Standing struct {
	Rank   int
	Player model.PlayerRef
	Points float64
	Played int
	Wins   int
	Draws  int
	Losses int
	Byes   int
}

// Standings returns the ranked table with per-player game counts.
func (t *Tournament) Standings() []Standing {
	ledger := t.Ledger()
	ranked := t.Rankings()
	rows := make([]Standing, len(ranked))
	index := make(map[string]int, len(ranked))
	for i, p := range ranked {
		rows[i] = Standing{Rank: i + 1, Player: p, Points: ledger[p.Key()]}
		index[p.Key()] = i
	}

	tally := func(p model.PlayerRef, mine, theirs float64) {
		i, ok := index[p.Key()]
		if !ok {
			return
		}
		rows[i].Played++
		switch {
		case mine == scoring.DrawPoints && theirs == scoring.DrawPoints:
			rows[i].Draws++
		case mine > theirs:
			rows[i].Wins++
		default:
			rows[i].Losses++
		}
	}

	for _, r := range t.rounds {
		for _, m := range r.Matches {
			if !m.Played() {
				continue
			}
			tally(m.Player1, m.Score1, m.Score2)
			tally(m.Player2, m.Score2, m.Score1)
		}
		if i, ok := index[r.Bye.Key()]; ok && !r.Bye.IsZero() {
			rows[i].Byes++
		}
	}
	return rows
}
