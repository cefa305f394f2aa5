// Package pairing produces the player pairs for the next round of a Swiss
// tournament: a random draw for round 1, score groups afterwards.
package pairing

import (
	"math/rand"
	"time"

	"github.com/okian/chessrecord/internal/domain/model"
)

// Pair is one board of the next round.
type Pair struct {
	Player1 model.PlayerRef
	Player2 model.PlayerRef
}

// Result is the outcome of a pairing call.
type Result struct {
	Pairs []Pair
	// Unpaired holds the player left over with an odd roster, if any.
	Unpaired []model.PlayerRef
	// Rematches counts pairs the Swiss fallback had to repeat.
	Rematches int
}

// History answers questions about the rounds already played.
type History interface {
	// Rounds returns how many rounds exist.
	Rounds() int
	// PlayedBefore reports whether a and b already met.
	PlayedBefore(a, b model.PlayerRef) bool
}

// Engine dispatches between random and Swiss pairing.
type Engine struct {
	rng *rand.Rand
}

// New creates an Engine with a time seeded random source unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // pairing fairness, not security
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pair returns the pairs for the next round. players is the registration
// order, ranked the current standings. With no rounds played the draw is
// random; afterwards it is Swiss.
func (e *Engine) Pair(players, ranked []model.PlayerRef, h History) Result {
	if h == nil || h.Rounds() == 0 {
		return e.Random(players)
	}
	return Swiss(ranked, h)
}

// Random shuffles a copy of players and pairs neighbours (0,1), (2,3)...
// With an odd count the last shuffled player is left unpaired.
func (e *Engine) Random(players []model.PlayerRef) Result {
	shuffled := make([]model.PlayerRef, len(players))
	copy(shuffled, players)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var res Result
	for i := 0; i+1 < len(shuffled); i += 2 {
		res.Pairs = append(res.Pairs, Pair{Player1: shuffled[i], Player2: shuffled[i+1]})
	}
	if len(shuffled)%2 == 1 {
		res.Unpaired = append(res.Unpaired, shuffled[len(shuffled)-1])
	}
	return res
}

// Swiss walks the ranked list and pairs each free player with the next free
// player they have not met. When every remaining candidate is a rematch the
// first free player is taken anyway, so everybody but an odd leftover plays.
func Swiss(ranked []model.PlayerRef, h History) Result {
	used := make([]bool, len(ranked))
	var res Result

	for i, p1 := range ranked {
		if used[i] {
			continue
		}

		opponent, fallback := -1, -1
		for j := i + 1; j < len(ranked); j++ {
			if used[j] {
				continue
			}
			if fallback < 0 {
				fallback = j
			}
			if !h.PlayedBefore(p1, ranked[j]) {
				opponent = j
				break
			}
		}
		if opponent < 0 && fallback >= 0 {
			opponent = fallback
			res.Rematches++
		}
		if opponent < 0 {
			continue
		}

		used[i], used[opponent] = true, true
		res.Pairs = append(res.Pairs, Pair{Player1: p1, Player2: ranked[opponent]})
	}

	for i, p := range ranked {
		if !used[i] {
			res.Unpaired = append(res.Unpaired, p)
		}
	}
	return res
}

// roundHistory scans matches of previously played rounds.
type roundHistory []*model.Round

// FromRounds adapts a slice of rounds to History.
func FromRounds(rounds []*model.Round) History {
	return roundHistory(rounds)
}

func (h roundHistory) Rounds() int { return len(h) }

func (h roundHistory) PlayedBefore(a, b model.PlayerRef) bool {
	for _, r := range h {
		for _, m := range r.Matches {
			if m.Between(a, b) {
				return true
			}
		}
	}
	return false
}
