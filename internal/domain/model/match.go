package model

import "fmt"

// Match is a single game between two distinct players.
type Match struct {
	Player1 PlayerRef
	Player2 PlayerRef
	Score1  float64
	Score2  float64
}

// NewMatch creates an unplayed match. It fails with ErrInvalidMatch when a
// player is missing or both slots hold the same player.
func NewMatch(p1, p2 PlayerRef) (*Match, error) {
	if p1.IsZero() || p2.IsZero() {
		return nil, fmt.Errorf("%w: a match requires two players", ErrInvalidMatch)
	}
	if p1.Is(p2) {
		return nil, fmt.Errorf("%w: %s cannot play themselves", ErrInvalidMatch, p1.ID)
	}
	return &Match{Player1: p1, Player2: p2}, nil
}

// SetResult overwrites both scores. Values are not validated.
func (m *Match) SetResult(score1, score2 float64) {
	m.Score1 = score1
	m.Score2 = score2
}

// Played reports whether a result has been entered.
func (m *Match) Played() bool {
	return m.Score1 != 0 || m.Score2 != 0
}

// Involves reports whether p plays in this match.
func (m *Match) Involves(p PlayerRef) bool {
	return m.Player1.Is(p) || m.Player2.Is(p)
}

// Between reports whether the match opposes a and b, in either order.
func (m *Match) Between(a, b PlayerRef) bool {
	return (m.Player1.Is(a) && m.Player2.Is(b)) || (m.Player1.Is(b) && m.Player2.Is(a))
}

func (m *Match) String() string {
	return fmt.Sprintf("%s vs %s (%g-%g)", m.Player1, m.Player2, m.Score1, m.Score2)
}
