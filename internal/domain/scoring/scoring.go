// Package scoring maps game outcomes to the points credited to each side.
package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Points awarded per game.
const (
	WinPoints  = 1.0
	DrawPoints = 0.5
	LossPoints = 0.0
)

// ErrUnknownOutcome is returned when an outcome cannot be parsed.
var ErrUnknownOutcome = errors.New("unknown outcome")

// Outcome is the result of a single game from player1's side.
type Outcome int

const (
	Pending Outcome = iota
	Player1Win
	Player2Win
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Player1Win:
		return "player1_win"
	case Player2Win:
		return "player2_win"
	case Draw:
		return "draw"
	default:
		return "pending"
	}
}

// Points returns the scores credited to player1 and player2.
func Points(o Outcome) (float64, float64) {
	switch o {
	case Player1Win:
		return WinPoints, LossPoints
	case Player2Win:
		return LossPoints, WinPoints
	case Draw:
		return DrawPoints, DrawPoints
	default:
		return 0, 0
	}
}

// Of classifies a pair of recorded scores. Scores that are not one of the
// standard results are reported as Pending.
func Of(score1, score2 float64) Outcome {
	switch {
	case score1 == WinPoints && score2 == LossPoints:
		return Player1Win
	case score1 == LossPoints && score2 == WinPoints:
		return Player2Win
	case score1 == DrawPoints && score2 == DrawPoints:
		return Draw
	default:
		return Pending
	}
}

// ParseOutcome accepts the menu choices (1, 2, 3), colour names and PGN results.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "white", "1-0", "player1", "player1_win":
		return Player1Win, nil
	case "2", "black", "0-1", "player2", "player2_win":
		return Player2Win, nil
	case "3", "draw", "1/2-1/2", "=", "½-½":
		return Draw, nil
	}
	return Pending, fmt.Errorf("%w: %q (use 1, 2, 3, 1-0, 0-1 or 1/2-1/2)", ErrUnknownOutcome, s)
}
