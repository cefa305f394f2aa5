package pairing

import "github.com/okian/chessrecord/internal/domain/model"

// ByeAward decides how many points the player left unpaired in a round receives.
type ByeAward func(p model.PlayerRef) float64

// NoBye drops the unpaired player for the round without credit. This is the
// historical behaviour of the record keeper and the default.
func NoBye(model.PlayerRef) float64 { return 0 }

// FullPointBye credits the conventional full point.
func FullPointBye(model.PlayerRef) float64 { return 1 }

// FixedBye credits points to every bye.
func FixedBye(points float64) ByeAward {
	return func(model.PlayerRef) float64 { return points }
}
