package simulate

import (
	"context"
	"time"

	"github.com/okian/chessrecord/internal/domain/tournament"
	"github.com/okian/chessrecord/pkg/logger"
)

// Saver persists a tournament after every round.
type Saver interface {
	Save(ctx context.Context, t *tournament.Tournament) error
}

// Config holds configuration for a simulated tournament.
type Config struct {
	Name      string        // Tournament name; generated when empty
	Players   int           // Number of players to generate
	Rounds    int           // Number of rounds to play
	Seed      int64         // Seed for players, pairings and results; 0 is time based
	DrawRate  float64       // Probability of a drawn game
	ByePoints float64       // Points credited to an unpaired player
	Saver     Saver         // Optional; nil keeps the tournament in memory
	Logger    logger.Logger // Optional; nil discards the run log
	Verbose   bool          // Log every board
}

// Stats holds simulation statistics.
type Stats struct {
	Players      int
	RoundsPlayed int
	Boards       int
	Byes         int
	Rematches    int
	WhiteWins    int
	BlackWins    int
	Draws        int
	SaveFailures int
	LedgerTotal  float64
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
