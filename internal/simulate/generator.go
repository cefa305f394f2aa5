package simulate

import (
	"fmt"
	"math/rand"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/okian/chessrecord/internal/domain/model"
	"github.com/okian/chessrecord/internal/domain/scoring"
)

// generatePlayers creates n players with fake names and uuid ids drawn from rng.
func generatePlayers(faker *gofakeit.Faker, rng *rand.Rand, n int) ([]model.PlayerRef, error) {
	players := make([]model.PlayerRef, n)
	for i := range players {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return nil, fmt.Errorf("generate player id: %w", err)
		}
		players[i] = model.PlayerRef{
			ID:   id.String(),
			Name: faker.FirstName() + " " + faker.LastName(),
		}
	}
	return players, nil
}

// randomOutcome draws a result with the given draw probability; decisive
// games are split evenly.
func randomOutcome(rng *rand.Rand, drawRate float64) scoring.Outcome {
	x := rng.Float64()
	switch {
	case x < drawRate:
		return scoring.Draw
	case x < drawRate+(1-drawRate)/2:
		return scoring.Player1Win
	default:
		return scoring.Player2Win
	}
}

func tournamentName(faker *gofakeit.Faker) string {
	return fmt.Sprintf("%s %s Open", faker.City(), faker.Color())
}
