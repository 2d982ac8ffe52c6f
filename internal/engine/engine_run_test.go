package engine_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/engine"
	"github.com/dgurjar/monopoly-ai-simulator/internal/infra/boarddata"
	"github.com/dgurjar/monopoly-ai-simulator/internal/platform/logger"
	"github.com/dgurjar/monopoly-ai-simulator/internal/policy/greedy"
)

func newGreedyGame(t *testing.T, players int, seed int64) *engine.Game {
	t.Helper()
	layout, err := boarddata.NewLayout()
	require.NoError(t, err)
	chance, fortune, err := boarddata.NewDecks()
	require.NoError(t, err)

	seats := make([]engine.Seat, 0, players)
	for n := 1; n <= players; n++ {
		id := fmt.Sprintf("P%d", n)
		seats = append(seats, engine.Seat{Player: player.New(id, id), Policy: greedy.New()})
	}
	return engine.NewGame(engine.DefaultConfig(), layout, chance, fortune, seats,
		rand.New(rand.NewSource(seed)), logger.NewNop(), nil)
}

// checkGameInvariants asserts the properties that must hold after any
// finished game regardless of how the dice fell.
func checkGameInvariants(t *testing.T, g *engine.Game, winner *player.Player) {
	t.Helper()

	if winner == nil {
		assert.Equal(t, engine.DefaultConfig().TurnCap, g.Turn(), "a draw only happens at the round cap")
	}

	houses, hotels := 0, 0
	for _, p := range g.Players() {
		houses += p.Houses
		hotels += p.Hotels
		assert.GreaterOrEqual(t, p.Cash, 0, "player %s finished below zero", p.ID)
		if p.Bankrupt {
			assert.Empty(t, p.Owned, "bankrupt player %s still owns deeds", p.ID)
			assert.Empty(t, p.JailCards, "bankrupt player %s still holds cards", p.ID)
		}
	}
	assert.Equal(t, engine.DefaultConfig().Houses, g.Bank().Houses()+houses, "house pieces leaked")
	assert.Equal(t, engine.DefaultConfig().Hotels, g.Bank().Hotels()+hotels, "hotel pieces leaked")

	for _, pos := range g.Layout().Positions() {
		if pos.OwnerID == "" {
			continue
		}
		owned := false
		for _, p := range g.Players() {
			if p.ID == pos.OwnerID && !p.Bankrupt {
				owned = p.Owns(pos)
			}
		}
		assert.True(t, owned, "%s owned by a player that does not hold it", pos.Name)
	}
}

func TestTwoPlayerGamesResolve(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := newGreedyGame(t, 2, seed)
		winner, err := g.Run()
		require.NoError(t, err, "seed %d", seed)
		checkGameInvariants(t, g, winner)
	}
}

func TestFourPlayerGamesResolve(t *testing.T) {
	for seed := int64(100); seed < 105; seed++ {
		g := newGreedyGame(t, 4, seed)
		winner, err := g.Run()
		require.NoError(t, err, "seed %d", seed)
		checkGameInvariants(t, g, winner)
	}
}

func TestSameSeedSameOutcome(t *testing.T) {
	first := newGreedyGame(t, 2, 42)
	second := newGreedyGame(t, 2, 42)

	w1, err := first.Run()
	require.NoError(t, err)
	w2, err := second.Run()
	require.NoError(t, err)

	assert.Equal(t, first.Turn(), second.Turn())
	if w1 == nil {
		assert.Nil(t, w2)
	} else {
		require.NotNil(t, w2)
		assert.Equal(t, w1.ID, w2.ID)
	}
	for i, p := range first.Players() {
		assert.Equal(t, p.Cash, second.Players()[i].Cash, "player %s cash diverged", p.ID)
		assert.Equal(t, p.Position, second.Players()[i].Position)
	}
}
