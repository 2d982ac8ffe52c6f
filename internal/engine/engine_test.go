package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/card"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
	"github.com/dgurjar/monopoly-ai-simulator/internal/infra/boarddata"
	"github.com/dgurjar/monopoly-ai-simulator/internal/platform/logger"
)

// stubPolicy scripts every decision so scenarios stay deterministic.
type stubPolicy struct {
	useJailCard bool
	payJailFine bool
	purchase    bool
	develop     bool
	bid         int
	unmortgage  []*board.Position
	plan        LiquidationPlan
}

func (s *stubPolicy) UseJailCard(*Game, *player.Player) bool { return s.useJailCard }
func (s *stubPolicy) PayJailFine(*Game, *player.Player) bool { return s.payJailFine }
func (s *stubPolicy) PlanLiquidation(*Game, *player.Player, int) LiquidationPlan {
	return s.plan
}
func (s *stubPolicy) ProposeTrade(*Game, *player.Player)       {}
func (s *stubPolicy) EvaluateTrade(*Game, *player.Player) bool { return false }
func (s *stubPolicy) Bid(*Game, *player.Player, *Auction) int  { return s.bid }
func (s *stubPolicy) ShouldPurchase(*Game, *player.Player, *board.Position) bool {
	return s.purchase
}
func (s *stubPolicy) ChooseDevelopment(g *Game, p *player.Player, options []*board.Position) *board.Position {
	if !s.develop {
		return nil
	}
	for _, option := range options {
		if option.HouseCost <= p.Cash {
			return option
		}
	}
	return nil
}
func (s *stubPolicy) UnmortgageTargets(*Game, *player.Player) []*board.Position {
	return s.unmortgage
}
func (s *stubPolicy) HousePieceValue() int { return 50 }
func (s *stubPolicy) HotelPieceValue() int { return 50 }

func newTestGame(t *testing.T, cfg Config, policies ...*stubPolicy) *Game {
	t.Helper()
	layout, err := boarddata.NewLayout()
	require.NoError(t, err)
	chance, fortune, err := boarddata.NewDecks()
	require.NoError(t, err)

	seats := make([]Seat, 0, len(policies))
	for i, pol := range policies {
		id := fmt.Sprintf("P%d", i+1)
		seats = append(seats, Seat{Player: player.New(id, id), Policy: pol})
	}
	return NewGame(cfg, layout, chance, fortune, seats, rand.New(rand.NewSource(7)), logger.NewNop(), events.NewLog(nil))
}

func singleCardDeck(rec card.Record) *card.Deck {
	return card.NewDeck([]card.Record{rec})
}

// diceScript is a rand.Source whose values make each Intn(6) call come
// out as the scripted die face, cycling when the script runs out.
type diceScript struct {
	faces []int64
	next  int
}

func (d *diceScript) Int63() int64 {
	v := d.faces[d.next%len(d.faces)] - 1
	d.next++
	return v << 32
}

func (d *diceScript) Seed(int64) {}

// scriptDice replaces the game's random source so every subsequent roll
// follows the given faces in order.
func scriptDice(g *Game, faces ...int64) {
	g.rng = rand.New(&diceScript{faces: faces})
}

func TestPlayTurnSkipsBankrupt(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{}, &stubPolicy{})
	p := g.Players()[0]
	p.Bankrupt = true
	p.Position = 17

	require.NoError(t, g.PlayTurn(p))
	assert.Equal(t, 17, p.Position)
}

func TestSendToJail(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 24

	g.sendToJail(p)
	assert.Equal(t, player.JailTurn1, p.Jail)
	assert.Equal(t, g.cfg.JailIndex, p.Position)
}

func TestJailForcedReleaseOnFourthTurn(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Jail = player.JailTurn3 + 1

	require.NoError(t, g.playJail(p))
	assert.Equal(t, player.NotInJail, p.Jail)
}

func TestJailStagesAdvanceWhileWaiting(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Jail = player.JailTurn1

	require.NoError(t, g.playJail(p))
	assert.Equal(t, player.JailTurn2, p.Jail)

	require.NoError(t, g.playJail(p))
	assert.Equal(t, player.JailTurn3, p.Jail)
}

func TestJailReleaseCardReturnsToDeck(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{useJailCard: true})
	p := g.Players()[0]
	p.Jail = player.JailTurn1

	held := &card.Card{ID: 99, Kind: card.KindJailRelease, Drawn: true}
	p.JailCards = append(p.JailCards, held)

	require.NoError(t, g.playJail(p))
	assert.Equal(t, player.NotInJail, p.Jail)
	assert.Empty(t, p.JailCards)
	assert.False(t, held.Drawn, "a spent card rejoins the deck rotation")
}

func TestJailFinePaysBank(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{payJailFine: true})
	p := g.Players()[0]
	p.Jail = player.JailTurn2

	require.NoError(t, g.playJail(p))
	assert.Equal(t, player.NotInJail, p.Jail)
	assert.Equal(t, 1500-g.cfg.JailFine, p.Cash)
}

func TestJailFineSkippedWhenBroke(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{payJailFine: true})
	p := g.Players()[0]
	p.Jail = player.JailTurn1
	p.Cash = g.cfg.JailFine - 1

	require.NoError(t, g.playJail(p))
	assert.Equal(t, player.JailTurn2, p.Jail, "an unaffordable fine is never offered")
	assert.Equal(t, g.cfg.JailFine-1, p.Cash)
}

func TestThreeConsecutiveDoublesJail(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	scriptDice(g, 4, 4)

	require.NoError(t, g.PlayTurn(p))

	assert.Equal(t, player.JailTurn1, p.Jail)
	assert.Equal(t, g.cfg.JailIndex, p.Position, "the third doubles roll never moves")
	assert.Equal(t, 1500, p.Cash)
	assert.Len(t, g.rec.GetByType(events.TypeDiceRolled), 3)
	assert.Len(t, g.rec.GetByType(events.TypeSentToJail), 1)
}

func TestDoublesEscapeJailAndMove(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Jail = player.JailTurn1
	p.Position = g.cfg.JailIndex
	scriptDice(g, 4, 4, 2, 5)

	require.NoError(t, g.PlayTurn(p))

	assert.Equal(t, player.NotInJail, p.Jail)
	assert.Equal(t, 25, p.Position, "the escaping roll moves and keeps the extra roll")
	require.Len(t, g.rec.GetByType(events.TypeJailEscape), 1)
	assert.Len(t, g.rec.GetByType(events.TypeDiceRolled), 2)
}

func TestJailedTurnWithoutDoublesStays(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Jail = player.JailTurn1
	p.Position = g.cfg.JailIndex
	scriptDice(g, 2, 5)

	require.NoError(t, g.PlayTurn(p))

	assert.Equal(t, player.JailTurn2, p.Jail)
	assert.Equal(t, g.cfg.JailIndex, p.Position, "a failed escape roll never moves")
}

func TestGoToJailSquare(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 30

	require.NoError(t, g.resolveLanding(p, 3, 4))
	assert.Equal(t, player.JailTurn1, p.Jail)
	assert.Equal(t, g.cfg.JailIndex, p.Position)
}

func TestGoToJailCardReResolves(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	g.chance = singleCardDeck(card.Record{ID: 1, Kind: card.KindRelocate, Flag: 0, Amount: 30})
	p := g.Players()[0]
	p.Position = 7

	require.NoError(t, g.resolveLanding(p, 3, 4))
	assert.Equal(t, player.JailTurn1, p.Jail)
	assert.Equal(t, g.cfg.JailIndex, p.Position)
	assert.Equal(t, 1500, p.Cash, "a direct teleport never collects")
}

func TestIncomeTaxTenPercent(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 4

	require.NoError(t, g.resolveLanding(p, 1, 3))
	assert.Equal(t, 1500-150, p.Cash)
}

func TestIncomeTaxCapped(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Cash = 3000
	p.Position = 4

	require.NoError(t, g.resolveLanding(p, 1, 3))
	assert.Equal(t, 3000-200, p.Cash)
}

func TestLuxuryTax(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 38

	require.NoError(t, g.resolveLanding(p, 1, 3))
	assert.Equal(t, 1500-100, p.Cash)
}

func TestRelocateBackwards(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 36

	deck := singleCardDeck(card.Record{ID: 1, Kind: card.KindRelocate, Flag: -3})
	moved, err := g.drawAndApply(p, deck)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 33, p.Position)
	assert.Equal(t, 1500, p.Cash, "moving backwards never collects")
}

func TestRelocateForwardCollectsWhenPassingStart(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 36

	deck := singleCardDeck(card.Record{ID: 1, Kind: card.KindRelocate, Flag: 1, Amount: 5})
	moved, err := g.drawAndApply(p, deck)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 5, p.Position)
	assert.Equal(t, 1500+g.cfg.GoIncome, p.Cash)
}

func TestNearestRailroadWalk(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 7

	deck := singleCardDeck(card.Record{ID: 1, Kind: card.KindNearestRailroad})
	moved, err := g.drawAndApply(p, deck)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 15, p.Position)
}

func TestNearestUtilityWalkAcrossStart(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	p.Position = 29

	deck := singleCardDeck(card.Record{ID: 1, Kind: card.KindNearestUtility})
	moved, err := g.drawAndApply(p, deck)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 12, p.Position, "the walk wraps past start to the next utility")
	assert.Equal(t, 1500+g.cfg.GoIncome, p.Cash)
}

func TestHouseTaxCard(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]
	street := g.layout.At(1)
	for i := 0; i < 3; i++ {
		p.RecordBuild(street)
	}

	deck := singleCardDeck(card.Record{ID: 1, Kind: card.KindHouseTax, Flag: 25})
	moved, err := g.drawAndApply(p, deck)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 1500-75, p.Cash)
}

func TestCashDeltaCard(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]

	moved, err := g.drawAndApply(p, singleCardDeck(card.Record{ID: 1, Kind: card.KindCashDelta, Amount: 150}))
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 1650, p.Cash)

	_, err = g.drawAndApply(p, singleCardDeck(card.Record{ID: 2, Kind: card.KindCashDelta, Amount: -50}))
	require.NoError(t, err)
	assert.Equal(t, 1600, p.Cash)
}

func TestJailReleaseCardIsHeld(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]

	deck := singleCardDeck(card.Record{ID: 8, Kind: card.KindJailRelease})
	moved, err := g.drawAndApply(p, deck)
	require.NoError(t, err)
	assert.False(t, moved)
	require.Len(t, p.JailCards, 1)
	assert.True(t, p.JailCards[0].Drawn)
	assert.Nil(t, deck.Draw(), "a held card leaves the deck rotation")
}

func TestUnknownCardKind(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{})
	p := g.Players()[0]

	_, err := g.drawAndApply(p, singleCardDeck(card.Record{ID: 1, Kind: "confetti"}))
	assert.Error(t, err)
}

func TestRunEndsInDrawAtTurnCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TurnCap = 1
	g := newTestGame(t, cfg, &stubPolicy{}, &stubPolicy{})

	winner, err := g.Run()
	require.NoError(t, err)
	assert.Nil(t, winner)
	assert.Equal(t, 1, g.Turn())

	ended := g.rec.GetByType(events.TypeGameEnded)
	require.Len(t, ended, 1)
}

func TestWinner(t *testing.T) {
	g := newTestGame(t, DefaultConfig(), &stubPolicy{}, &stubPolicy{}, &stubPolicy{})
	players := g.Players()

	assert.Nil(t, g.Winner(), "a contested game has no winner")

	players[1].Bankrupt = true
	assert.Nil(t, g.Winner())

	players[2].Bankrupt = true
	require.NotNil(t, g.Winner())
	assert.Equal(t, "P1", g.Winner().ID)
}
