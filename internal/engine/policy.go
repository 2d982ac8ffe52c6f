package engine

import (
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
)

// LiquidationPlan is a policy's answer to a cash shortfall: how many
// development units to sell per group (reversed out of build order) and
// which undeveloped deeds to mortgage.
type LiquidationPlan struct {
	SellUnits map[int]int
	Mortgage  []*board.Position
}

// Policy is the decision surface the engine consults on behalf of a
// player. Implementations must not mutate game state; they only answer
// questions. The trade hooks are reserved: the engine currently treats
// every trade as declined.
type Policy interface {
	// UseJailCard decides whether to spend a held jail-release card.
	UseJailCard(g *Game, p *player.Player) bool

	// PayJailFine decides whether to pay the fixed fine to leave jail.
	// Only consulted when the player can afford it.
	PayJailFine(g *Game, p *player.Player) bool

	// PlanLiquidation selects what to sell or mortgage to raise at least
	// needed cash. An empty plan concedes bankruptcy.
	PlanLiquidation(g *Game, p *player.Player, needed int) LiquidationPlan

	// ProposeTrade and EvaluateTrade are reserved hooks.
	ProposeTrade(g *Game, p *player.Player)
	EvaluateTrade(g *Game, p *player.Player) bool

	// Bid names an offer for the auctioned item. Zero or anything not
	// strictly above the current high bid passes.
	Bid(g *Game, p *player.Player, a *Auction) int

	// ShouldPurchase decides whether to buy an unowned position at its
	// listed price.
	ShouldPurchase(g *Game, p *player.Player, pos *board.Position) bool

	// ChooseDevelopment picks one position to build on out of the
	// currently eligible set, or nil to stop building this turn.
	ChooseDevelopment(g *Game, p *player.Player, options []*board.Position) *board.Position

	// UnmortgageTargets lists deeds to unmortgage this turn, in order.
	UnmortgageTargets(g *Game, p *player.Player) []*board.Position

	// HousePieceValue and HotelPieceValue price a bare building piece
	// for piece auctions.
	HousePieceValue() int
	HotelPieceValue() int
}
