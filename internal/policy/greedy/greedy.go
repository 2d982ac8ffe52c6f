// Package greedy implements the reference decision policy: buy whatever
// is affordable right now, never plan ahead, never trade.
package greedy

import (
	"sort"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/engine"
)

const (
	defaultHouseValue = 100
	defaultHotelValue = 100
)

// Policy is the greedy strategy. It is stateless; one instance can serve
// any number of seats.
type Policy struct{}

// New returns the greedy policy.
func New() *Policy {
	return &Policy{}
}

var _ engine.Policy = (*Policy)(nil)

// UseJailCard always spends a held card.
func (*Policy) UseJailCard(*engine.Game, *player.Player) bool {
	return true
}

// PayJailFine never pays; greedy waits the sentence out.
func (*Policy) PayJailFine(*engine.Game, *player.Player) bool {
	return false
}

// PlanLiquidation walks the build history group by group, newest unit
// first, then mortgages deeds in holding order, stopping as soon as the
// needed amount is covered. An uncoverable shortfall concedes with an
// empty plan.
func (*Policy) PlanLiquidation(g *engine.Game, p *player.Player, needed int) engine.LiquidationPlan {
	if needed <= 0 {
		return engine.LiquidationPlan{}
	}

	raised := 0
	sellUnits := make(map[int]int)
	var mortgage []*board.Position

	groupIDs := make([]int, 0, len(p.BuildHistory))
	for groupID := range p.BuildHistory {
		groupIDs = append(groupIDs, groupID)
	}
	sort.Ints(groupIDs)

	for _, groupID := range groupIDs {
		history := p.BuildHistory[groupID]
		for i := len(history) - 1; i >= 0; i-- {
			raised += history[i].HouseCost / 2
			sellUnits[groupID]++
			if raised >= needed {
				return engine.LiquidationPlan{SellUnits: sellUnits, Mortgage: mortgage}
			}
		}
	}

	for _, owned := range p.Owned {
		if owned.Mortgaged {
			continue
		}
		raised += owned.Mortgage
		mortgage = append(mortgage, owned)
		if raised >= needed {
			return engine.LiquidationPlan{SellUnits: sellUnits, Mortgage: mortgage}
		}
	}

	return engine.LiquidationPlan{}
}

// ProposeTrade never proposes anything.
func (*Policy) ProposeTrade(*engine.Game, *player.Player) {}

// EvaluateTrade declines every offer.
func (*Policy) EvaluateTrade(*engine.Game, *player.Player) bool {
	return false
}

// Bid offers the list price when cash allows, otherwise all cash on
// hand. Bare building pieces get a flat valuation.
func (*Policy) Bid(g *engine.Game, p *player.Player, a *engine.Auction) int {
	switch a.Item {
	case engine.AuctionPosition:
		if a.Position.Cost < p.Cash {
			return a.Position.Cost
		}
		return p.Cash
	case engine.AuctionHouse:
		return defaultHouseValue
	case engine.AuctionHotel:
		return defaultHotelValue
	}
	return 0
}

// ShouldPurchase buys anything affordable without selling or mortgaging.
func (*Policy) ShouldPurchase(g *engine.Game, p *player.Player, pos *board.Position) bool {
	return p.Cash >= pos.Cost
}

// ChooseDevelopment picks the first option the player can pay for.
func (*Policy) ChooseDevelopment(g *engine.Game, p *player.Player, options []*board.Position) *board.Position {
	for _, option := range options {
		if option.HouseCost <= p.Cash {
			return option
		}
	}
	return nil
}

// UnmortgageTargets lifts every mortgage the player can afford without
// raising money, in holding order.
func (*Policy) UnmortgageTargets(g *engine.Game, p *player.Player) []*board.Position {
	available := p.Cash
	var targets []*board.Position
	for _, owned := range p.Owned {
		if !owned.Mortgaged {
			continue
		}
		cost := owned.Mortgage + owned.Mortgage/10
		if available >= cost {
			available -= cost
			targets = append(targets, owned)
		}
	}
	return targets
}

// HousePieceValue prices a bare house piece.
func (*Policy) HousePieceValue() int {
	return defaultHouseValue
}

// HotelPieceValue prices a bare hotel piece.
func (*Policy) HotelPieceValue() int {
	return defaultHotelValue
}
