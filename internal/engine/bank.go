package engine

import (
	"fmt"
	"sort"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
)

// BuildingBank tracks the finite global stock of houses and hotels that
// every player competes for. It is the one shared mutable resource in a
// game and all mutation goes through the engine's build and sell paths.
type BuildingBank struct {
	houses int
	hotels int
}

// NewBuildingBank creates a bank with the given starting stock.
func NewBuildingBank(houses, hotels int) *BuildingBank {
	return &BuildingBank{houses: houses, hotels: hotels}
}

// Houses returns the houses currently in the bank.
func (b *BuildingBank) Houses() int { return b.houses }

// Hotels returns the hotels currently in the bank.
func (b *BuildingBank) Hotels() int { return b.hotels }

// DevelopmentPayload reports a build or forced-sale step.
type DevelopmentPayload struct {
	Position string `json:"position"`
	Amount   int    `json:"amount"`
}

// MortgagePayload reports a mortgage or unmortgage.
type MortgagePayload struct {
	Position string `json:"position"`
	Amount   int    `json:"amount"`
}

// unmortgageFor lifts mortgages the policy selects, at 110% of the
// mortgage value each, skipping any the player cannot afford.
func (g *Game) unmortgageFor(p *player.Player) {
	for _, pos := range g.policyFor(p).UnmortgageTargets(g, p) {
		if !pos.Mortgaged || pos.OwnerID != p.ID {
			continue
		}
		cost := pos.Mortgage + pos.Mortgage/10
		if p.Cash < cost {
			continue
		}
		p.Cash -= cost
		pos.Mortgaged = false
		g.log.Debug("player " + p.ID + " unmortgaged " + pos.Name)
		g.emit(events.TypeUnmortgaged, p.ID, "", MortgagePayload{Position: pos.Name, Amount: cost})
	}
}

// developFor repeatedly asks the policy for one development purchase
// until it declines, funds run out, the bank is out of houses, or the
// chosen position cannot take another unit. Building a hotel hands four
// houses back to the bank in exchange for a hotel piece.
func (g *Game) developFor(p *player.Player) error {
	for {
		options, err := g.buildOptions(p)
		if err != nil {
			return err
		}
		pos := g.policyFor(p).ChooseDevelopment(g, p, options)
		if pos == nil || g.bank.houses < 1 || p.Cash < pos.HouseCost ||
			pos.Tier == board.TierDeedOnly || pos.Tier == board.TierHotel {
			return nil
		}
		if pos.Tier == board.TierHouse4 && g.bank.hotels < 1 {
			return nil
		}

		p.Cash -= pos.HouseCost
		pos.Tier++
		if pos.Tier == board.TierHotel {
			g.bank.houses += board.HousesPerHotel
			g.bank.hotels--
			p.Houses -= board.HousesPerHotel
			p.Hotels++
			g.log.Debug("player " + p.ID + " bought hotel @ " + pos.Name)
			g.emit(events.TypeHotelBuilt, p.ID, "", DevelopmentPayload{Position: pos.Name, Amount: pos.HouseCost})
		} else {
			g.bank.houses--
			p.Houses++
			g.log.Debug("player " + p.ID + " bought house @ " + pos.Name)
			g.emit(events.TypeHouseBuilt, p.ID, "", DevelopmentPayload{Position: pos.Name, Amount: pos.HouseCost})
		}
		p.RecordBuild(pos)
	}
}

// buildOptions returns the positions the player may legally develop:
// members of fully-owned street groups that are not hotel-maxed, limited
// to the least-developed members so a group always builds evenly. The
// result is in board order for determinism.
func (g *Game) buildOptions(p *player.Player) ([]*board.Position, error) {
	var options []*board.Position
	seen := make(map[int]bool)

	for _, owned := range p.Owned {
		if !owned.CanDevelop() || owned.Tier <= board.TierDeedOnly || seen[owned.Group] {
			continue
		}
		seen[owned.Group] = true
		group, ok := g.layout.Group(owned.Group)
		if !ok {
			return nil, fmt.Errorf("position %q references unknown group id %d", owned.Name, owned.Group)
		}
		minTier := board.TierHotel
		for _, sibling := range group {
			if sibling.Tier < minTier {
				minTier = sibling.Tier
			}
		}
		if minTier == board.TierDeedOnly {
			return nil, fmt.Errorf("group %d mixes deed-only and developed tiers", owned.Group)
		}
		if minTier == board.TierHotel {
			continue
		}
		for _, sibling := range group {
			if sibling.Tier == minTier {
				options = append(options, sibling)
			}
		}
	}

	sort.Slice(options, func(i, j int) bool { return options[i].Index < options[j].Index })
	return options, nil
}

// sellHouseAt removes one development unit from pos, crediting half the
// unit cost. Selling off a hotel converts it back to four houses, which
// requires the bank to have them in stock. Returns false when the sale is
// not currently possible.
func (g *Game) sellHouseAt(p *player.Player, pos *board.Position) bool {
	if pos.Tier < board.TierHouse1 {
		return false
	}
	if pos.Tier == board.TierHotel {
		if g.bank.houses < board.HousesPerHotel {
			return false
		}
		p.Hotels--
		g.bank.hotels++
		g.bank.houses -= board.HousesPerHotel
		p.Houses += board.HousesPerHotel
	} else {
		p.Houses--
		g.bank.houses++
	}
	pos.Tier--
	p.Cash += pos.HouseCost / 2
	g.log.Debug("player " + p.ID + " sells house @ " + pos.Name)
	g.emit(events.TypeHouseSold, p.ID, "", DevelopmentPayload{Position: pos.Name, Amount: pos.HouseCost / 2})
	return true
}

// sellHotelAt sells a whole hotel outright, crediting the full five
// half-cost units it took to erect, without needing bank houses.
func (g *Game) sellHotelAt(p *player.Player, pos *board.Position) bool {
	if pos.Tier != board.TierHotel {
		return false
	}
	p.Hotels--
	g.bank.hotels++
	pos.Tier = board.TierGroupComplete
	p.Cash += pos.HouseCost * board.HotelHouseUnits / 2
	g.log.Debug("player " + p.ID + " sells hotel @ " + pos.Name)
	g.emit(events.TypeHotelSold, p.ID, "", DevelopmentPayload{Position: pos.Name, Amount: pos.HouseCost * board.HotelHouseUnits / 2})
	return true
}
