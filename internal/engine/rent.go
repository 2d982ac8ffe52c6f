package engine

import (
	"fmt"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
)

// RentPaidPayload reports a rent transfer between players.
type RentPaidPayload struct {
	Position string `json:"position"`
	Amount   int    `json:"amount"`
}

// PropertyPurchasedPayload reports a deed acquisition.
type PropertyPurchasedPayload struct {
	Position string `json:"position"`
	Price    int    `json:"price"`
}

// refreshGroupTiers recomputes the ownership-driven rent tiers of pos's
// group after any ownership change. Railroads and utilities get a tier of
// (same-type positions held by their owner - 1), independently per owner.
// Streets unlock the group-complete tier only under a single owner; house
// and hotel tiers are never touched here.
func (g *Game) refreshGroupTiers(pos *board.Position) error {
	group, ok := g.layout.Group(pos.Group)
	if !ok {
		return fmt.Errorf("position %q references unknown group id %d", pos.Name, pos.Group)
	}

	if pos.Railroad || pos.Utility {
		tier := board.RentTier(-1)
		for _, sibling := range group {
			if sibling.OwnerID == pos.OwnerID {
				tier++
			}
		}
		for _, sibling := range group {
			if sibling.OwnerID == pos.OwnerID {
				sibling.Tier = tier
			}
		}
		return nil
	}

	if pos.Tier > board.TierDeedOnly {
		return nil
	}
	complete := true
	for _, sibling := range group {
		if sibling.OwnerID != pos.OwnerID {
			complete = false
			break
		}
	}
	for _, sibling := range group {
		if sibling.Tier >= board.TierHouse1 {
			continue
		}
		if complete {
			sibling.Tier = board.TierGroupComplete
		} else {
			sibling.Tier = board.TierDeedOnly
		}
	}
	return nil
}

// resolveOwnable applies the ownership-resolution algorithm for landing
// on a purchasable square: buy at list price, auction on decline, or pay
// rent to a solvent owner. Mortgaged squares and the owner's own squares
// charge nothing.
func (g *Game) resolveOwnable(p *player.Player, pos *board.Position, diceSum int) error {
	if pos.OwnerID == "" {
		if g.policyFor(p).ShouldPurchase(g, p, pos) {
			return g.purchase(p, pos, pos.Cost)
		}
		auction, err := g.newAuction(pos, g.players)
		if err != nil {
			return err
		}
		winner, bid := g.runAuction(auction)
		if winner != nil {
			g.emit(events.TypeAuctionWon, winner.ID, "", AuctionWonPayload{Position: pos.Name, Bid: bid})
			return g.purchase(winner, pos, bid)
		}
		return nil
	}

	if pos.OwnerID != p.ID && !pos.Mortgaged {
		owner := g.playerByID(pos.OwnerID)
		if owner == nil {
			return fmt.Errorf("position %q owned by unknown player %q", pos.Name, pos.OwnerID)
		}
		var owed int
		if pos.Utility {
			owed = diceSum * pos.Rent(pos.Tier)
		} else {
			owed = pos.Rent(pos.Tier)
		}
		g.log.Debug(fmt.Sprintf("player %s owes $%d to player %s for rent @ %s", p.ID, owed, owner.ID, pos.Name))
		g.emit(events.TypeRentPaid, p.ID, owner.ID, RentPaidPayload{Position: pos.Name, Amount: owed})
		_, err := g.Transfer(p, owner, owed)
		return err
	}
	return nil
}

// purchase charges price to p and transfers the deed on success. A payer
// who goes bankrupt raising the price never receives the deed.
func (g *Game) purchase(p *player.Player, pos *board.Position, price int) error {
	paid, err := g.Transfer(p, nil, price)
	if err != nil || !paid {
		return err
	}
	g.log.Debug("player " + p.ID + " purchases " + pos.Name)
	g.emit(events.TypePropertyPurchased, p.ID, "", PropertyPurchasedPayload{Position: pos.Name, Price: price})
	return g.grantDeed(p, pos)
}

// grantDeed assigns ownership of pos to p and refreshes the group tiers.
func (g *Game) grantDeed(p *player.Player, pos *board.Position) error {
	pos.OwnerID = p.ID
	p.GainDeed(pos)
	return g.refreshGroupTiers(pos)
}
