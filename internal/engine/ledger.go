package engine

import (
	"fmt"
	"sort"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
)

// TransferPayload reports a completed cash movement.
type TransferPayload struct {
	Amount int `json:"amount"`
}

// BankruptcyPayload reports a terminal bankruptcy.
type BankruptcyPayload struct {
	CreditorID string `json:"creditor_id,omitempty"`
}

// Transfer moves amount from payer to payee (nil = the bank). A payer
// short on cash is forced through the liquidation order first: standing
// development in reverse build order, then mortgages. If the shortfall
// survives liquidation the payer goes bankrupt to the payee and the
// transfer reports unpaid. Every completed transaction leaves the payer
// at or above zero cash.
func (g *Game) Transfer(payer, payee *player.Player, amount int) (bool, error) {
	if amount > payer.Cash {
		needed := amount - payer.Cash
		plan := g.policyFor(payer).PlanLiquidation(g, payer, needed)
		if err := g.sellDevelopment(payer, plan.SellUnits); err != nil {
			return false, err
		}
		g.mortgageAll(payer, plan.Mortgage)
		if amount > payer.Cash {
			if err := g.forceBankruptcy(payer, payee); err != nil {
				return false, err
			}
			return false, nil
		}
	}
	payer.Cash -= amount
	if payee != nil {
		payee.Cash += amount
	}
	target := ""
	if payee != nil {
		target = payee.ID
	}
	g.emit(events.TypeTransfer, payer.ID, target, TransferPayload{Amount: amount})
	return true, nil
}

// groupSale is one group's slice of a liquidation plan.
type groupSale struct {
	groupID     int
	units       int
	direct      []*board.Position // hotels sold outright, in board order
	conversions int               // hotels broken back into houses
}

func (s *groupSale) soldDirectly(pos *board.Position) bool {
	for _, member := range s.direct {
		if member == pos {
			return true
		}
	}
	return false
}

// sellDevelopment executes a liquidation plan's development sales, group
// by group, strictly reversing each group's build history. Groups sell in
// ascending order of hotel-to-house conversions so as few hotels as
// possible are broken down for bank houses.
func (g *Game) sellDevelopment(p *player.Player, sellUnits map[int]int) error {
	if len(sellUnits) == 0 {
		return nil
	}

	groupIDs := make([]int, 0, len(sellUnits))
	for groupID := range sellUnits {
		groupIDs = append(groupIDs, groupID)
	}
	sort.Ints(groupIDs)

	var sales []groupSale
	for _, groupID := range groupIDs {
		units := sellUnits[groupID]
		if units <= 0 {
			continue
		}
		group, ok := g.layout.Group(groupID)
		if !ok {
			return fmt.Errorf("liquidation references unknown group id %d", groupID)
		}
		history := p.BuildHistory[groupID]
		if units > len(history) {
			return fmt.Errorf("liquidation of group %d requests %d units but only %d were built", groupID, units, len(history))
		}

		sale := groupSale{groupID: groupID, units: units}

		// A fully hotelized group being sold out entirely sells each
		// hotel outright, skipping the house-by-house teardown.
		if units == len(group)*board.HotelHouseUnits {
			sale.direct = append(sale.direct, group...)
		}
		hotels := g.ownedHotelsInGroup(p, groupID, group)
		if hotels > units {
			hotels = units
		}
		sale.conversions = hotels - len(sale.direct)
		if sale.conversions < 0 {
			sale.conversions = 0
		}
		sales = append(sales, sale)
	}

	sort.SliceStable(sales, func(i, j int) bool { return sales[i].conversions < sales[j].conversions })

	for _, sale := range sales {
		history := p.BuildHistory[sale.groupID]
		for _, member := range sale.direct {
			g.sellHotelAt(p, member)
		}
		for _, pos := range history[len(history)-sale.units:] {
			if sale.soldDirectly(pos) {
				continue
			}
			if !g.sellHouseAt(p, pos) {
				return fmt.Errorf("unable to sell house @ %s per build history", pos.Name)
			}
		}
		p.BuildHistory[sale.groupID] = history[:len(history)-sale.units]
	}
	return nil
}

// ownedHotelsInGroup counts the hotels standing on a group the player
// owns outright; any member held by someone else means zero.
func (g *Game) ownedHotelsInGroup(p *player.Player, groupID int, group []*board.Position) int {
	for _, member := range group {
		if member.OwnerID != p.ID {
			return 0
		}
	}
	hotels := len(p.BuildHistory[groupID]) - (board.HotelHouseUnits-1)*len(group)
	if hotels < 0 {
		return 0
	}
	return hotels
}

// mortgageAll mortgages every valid position in the plan, crediting the
// mortgage value. A position carrying houses may not be mortgaged.
func (g *Game) mortgageAll(p *player.Player, positions []*board.Position) {
	for _, pos := range positions {
		if pos.OwnerID != p.ID || pos.Mortgaged {
			continue
		}
		if pos.CanDevelop() && pos.Tier >= board.TierHouse1 {
			continue
		}
		pos.Mortgaged = true
		p.Cash += pos.Mortgage
		g.log.Debug("player " + p.ID + " mortgages " + pos.Name)
		g.emit(events.TypeMortgaged, p.ID, "", MortgagePayload{Position: pos.Name, Amount: pos.Mortgage})
	}
}

// forceBankruptcy is the terminal cascade: liquidate all remaining
// development for cash, hand the cash and every deed to the creditor, or
// auction the deeds off to the surviving players when the debt was owed
// to the bank. Held jail-release cards return to their decks and the
// player is out of the game for good.
func (g *Game) forceBankruptcy(p *player.Player, creditor *player.Player) error {
	name := "the bank"
	if creditor != nil {
		name = "player " + creditor.ID
	}
	g.log.Debug("player " + p.ID + " is forced bankrupt by " + name)

	g.liquidateAllDevelopment(p)

	if creditor != nil {
		creditor.Cash += p.Cash
	}
	p.Cash = 0

	owned := p.Owned
	p.Owned = nil
	for _, pos := range owned {
		pos.OwnerID = ""
	}

	for _, c := range p.JailCards {
		c.Drawn = false
	}
	p.JailCards = nil
	p.Bankrupt = true

	creditorID := ""
	if creditor != nil {
		creditorID = creditor.ID
	}
	g.emit(events.TypeBankruptcy, p.ID, creditorID, BankruptcyPayload{CreditorID: creditorID})

	if creditor != nil {
		for _, pos := range owned {
			if err := g.grantDeed(creditor, pos); err != nil {
				return err
			}
		}
		return nil
	}

	// Owed to the bank: every deed goes back on the block, one at a
	// time. The queue keeps cascading bankruptcies iterative instead of
	// recursive.
	g.auctionQueue = append(g.auctionQueue, owned...)
	return g.drainAuctionQueue()
}

// liquidateAllDevelopment strips every standing house and hotel off the
// player's streets at half cost, returning the pieces to the bank. This
// supports the bankruptcy settlement, not any particular debt.
func (g *Game) liquidateAllDevelopment(p *player.Player) {
	p.Cash += p.HousesValue()
	for _, pos := range p.Owned {
		pos.Tier = board.TierDeedOnly
	}
	g.bank.houses += p.Houses
	g.bank.hotels += p.Hotels
	p.Houses = 0
	p.Hotels = 0
	p.BuildHistory = make(map[int][]*board.Position)
}

// drainAuctionQueue re-auctions forfeited deeds to the surviving players
// until the queue is empty. Winning payments go through the full ledger,
// so a winner overextending can go bankrupt in turn and feed the same
// queue; the reentrancy guard keeps a single flat drain loop.
func (g *Game) drainAuctionQueue() error {
	if g.auctioning {
		return nil
	}
	g.auctioning = true
	defer func() { g.auctioning = false }()

	for len(g.auctionQueue) > 0 {
		pos := g.auctionQueue[0]
		g.auctionQueue = g.auctionQueue[1:]

		var bidders []*player.Player
		for _, candidate := range g.players {
			if !candidate.Bankrupt {
				bidders = append(bidders, candidate)
			}
		}
		if len(bidders) == 0 {
			continue
		}
		auction, err := g.newAuction(pos, bidders)
		if err != nil {
			return err
		}
		winner, bid := g.runAuction(auction)
		if winner == nil {
			continue
		}
		paid, err := g.Transfer(winner, nil, bid)
		if err != nil {
			return err
		}
		if !paid {
			// The winner went bankrupt settling the bid; the deed stays
			// with the bank.
			continue
		}
		g.emit(events.TypeAuctionWon, winner.ID, "", AuctionWonPayload{Position: pos.Name, Bid: bid})
		if err := g.grantDeed(winner, pos); err != nil {
			return err
		}
	}
	return nil
}
