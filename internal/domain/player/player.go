// Package player defines the participant entity of a single game.
// This package is PURE and must NOT import any infrastructure packages.
package player

import (
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/card"
)

// JailState tracks how many jail turns a player has already sat through.
// NotInJail is the only non-jailed value; the numbered stages advance by
// one each failed escape attempt.
type JailState int

const (
	NotInJail JailState = iota - 1
	JailTurn1
	JailTurn2
	JailTurn3
)

// Player is the mutable state of one participant. Decision making lives
// behind the engine's Policy interface; this type only carries state and
// pure accounting.
type Player struct {
	ID       string
	Name     string
	Cash     int
	Position int
	Jail     JailState
	Bankrupt bool

	// Owned holds back-references into the board arena. The positions
	// belong to the game, not to the player.
	Owned []*board.Position

	// JailCards are held jail-release cards, removed from their decks
	// until used or surrendered on bankruptcy.
	JailCards []*card.Card

	// BuildHistory records development purchases per group in the order
	// they were made. Forced sales reverse this order.
	BuildHistory map[int][]*board.Position

	// Houses and Hotels count the bank pieces currently standing on this
	// player's streets.
	Houses int
	Hotels int
}

// New creates a player with no cash and no holdings. The game assigns
// starting cash and position when the simulation begins.
func New(id, name string) *Player {
	return &Player{
		ID:           id,
		Name:         name,
		Jail:         NotInJail,
		BuildHistory: make(map[int][]*board.Position),
	}
}

// Owns reports whether the player currently holds the deed for pos.
func (p *Player) Owns(pos *board.Position) bool {
	return pos.OwnerID == p.ID
}

// HouseUnits returns the total number of building units the player has
// erected, counting a hotel as the five purchases it took to reach it.
func (p *Player) HouseUnits() int {
	count := 0
	for _, history := range p.BuildHistory {
		count += len(history)
	}
	return count
}

// HousesValue returns the forced-sale value of all standing development:
// half the unit cost per purchased unit.
func (p *Player) HousesValue() int {
	value := 0
	for _, owned := range p.Owned {
		if owned.CanDevelop() && owned.Tier >= board.TierHouse1 {
			value += (owned.HouseCost / 2) * int(owned.Tier-board.TierGroupComplete)
		}
	}
	return value
}

// PropertyValue returns the liquidation value of the player's holdings:
// standing development at half cost plus the mortgage value of every
// unmortgaged deed.
func (p *Player) PropertyValue() int {
	value := p.HousesValue()
	for _, owned := range p.Owned {
		if !owned.Mortgaged {
			value += owned.Mortgage
		}
	}
	return value
}

// AssetValue is cash plus property value. Auction bids are capped by it.
func (p *Player) AssetValue() int {
	return p.Cash + p.PropertyValue()
}

// RecordBuild appends a development purchase to the group's history.
func (p *Player) RecordBuild(pos *board.Position) {
	p.BuildHistory[pos.Group] = append(p.BuildHistory[pos.Group], pos)
}

// GainDeed attaches a position to the player's holdings. The caller is
// responsible for updating the position's owner id and group tiers.
func (p *Player) GainDeed(pos *board.Position) {
	p.Owned = append(p.Owned, pos)
}
