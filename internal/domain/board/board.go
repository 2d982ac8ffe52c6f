// Package board defines the static board layout and the per-position
// ownership state for the property simulator.
// This package is PURE and must NOT import any infrastructure packages.
package board

import "fmt"

// RentTier is the discrete development/ownership level of a position.
// For streets it indexes the rent table from bare deed up to a hotel.
// For railroads and utilities it is (count of same-type positions the
// owner holds - 1).
type RentTier int

const (
	TierDeedOnly RentTier = iota
	TierGroupComplete
	TierHouse1
	TierHouse2
	TierHouse3
	TierHouse4
	TierHotel
)

const (
	// HotelHouseUnits is how many half-cost building units a hotel is worth
	// when valued or sold outright (four houses plus the hotel upgrade).
	HotelHouseUnits = 5

	// HousesPerHotel is how many houses return to the bank stock when a
	// hotel is erected on top of them, and leave it again when the hotel
	// is broken back down into houses.
	HousesPerHotel = 4
)

// Special marks the squares whose landing effect is not driven by
// ownership or a card draw.
type Special string

const (
	SpecialNone      Special = ""
	SpecialGoToJail  Special = "go_to_jail"
	SpecialIncomeTax Special = "income_tax"
)

// Record is the tabular definition of one board position, as provided by
// the external data source.
type Record struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Group       int     `json:"group"`
	Cost        int     `json:"cost"`
	Mortgage    int     `json:"mortgage"`
	Rents       [7]int  `json:"rents"`
	HouseCost   int     `json:"house_cost"`
	Purchasable bool    `json:"purchasable"`
	Chance      bool    `json:"chance"`
	Fortune     bool    `json:"fortune"`
	Railroad    bool    `json:"railroad"`
	Utility     bool    `json:"utility"`
	Fine        int     `json:"fine"`
	Special     Special `json:"special,omitempty"`
}

// Position is one square of the board. The static fields come from the
// Record; OwnerID, Mortgaged and Tier mutate as the game progresses.
// Owners are referenced by stable player id, never by pointer, so the
// board carries no back-references into the player collection.
type Position struct {
	Index       int
	Name        string
	Group       int
	Cost        int
	Mortgage    int
	Rents       [7]int
	HouseCost   int
	Purchasable bool
	Chance      bool
	Fortune     bool
	Railroad    bool
	Utility     bool
	Fine        int
	Special     Special

	OwnerID   string // "" = bank-held
	Mortgaged bool
	Tier      RentTier
}

// CanDevelop reports whether houses may ever stand on this position.
// Railroads and utilities never develop past their ownership-count tier.
func (p *Position) CanDevelop() bool {
	return p.Purchasable && !p.Railroad && !p.Utility && p.HouseCost > 0
}

// Rent returns the rent table entry for the given tier.
func (p *Position) Rent(tier RentTier) int {
	return p.Rents[tier]
}

func (p *Position) String() string {
	if p.Mortgaged {
		return fmt.Sprintf("[M][tier %d]%s", p.Tier, p.Name)
	}
	return fmt.Sprintf("[tier %d]%s", p.Tier, p.Name)
}

// Layout is the arena of positions indexed by board index, plus the
// registry of ownership groups. One Layout belongs to exactly one game;
// independent games build independent Layouts from the same records.
type Layout struct {
	positions []*Position
	groups    map[int][]*Position
}

// NewLayout validates the records and builds the position arena.
// Malformed board data is a fail-fast integrity error, never a playable
// state.
func NewLayout(records []Record) (*Layout, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("board: no position records provided")
	}
	l := &Layout{
		positions: make([]*Position, len(records)),
		groups:    make(map[int][]*Position),
	}
	for _, rec := range records {
		if rec.Index < 0 || rec.Index >= len(records) {
			return nil, fmt.Errorf("board: position %q has index %d outside 0..%d", rec.Name, rec.Index, len(records)-1)
		}
		if l.positions[rec.Index] != nil {
			return nil, fmt.Errorf("board: multiple records map to index %d", rec.Index)
		}
		if rec.Purchasable && rec.Cost <= 0 {
			return nil, fmt.Errorf("board: purchasable position %q has no purchase cost", rec.Name)
		}
		pos := &Position{
			Index:       rec.Index,
			Name:        rec.Name,
			Group:       rec.Group,
			Cost:        rec.Cost,
			Mortgage:    rec.Mortgage,
			Rents:       rec.Rents,
			HouseCost:   rec.HouseCost,
			Purchasable: rec.Purchasable,
			Chance:      rec.Chance,
			Fortune:     rec.Fortune,
			Railroad:    rec.Railroad,
			Utility:     rec.Utility,
			Fine:        rec.Fine,
			Special:     rec.Special,
		}
		l.positions[rec.Index] = pos
		l.groups[pos.Group] = append(l.groups[pos.Group], pos)
	}
	return l, nil
}

// Size returns the number of board positions.
func (l *Layout) Size() int {
	return len(l.positions)
}

// At returns the position at the given board index.
func (l *Layout) At(index int) *Position {
	return l.positions[index]
}

// Group returns the members of an ownership group. The second return is
// false for an unknown group id, which callers treat as a data fault.
func (l *Layout) Group(id int) ([]*Position, bool) {
	members, ok := l.groups[id]
	return members, ok
}

// Positions returns the full arena in board order.
func (l *Layout) Positions() []*Position {
	return l.positions
}
