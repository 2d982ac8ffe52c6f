// Package card defines the chance/fortune effect cards and the cycling
// decks they are drawn from.
// This package is PURE and must NOT import any infrastructure packages.
package card

import "math/rand"

// Kind identifies the effect a card applies to the drawing player.
type Kind string

const (
	KindRelocate        Kind = "relocate"         // by offset or to an absolute index
	KindCashDelta       Kind = "cash_delta"       // credit or debit the player
	KindHouseTax        Kind = "house_tax"        // per building unit tax
	KindJailRelease     Kind = "jail_release"     // held until used or bankruptcy
	KindNearestUtility  Kind = "nearest_utility"  // walk forward to the next utility
	KindNearestRailroad Kind = "nearest_railroad" // walk forward to the next railroad
)

// Record is the tabular definition of one card, as provided by the
// external data source.
type Record struct {
	ID          int    `json:"id"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	Flag        int    `json:"flag"`
	Amount      int    `json:"amount"`
	Drawn       bool   `json:"drawn"`
}

// Card is one effect card. For KindRelocate the Flag selects the mode:
// negative = move by Flag squares, zero = teleport to Amount without GO
// income, positive = advance to Amount collecting GO income when passing
// it. Held jail-release cards keep Drawn=true until returned.
type Card struct {
	ID          int
	Kind        Kind
	Description string
	Flag        int
	Amount      int
	Drawn       bool
}

// New builds a card from its record.
func New(rec Record) *Card {
	return &Card{
		ID:          rec.ID,
		Kind:        rec.Kind,
		Description: rec.Description,
		Flag:        rec.Flag,
		Amount:      rec.Amount,
		Drawn:       rec.Drawn,
	}
}

// Deck is an ordered cycling sequence of cards. It is shuffled exactly
// once, at game start, and never reshuffled afterwards.
type Deck struct {
	cards []*Card
}

// NewDeck builds a deck from records, preserving record order until
// Shuffle is called.
func NewDeck(records []Record) *Deck {
	d := &Deck{cards: make([]*Card, 0, len(records))}
	for _, rec := range records {
		d.cards = append(d.cards, New(rec))
	}
	return d
}

// Shuffle randomizes the deck order. Call once, with the game's injected
// random source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw returns the next card that is not currently held by a player and
// rotates it to the back of the deck. Returns nil when the deck is empty
// or every card is held.
func (d *Deck) Draw() *Card {
	if len(d.cards) == 0 {
		return nil
	}
	for range d.cards {
		c := d.cards[0]
		d.cards = append(d.cards[1:], c)
		if !c.Drawn {
			return c
		}
	}
	return nil
}

// Len returns the number of cards in the deck, held or not.
func (d *Deck) Len() int {
	return len(d.cards)
}
