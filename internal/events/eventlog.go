// Package events provides the append-only record of everything that
// happens inside a game: rolls, movement, payments, auctions and
// bankruptcies. The engine emits, observers consume; a game runs fine
// with no log attached at all.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type is the category of a game event.
type Type string

const (
	TypeDiceRolled        Type = "DICE_ROLLED"
	TypeGoIncome          Type = "GO_INCOME"
	TypeCardDrawn         Type = "CARD_DRAWN"
	TypeSentToJail        Type = "SENT_TO_JAIL"
	TypeJailEscape        Type = "JAIL_ESCAPE"
	TypeTaxPaid           Type = "TAX_PAID"
	TypeRentPaid          Type = "RENT_PAID"
	TypePropertyPurchased Type = "PROPERTY_PURCHASED"
	TypeAuctionWon        Type = "AUCTION_WON"
	TypeMortgaged         Type = "MORTGAGED"
	TypeUnmortgaged       Type = "UNMORTGAGED"
	TypeHouseBuilt        Type = "HOUSE_BUILT"
	TypeHotelBuilt        Type = "HOTEL_BUILT"
	TypeHouseSold         Type = "HOUSE_SOLD"
	TypeHotelSold         Type = "HOTEL_SOLD"
	TypeTransfer          Type = "TRANSFER"
	TypeBankruptcy        Type = "BANKRUPTCY"
	TypeGameEnded         Type = "GAME_ENDED"
)

// GameEvent is an immutable record of one state transition.
type GameEvent struct {
	ID        string      `json:"id"`
	GameID    string      `json:"game_id"`
	Turn      int         `json:"turn"`
	Type      Type        `json:"type"`
	ActorID   string      `json:"actor_id"`
	TargetID  string      `json:"target_id"` // counterparty, "" for the bank
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Persister defines how an event is durably stored.
type Persister interface {
	Append(event GameEvent) error
}

// Log is the in-memory append-only log of game events, optionally
// writing through to a Persister.
type Log struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister Persister
}

// NewLog creates a new event log with an optional persister.
func NewLog(persister Persister) *Log {
	return &Log{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (l *Log) Append(event GameEvent) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	if l.persister != nil {
		_ = l.persister.Append(event)
	}
}

// Replay returns the full history of events in append order.
func (l *Log) Replay() []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.events
}

// GetByActor returns all events performed by a specific actor.
func (l *Log) GetByActor(actorID string) []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []GameEvent
	for _, e := range l.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of one category.
func (l *Log) GetByType(t Type) []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
