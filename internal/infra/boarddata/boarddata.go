// Package boarddata ships the canonical US board layout and both card
// decks as embedded JSON, so every binary and test builds the same
// board without touching the filesystem.
package boarddata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/card"
)

//go:embed data/board.json
var boardJSON []byte

//go:embed data/chance.json
var chanceJSON []byte

//go:embed data/fortune.json
var fortuneJSON []byte

// BoardRecords returns the 40 canonical square definitions in board
// order.
func BoardRecords() ([]board.Record, error) {
	var records []board.Record
	if err := json.Unmarshal(boardJSON, &records); err != nil {
		return nil, fmt.Errorf("decoding embedded board data: %w", err)
	}
	return records, nil
}

// NewLayout builds a fresh layout from the embedded board data. Each
// call returns independent position state, so concurrent games never
// share ownership or tier mutations.
func NewLayout() (*board.Layout, error) {
	records, err := BoardRecords()
	if err != nil {
		return nil, err
	}
	return board.NewLayout(records)
}

func deckRecords(raw []byte, name string) ([]card.Record, error) {
	var records []card.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding embedded %s deck: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("embedded %s deck is empty", name)
	}
	return records, nil
}

// ChanceRecords returns the chance deck definitions in canonical order.
func ChanceRecords() ([]card.Record, error) {
	return deckRecords(chanceJSON, "chance")
}

// FortuneRecords returns the fortune deck definitions in canonical
// order.
func FortuneRecords() ([]card.Record, error) {
	return deckRecords(fortuneJSON, "fortune")
}

// NewDecks builds fresh chance and fortune decks from the embedded
// data.
func NewDecks() (*card.Deck, *card.Deck, error) {
	chance, err := ChanceRecords()
	if err != nil {
		return nil, nil, err
	}
	fortune, err := FortuneRecords()
	if err != nil {
		return nil, nil, err
	}
	return card.NewDeck(chance), card.NewDeck(fortune), nil
}
