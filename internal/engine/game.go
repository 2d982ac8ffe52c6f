// Package engine contains the rules/state machine for one complete game:
// the turn loop, rent resolution, the building bank, auctions and the
// bankruptcy cascade.
//
// ARCHITECTURAL RULE: the engine is strictly single-threaded and
// synchronous. Exactly one turn resolves at a time and every source of
// randomness flows through the injected *rand.Rand, so a fixed seed
// reproduces a game move for move.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/card"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
	"github.com/dgurjar/monopoly-ai-simulator/internal/platform/logger"
)

// Config holds the rule constants for one game.
type Config struct {
	StartingCash  int
	GoIncome      int
	DoublesToJail int
	IncomeTaxCap  int
	JailFine      int
	GoIndex       int
	JailIndex     int
	Houses        int
	Hotels        int
	TurnCap       int
}

// DefaultConfig returns the canonical rule set.
func DefaultConfig() Config {
	return Config{
		StartingCash:  1500,
		GoIncome:      200,
		DoublesToJail: 3,
		IncomeTaxCap:  200,
		JailFine:      50,
		GoIndex:       0,
		JailIndex:     10,
		Houses:        32,
		Hotels:        12,
		TurnCap:       500,
	}
}

// Seat binds a player entity to the policy that decides for it.
type Seat struct {
	Player *player.Player
	Policy Policy
}

// Game owns the board arena, both card decks, the building bank and the
// player collection for a single simulated game.
type Game struct {
	ID  string
	cfg Config

	layout  *board.Layout
	chance  *card.Deck
	fortune *card.Deck
	bank    *BuildingBank

	players  []*player.Player
	policies map[string]Policy

	rng *rand.Rand
	log *logger.Logger
	rec *events.Log

	turn int

	// auctionQueue holds forfeited deeds awaiting re-auction. Bankruptcy
	// appends here instead of recursing so cascading auctions drain as a
	// flat work list.
	auctionQueue []*board.Position
	auctioning   bool
}

// NewGame wires up a game. The decks are shuffled exactly once, here.
// rec may be nil when nobody is observing.
func NewGame(cfg Config, layout *board.Layout, chance, fortune *card.Deck, seats []Seat, rng *rand.Rand, log *logger.Logger, rec *events.Log) *Game {
	g := &Game{
		ID:       uuid.NewString(),
		cfg:      cfg,
		layout:   layout,
		chance:   chance,
		fortune:  fortune,
		bank:     NewBuildingBank(cfg.Houses, cfg.Hotels),
		policies: make(map[string]Policy),
		rng:      rng,
		log:      log,
		rec:      rec,
	}
	for _, seat := range seats {
		g.players = append(g.players, seat.Player)
		g.policies[seat.Player.ID] = seat.Policy
	}
	g.chance.Shuffle(rng)
	g.fortune.Shuffle(rng)
	for _, p := range g.players {
		p.Cash = cfg.StartingCash
		p.Position = cfg.GoIndex
	}
	return g
}

// Layout exposes the board arena, mainly for policies sizing up a bid.
func (g *Game) Layout() *board.Layout {
	return g.layout
}

// Bank exposes the shared building stock.
func (g *Game) Bank() *BuildingBank {
	return g.bank
}

// Config returns the rule constants the game was built with.
func (g *Game) Config() Config {
	return g.cfg
}

// Turn returns the number of completed full rounds.
func (g *Game) Turn() int {
	return g.turn
}

// Players returns the seated players in table order, bankrupt or not.
func (g *Game) Players() []*player.Player {
	return g.players
}

func (g *Game) policyFor(p *player.Player) Policy {
	return g.policies[p.ID]
}

func (g *Game) playerByID(id string) *player.Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Winner returns the single remaining solvent player, or nil while the
// game is still contested (or ended in a draw).
func (g *Game) Winner() *player.Player {
	var winner *player.Player
	for _, p := range g.players {
		if p.Bankrupt {
			continue
		}
		if winner != nil {
			return nil
		}
		winner = p
	}
	return winner
}

// Run resolves the game: full rounds in seating order until a single
// solvent player remains or the round cap is reached. Returns nil for a
// draw. An error means a rules-integrity fault, not a game outcome.
func (g *Game) Run() (*player.Player, error) {
	g.log.Debug("starting game " + g.ID)

	for {
		for _, p := range g.players {
			if err := g.PlayTurn(p); err != nil {
				return nil, fmt.Errorf("turn %d, player %s: %w", g.turn, p.ID, err)
			}
		}
		g.turn++
		if winner := g.Winner(); winner != nil {
			g.emit(events.TypeGameEnded, winner.ID, "", GameEndedPayload{WinnerID: winner.ID, Turns: g.turn})
			return winner, nil
		}
		if g.turn >= g.cfg.TurnCap {
			g.emit(events.TypeGameEnded, "", "", GameEndedPayload{Turns: g.turn, Draw: true})
			return nil, nil
		}
	}
}

// emit appends an event to the recorder, if one is attached.
func (g *Game) emit(t events.Type, actorID, targetID string, payload interface{}) {
	if g.rec == nil {
		return
	}
	g.rec.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		GameID:    g.ID,
		Turn:      g.turn,
		Type:      t,
		ActorID:   actorID,
		TargetID:  targetID,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}

// GameEndedPayload reports how a game resolved.
type GameEndedPayload struct {
	WinnerID string `json:"winner_id,omitempty"`
	Turns    int    `json:"turns"`
	Draw     bool   `json:"draw,omitempty"`
}
