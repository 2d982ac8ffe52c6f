package engine

import (
	"fmt"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/card"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
)

// drawAndApply draws the next available card from deck and applies its
// effect to p. The returned bool reports whether the player was relocated
// and the landing loop must re-resolve at the new square.
func (g *Game) drawAndApply(p *player.Player, deck *card.Deck) (bool, error) {
	c := deck.Draw()
	if c == nil {
		return false, nil
	}
	g.log.Debug("player " + p.ID + " draws: " + c.Description)
	g.emit(events.TypeCardDrawn, p.ID, "", CardDrawnPayload{CardID: c.ID, Description: c.Description})

	switch c.Kind {
	case card.KindRelocate:
		size := g.layout.Size()
		switch {
		case c.Flag < 0:
			// Move backwards by Flag squares.
			p.Position = ((p.Position+c.Flag)%size + size) % size
		case c.Flag == 0:
			// Direct teleport, no GO income on the way.
			p.Position = c.Amount
		default:
			// Advance to an absolute square, collecting GO income when
			// the move passes the start square.
			if c.Amount < p.Position {
				p.Cash += g.cfg.GoIncome
				g.emit(events.TypeGoIncome, p.ID, "", nil)
			}
			p.Position = c.Amount
		}
		return true, nil

	case card.KindCashDelta:
		if c.Amount < 0 {
			_, err := g.Transfer(p, nil, -c.Amount)
			return false, err
		}
		p.Cash += c.Amount
		return false, nil

	case card.KindHouseTax:
		_, err := g.Transfer(p, nil, p.HouseUnits()*c.Flag)
		return false, err

	case card.KindJailRelease:
		// Held cards leave the deck until used or forfeited.
		c.Drawn = true
		p.JailCards = append(p.JailCards, c)
		return false, nil

	case card.KindNearestUtility:
		g.walkToNearest(p, func(pos *board.Position) bool { return pos.Utility })
		return true, nil

	case card.KindNearestRailroad:
		g.walkToNearest(p, func(pos *board.Position) bool { return pos.Railroad })
		return true, nil

	default:
		return false, fmt.Errorf("invalid card kind drawn: %q", c.Kind)
	}
}

// walkToNearest advances the player square by square until match reports
// true, collecting GO income when the walk crosses the start square.
func (g *Game) walkToNearest(p *player.Player, match func(*board.Position) bool) {
	for !match(g.layout.At(p.Position)) {
		if p.Position == g.cfg.GoIndex {
			p.Cash += g.cfg.GoIncome
			g.emit(events.TypeGoIncome, p.ID, "", nil)
		}
		p.Position = (p.Position + 1) % g.layout.Size()
	}
}
