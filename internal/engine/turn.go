package engine

import (
	"fmt"
	"math"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
)

// DiceRolledPayload reports one two-dice roll.
type DiceRolledPayload struct {
	D1 int `json:"d1"`
	D2 int `json:"d2"`
}

// TaxPaidPayload reports a tax debit.
type TaxPaidPayload struct {
	Position string `json:"position"`
	Amount   int    `json:"amount"`
}

// CardDrawnPayload reports a card draw and its effect kind.
type CardDrawnPayload struct {
	CardID      int    `json:"card_id"`
	Description string `json:"description"`
}

// PlayTurn resolves one full turn for p: jail resolution, dice rolls with
// doubles handling, movement, landing resolution and the shared post-turn
// management phase. Bankrupt players are skipped.
func (g *Game) PlayTurn(p *player.Player) error {
	if p.Bankrupt {
		return nil
	}

	if p.Jail != player.NotInJail {
		if err := g.playJail(p); err != nil {
			return err
		}
	}

	doubles := 0
	again := true
	for again && !p.Bankrupt {
		again = false
		d1, d2 := g.rollDice()
		g.log.Debug(fmt.Sprintf("player %s rolls (%d, %d)", p.ID, d1, d2))
		g.emit(events.TypeDiceRolled, p.ID, "", DiceRolledPayload{D1: d1, D2: d2})

		// Doubles roll again; three in one turn go straight to jail and
		// doubles rolled behind bars open the door.
		if d1 == d2 {
			again = true
			doubles++
			if doubles == g.cfg.DoublesToJail {
				g.log.Debug("player " + p.ID + " goes to jail for rolling consecutive doubles")
				g.sendToJail(p)
			} else if p.Jail != player.NotInJail {
				g.log.Debug("player " + p.ID + " escapes jail by rolling doubles")
				p.Jail = player.NotInJail
				g.emit(events.TypeJailEscape, p.ID, "", nil)
			}
		}

		// Still jailed means no movement this turn.
		if p.Jail != player.NotInJail {
			return nil
		}

		p.Position += d1 + d2
		if p.Position >= g.layout.Size() {
			p.Position %= g.layout.Size()
			p.Cash += g.cfg.GoIncome
			g.emit(events.TypeGoIncome, p.ID, "", nil)
		}

		if err := g.resolveLanding(p, d1, d2); err != nil {
			return err
		}

		// Every solvent player gets a management window after each roll,
		// in a fresh random order so no seat wins every race for the
		// limited building stock.
		order := make([]*player.Player, len(g.players))
		copy(order, g.players)
		g.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, mp := range order {
			if mp.Bankrupt {
				continue
			}
			g.unmortgageFor(mp)
			if err := g.developFor(mp); err != nil {
				return err
			}
		}
	}
	return nil
}

// playJail handles the pre-roll jail decisions. The fourth jail turn is a
// forced release; otherwise a held card or the fine may end the sentence,
// and a player still jailed after that advances one jail stage.
func (g *Game) playJail(p *player.Player) error {
	g.log.Debug(fmt.Sprintf("player %s plays jail turn %d", p.ID, int(p.Jail)+1))

	if p.Jail > player.JailTurn3 {
		p.Jail = player.NotInJail
		g.emit(events.TypeJailEscape, p.ID, "", nil)
		return nil
	}

	if len(p.JailCards) > 0 && g.policyFor(p).UseJailCard(g, p) {
		g.log.Debug("player " + p.ID + " uses a jail-release card")
		c := p.JailCards[len(p.JailCards)-1]
		p.JailCards = p.JailCards[:len(p.JailCards)-1]
		c.Drawn = false
		p.Jail = player.NotInJail
		g.emit(events.TypeJailEscape, p.ID, "", nil)
	}

	if p.Jail != player.NotInJail && p.Cash >= g.cfg.JailFine && g.policyFor(p).PayJailFine(g, p) {
		g.log.Debug("player " + p.ID + " pays the fine to leave jail")
		if _, err := g.Transfer(p, nil, g.cfg.JailFine); err != nil {
			return err
		}
		p.Jail = player.NotInJail
		g.emit(events.TypeJailEscape, p.ID, "", nil)
	}

	if p.Jail != player.NotInJail {
		p.Jail++
	}
	return nil
}

// sendToJail puts the player on the jail square at the first jail stage.
func (g *Game) sendToJail(p *player.Player) {
	p.Jail = player.JailTurn1
	p.Position = g.cfg.JailIndex
	g.emit(events.TypeSentToJail, p.ID, "", nil)
}

// rollDice returns two independent uniform 1-6 rolls.
func (g *Game) rollDice() (int, int) {
	return g.rng.Intn(6) + 1, g.rng.Intn(6) + 1
}

// resolveLanding dispatches the effect of the player's current square and
// loops while drawn cards keep relocating the player.
func (g *Game) resolveLanding(p *player.Player, d1, d2 int) error {
	for !p.Bankrupt {
		if p.Position < 0 || p.Position >= g.layout.Size() {
			return fmt.Errorf("player %s in invalid board position %d", p.ID, p.Position)
		}
		pos := g.layout.At(p.Position)

		switch {
		case pos.Chance:
			moved, err := g.drawAndApply(p, g.chance)
			if err != nil || !moved {
				return err
			}
			continue

		case pos.Fortune:
			moved, err := g.drawAndApply(p, g.fortune)
			if err != nil || !moved {
				return err
			}
			continue

		case pos.Special == board.SpecialGoToJail:
			g.sendToJail(p)
			return nil

		case pos.Special == board.SpecialIncomeTax:
			// The lesser of the cap or 10% of total assets, rounded up.
			owed := int(math.Ceil(float64(p.AssetValue()) * 0.10))
			if owed > g.cfg.IncomeTaxCap {
				owed = g.cfg.IncomeTaxCap
			}
			g.emit(events.TypeTaxPaid, p.ID, "", TaxPaidPayload{Position: pos.Name, Amount: owed})
			_, err := g.Transfer(p, nil, owed)
			return err

		case pos.Fine > 0:
			g.emit(events.TypeTaxPaid, p.ID, "", TaxPaidPayload{Position: pos.Name, Amount: pos.Fine})
			_, err := g.Transfer(p, nil, pos.Fine)
			return err

		case pos.Purchasable:
			return g.resolveOwnable(p, pos, d1+d2)

		default:
			// GO, jail (visiting) and free parking have no landing effect.
			return nil
		}
	}
	return nil
}
