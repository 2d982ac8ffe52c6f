package engine

import (
	"fmt"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/board"
	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
)

// AuctionItem tells a bidding policy what kind of item is on the block.
type AuctionItem string

const (
	AuctionPosition AuctionItem = "position"
	AuctionHouse    AuctionItem = "house"
	AuctionHotel    AuctionItem = "hotel"
)

// AuctionWonPayload reports a settled auction.
type AuctionWonPayload struct {
	Position string `json:"position"`
	Bid      int    `json:"bid"`
}

// Auction is one multi-round bidding process for a deed or a bare
// building piece. Position is nil for piece auctions.
type Auction struct {
	Item     AuctionItem
	Position *board.Position
	HighBid  int
	Winner   *player.Player

	bidders []*player.Player
}

// newAuction prepares an auction over a copy of the bidder pool. A deed
// carrying any development may never be auctioned; that is an integrity
// fault in the caller, not a biddable state.
func (g *Game) newAuction(pos *board.Position, bidders []*player.Player) (*Auction, error) {
	if pos.Tier >= board.TierHouse1 {
		return nil, fmt.Errorf("auction created for %q which carries development", pos.Name)
	}
	pool := make([]*player.Player, len(bidders))
	copy(pool, bidders)
	return &Auction{Item: AuctionPosition, Position: pos, bidders: pool}, nil
}

// runAuction runs repeated bidding rounds in a freshly randomized order.
// A bid is accepted only if it strictly exceeds the running high bid and
// does not exceed the bidder's total asset value; any accepted bid forces
// another full round. The auction ends on the first silent round.
func (g *Game) runAuction(a *Auction) (*player.Player, int) {
	g.rng.Shuffle(len(a.bidders), func(i, j int) { a.bidders[i], a.bidders[j] = a.bidders[j], a.bidders[i] })

	updated := true
	for updated {
		updated = false
		for _, bidder := range a.bidders {
			if bidder.Bankrupt {
				continue
			}
			offer := g.policyFor(bidder).Bid(g, bidder, a)
			if offer > a.HighBid && offer <= bidder.AssetValue() {
				a.HighBid = offer
				a.Winner = bidder
				updated = true
			}
		}
	}
	return a.Winner, a.HighBid
}
