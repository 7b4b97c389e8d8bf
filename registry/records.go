package registry

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
)

// Auction is the ledger record for a single listing. Records are retained
// indefinitely after settlement for auditability; the registry never deletes
// them.
type Auction struct {
	ID              core.AuctionID     `json:"id"`
	Seller          core.Identity      `json:"seller"`
	ItemName        string             `json:"item_name"`
	ItemDescription string             `json:"item_description"`
	StartingPrice   decimal.Decimal    `json:"starting_price"`
	HighestBid      decimal.Decimal    `json:"highest_bid"`
	HighestBidder   core.Identity      `json:"highest_bidder"`
	Deadlines       core.Deadlines     `json:"deadlines"`
	Status          core.AuctionStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`

	// EscrowHeld is the total of revealed, unreleased bid values currently
	// in the registry's custody for this auction.
	EscrowHeld decimal.Decimal `json:"escrow_held"`

	// Bidders is the commitment roster in commit order. Enumeration only;
	// control flow never depends on it beyond the is-empty check that
	// guards cancellation.
	Bidders []core.Identity `json:"bidders"`
}

// Bid is the per-(auction, bidder) commitment record. Created at commit time
// and never deleted; reveal and withdrawal advance its state one step at a
// time.
type Bid struct {
	Auction    core.AuctionID  `json:"auction"`
	Bidder     core.Identity   `json:"bidder"`
	CommitHash string          `json:"commit_hash"`
	Value      decimal.Decimal `json:"value"`
	State      core.BidState   `json:"state"`
}

// snapshot returns a defensive copy safe to hand out of the registry lock.
func (a *Auction) snapshot() Auction {
	cp := *a
	cp.Bidders = append([]core.Identity(nil), a.Bidders...)
	return cp
}
