package registry

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
)

// Read-only queries. All of them stay available while the registry is paused
// and return defensive copies, never interior pointers.

// GetAuction returns a snapshot of one auction record.
func (r *Registry) GetAuction(id core.AuctionID) (Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.lookupAuction(id)
	if err != nil {
		return Auction{}, fmt.Errorf("get auction: %w", err)
	}
	return a.snapshot(), nil
}

// GetBid returns a snapshot of one (auction, bidder) bid record.
func (r *Registry) GetBid(id core.AuctionID, bidder core.Identity) (Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.lookupAuction(id); err != nil {
		return Bid{}, fmt.Errorf("get bid: %w", err)
	}
	bid, exists := r.bids[bidKey{auction: id, bidder: bidder}]
	if !exists {
		return Bid{}, fmt.Errorf("get bid: auction %d bidder %s: %w", id, bidder, core.ErrInvalidState)
	}
	return *bid, nil
}

// AuctionBidders returns the commitment roster in commit order.
func (r *Registry) AuctionBidders(id core.AuctionID) ([]core.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.lookupAuction(id)
	if err != nil {
		return nil, fmt.Errorf("auction bidders: %w", err)
	}
	return append([]core.Identity(nil), a.Bidders...), nil
}

// TotalFeesCollected returns the current platform fee pool balance.
func (r *Registry) TotalFeesCollected() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feePool
}
