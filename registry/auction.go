package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
)

// CreateAuction lists an item for sealed bidding. The three phase deadlines
// are fixed from the current time and the supplied durations and never change
// afterwards. Returns the freshly allocated auction id.
func (r *Registry) CreateAuction(
	ctx context.Context,
	seller core.Identity,
	itemName, itemDescription string,
	startingPrice decimal.Decimal,
	commitDur, revealDur, auctionDur time.Duration,
) (core.AuctionID, error) {
	if err := r.ensureRunning(); err != nil {
		return 0, fmt.Errorf("create auction: %w", err)
	}
	if seller == "" {
		return 0, fmt.Errorf("create auction: seller identity required: %w", core.ErrInvalidInput)
	}
	if itemName == "" {
		return 0, fmt.Errorf("create auction: item name required: %w", core.ErrInvalidInput)
	}
	if !startingPrice.IsPositive() {
		return 0, fmt.Errorf("create auction: starting price %s must be positive: %w",
			startingPrice, core.ErrInvalidInput)
	}
	if commitDur <= 0 {
		return 0, fmt.Errorf("create auction: commit duration must be positive: %w", core.ErrInvalidInput)
	}
	if revealDur <= 0 {
		return 0, fmt.Errorf("create auction: reveal duration must be positive: %w", core.ErrInvalidInput)
	}
	if auctionDur < core.MinAuctionDuration || auctionDur > core.MaxAuctionDuration {
		return 0, fmt.Errorf("create auction: auction duration %s outside [%s, %s]: %w",
			auctionDur, core.MinAuctionDuration, core.MaxAuctionDuration, core.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	now := r.clock.Now()
	a := &Auction{
		ID:              id,
		Seller:          seller,
		ItemName:        itemName,
		ItemDescription: itemDescription,
		StartingPrice:   startingPrice,
		HighestBidder:   core.NoBidder,
		Deadlines:       core.ComputeDeadlines(now, commitDur, revealDur, auctionDur),
		Status:          core.AuctionOpen,
		CreatedAt:       now,
	}
	r.auctions[id] = a

	r.emit(ctx, Event{
		Type:           EventAuctionCreated,
		Auction:        id,
		Seller:         seller,
		ItemName:       itemName,
		StartingPrice:  startingPrice.String(),
		CommitDeadline: a.Deadlines.CommitEnd,
		RevealDeadline: a.Deadlines.RevealEnd,
		AuctionEnd:     a.Deadlines.AuctionEnd,
	})
	return id, nil
}

// CancelAuction voids a listing before anyone has committed to it. Seller
// only. Once a single commitment exists the auction can no longer be
// cancelled and must run to completion.
func (r *Registry) CancelAuction(ctx context.Context, id core.AuctionID, caller core.Identity) error {
	if err := r.ensureRunning(); err != nil {
		return fmt.Errorf("cancel auction: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.lookupAuction(id)
	if err != nil {
		return fmt.Errorf("cancel auction: %w", err)
	}
	if caller != a.Seller {
		return fmt.Errorf("cancel auction %d: caller %s is not the seller: %w",
			id, caller, core.ErrUnauthorized)
	}
	if a.Status.Terminal() {
		return fmt.Errorf("cancel auction %d: already %s: %w", id, a.Status, core.ErrInvalidState)
	}
	if len(a.Bidders) > 0 {
		return fmt.Errorf("cancel auction %d: %d commitments exist: %w",
			id, len(a.Bidders), core.ErrInvalidState)
	}
	a.Status = core.AuctionCancelled

	r.emit(ctx, Event{
		Type:    EventAuctionCancelled,
		Auction: id,
		Seller:  a.Seller,
	})
	return nil
}
