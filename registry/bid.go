package registry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
)

// CommitBid records a hiding commitment for the caller during the commit
// window. One commitment per (auction, bidder); the stored hash is immutable.
func (r *Registry) CommitBid(ctx context.Context, id core.AuctionID, caller core.Identity, commitHash string) error {
	if err := r.ensureRunning(); err != nil {
		return fmt.Errorf("commit bid: %w", err)
	}
	if caller == "" {
		return fmt.Errorf("commit bid: caller identity required: %w", core.ErrInvalidInput)
	}
	if commitHash == core.NoCommit {
		return fmt.Errorf("commit bid: empty commitment: %w", core.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.lookupAuction(id)
	if err != nil {
		return fmt.Errorf("commit bid: %w", err)
	}
	if a.Status.Terminal() {
		return fmt.Errorf("commit bid: auction %d already %s: %w", id, a.Status, core.ErrInvalidState)
	}
	if phase := a.Deadlines.PhaseAt(r.clock.Now()); phase != core.PhaseCommit {
		return fmt.Errorf("commit bid: auction %d in %s phase: %w", id, phase, core.ErrPhase)
	}
	if caller == a.Seller {
		return fmt.Errorf("commit bid: auction %d: %w", id, core.ErrSelfBid)
	}
	key := bidKey{auction: id, bidder: caller}
	if _, exists := r.bids[key]; exists {
		return fmt.Errorf("commit bid: auction %d bidder %s: %w", id, caller, core.ErrDuplicateCommit)
	}

	r.bids[key] = &Bid{
		Auction:    id,
		Bidder:     caller,
		CommitHash: commitHash,
		State:      core.BidCommitted,
	}
	a.Bidders = append(a.Bidders, caller)

	r.emit(ctx, Event{
		Type:       EventBidCommitted,
		Auction:    id,
		Bidder:     caller,
		CommitHash: commitHash,
	})
	return nil
}

// RevealBid opens the caller's commitment during the reveal window. The
// revealed value must reproduce the stored hash, must be fully covered by the
// attached funds, and must meet the reserve. The attached funds are received
// into custody before any bookkeeping grants them escrow status; on success
// the bid becomes the highest bid if it strictly exceeds the current one
// (ties keep the earlier revealer).
func (r *Registry) RevealBid(
	ctx context.Context,
	id core.AuctionID,
	caller core.Identity,
	value decimal.Decimal,
	salt string,
	attachedFunds decimal.Decimal,
) error {
	if err := r.ensureRunning(); err != nil {
		return fmt.Errorf("reveal bid: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.lookupAuction(id)
	if err != nil {
		return fmt.Errorf("reveal bid: %w", err)
	}
	if a.Status.Terminal() {
		return fmt.Errorf("reveal bid: auction %d already %s: %w", id, a.Status, core.ErrInvalidState)
	}
	if phase := a.Deadlines.PhaseAt(r.clock.Now()); phase != core.PhaseReveal {
		return fmt.Errorf("reveal bid: auction %d in %s phase: %w", id, phase, core.ErrPhase)
	}
	bid, exists := r.bids[bidKey{auction: id, bidder: caller}]
	if !exists {
		return fmt.Errorf("reveal bid: auction %d bidder %s: %w", id, caller, core.ErrNoCommitment)
	}
	if bid.State != core.BidCommitted {
		return fmt.Errorf("reveal bid: auction %d bidder %s already %s: %w",
			id, caller, bid.State, core.ErrInvalidState)
	}
	if core.ComputeCommitHash(value, salt) != bid.CommitHash {
		return fmt.Errorf("reveal bid: auction %d bidder %s: %w", id, caller, core.ErrHashMismatch)
	}
	if !attachedFunds.Equal(value) {
		return fmt.Errorf("reveal bid: auction %d bidder %s attached %s for value %s: %w",
			id, caller, attachedFunds, value, core.ErrValueMismatch)
	}
	if value.LessThan(a.StartingPrice) {
		return fmt.Errorf("reveal bid: auction %d value %s below reserve %s: %w",
			id, value, a.StartingPrice, core.ErrBelowReserve)
	}

	// Receive the attachment before any bookkeeping grants it escrow
	// status. If the environment cannot collect the funds nothing has
	// changed and the whole call aborts.
	if err := r.bank.Attach(ctx, caller, attachedFunds); err != nil {
		return fmt.Errorf("reveal bid: auction %d bidder %s: %v: %w",
			id, caller, err, core.ErrTransferFailed)
	}

	bid.State = core.BidRevealed
	bid.Value = value
	a.EscrowHeld = a.EscrowHeld.Add(value)

	// Strictly greater only: an equal later reveal never displaces the
	// earlier highest bidder.
	if value.GreaterThan(a.HighestBid) {
		a.HighestBid = value
		a.HighestBidder = caller
	}

	r.emit(ctx, Event{
		Type:    EventBidRevealed,
		Auction: id,
		Bidder:  caller,
		Amount:  value.String(),
	})
	return nil
}

// WithdrawBid returns a revealed bid's escrow to its bidder. The current
// highest bidder is locked out until settlement; after settlement their
// escrow has been consumed by the seller payout and a withdrawal attempt
// reports it as already withdrawn. Each bid can be withdrawn exactly once.
func (r *Registry) WithdrawBid(ctx context.Context, id core.AuctionID, caller core.Identity) error {
	if err := r.ensureRunning(); err != nil {
		return fmt.Errorf("withdraw bid: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.lookupAuction(id)
	if err != nil {
		return fmt.Errorf("withdraw bid: %w", err)
	}
	bid, exists := r.bids[bidKey{auction: id, bidder: caller}]
	if !exists || bid.State == core.BidCommitted {
		return fmt.Errorf("withdraw bid: auction %d bidder %s: %w", id, caller, core.ErrNotRevealed)
	}
	if bid.State == core.BidWithdrawn {
		return fmt.Errorf("withdraw bid: auction %d bidder %s: %w", id, caller, core.ErrAlreadyWithdrawn)
	}
	if caller == a.HighestBidder && a.Status != core.AuctionEnded {
		return fmt.Errorf("withdraw bid: auction %d bidder %s: %w", id, caller, core.ErrWinnerLocked)
	}

	// Bookkeeping first, transfer second: a re-entrant call during the
	// transfer sees the bid already withdrawn and is rejected above.
	bid.State = core.BidWithdrawn
	a.EscrowHeld = a.EscrowHeld.Sub(bid.Value)

	if err := r.bank.Transfer(ctx, caller, bid.Value); err != nil {
		// Hard abort: roll the same call's bookkeeping back so state
		// never claims funds moved when they did not.
		bid.State = core.BidRevealed
		a.EscrowHeld = a.EscrowHeld.Add(bid.Value)
		return fmt.Errorf("withdraw bid: auction %d bidder %s: %v: %w",
			id, caller, err, core.ErrTransferFailed)
	}

	r.emit(ctx, Event{
		Type:    EventBidWithdrawn,
		Auction: id,
		Bidder:  caller,
		Amount:  bid.Value.String(),
	})
	return nil
}
