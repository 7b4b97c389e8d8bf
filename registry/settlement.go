package registry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
)

// EndAuction settles an auction once its end time has passed. Seller or
// platform owner only. With a winner, the winning escrow is split into the
// platform fee (credited to the fee pool) and the seller payout, and the
// winner's bid is marked consumed so the generic withdrawal path can never
// pay it out a second time. The whole settlement lands atomically: a failed
// seller transfer rolls back every piece of bookkeeping this call applied.
func (r *Registry) EndAuction(ctx context.Context, id core.AuctionID, caller core.Identity) error {
	if err := r.ensureRunning(); err != nil {
		return fmt.Errorf("end auction: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.lookupAuction(id)
	if err != nil {
		return fmt.Errorf("end auction: %w", err)
	}
	if a.Status.Terminal() {
		return fmt.Errorf("end auction %d: already %s: %w", id, a.Status, core.ErrAlreadyFinalized)
	}
	if phase := a.Deadlines.PhaseAt(r.clock.Now()); phase != core.PhaseEnded {
		return fmt.Errorf("end auction %d: still in %s phase: %w", id, phase, core.ErrPhase)
	}
	if caller != a.Seller && caller != r.owner {
		return fmt.Errorf("end auction %d: caller %s is neither seller nor owner: %w",
			id, caller, core.ErrUnauthorized)
	}

	a.Status = core.AuctionEnded

	if a.HighestBidder == core.NoBidder {
		// No bid was ever revealed; nothing to distribute.
		r.emit(ctx, Event{
			Type:    EventAuctionEnded,
			Auction: id,
			Seller:  a.Seller,
		})
		return nil
	}

	winnerBid := r.bids[bidKey{auction: id, bidder: a.HighestBidder}]
	sellerAmount, platformFee := core.SplitSettlement(a.HighestBid, r.feePercent.Load())

	// Bookkeeping before the transfer: consume the winner's escrow, credit
	// the fee pool, then pay the seller from custody.
	winnerBid.State = core.BidWithdrawn
	a.EscrowHeld = a.EscrowHeld.Sub(a.HighestBid)
	r.feePool = r.feePool.Add(platformFee)

	if err := r.bank.Transfer(ctx, a.Seller, sellerAmount); err != nil {
		// Atomic rollback: partial fund movement is never observable.
		winnerBid.State = core.BidRevealed
		a.EscrowHeld = a.EscrowHeld.Add(a.HighestBid)
		r.feePool = r.feePool.Sub(platformFee)
		a.Status = core.AuctionOpen
		return fmt.Errorf("end auction %d: seller payout: %v: %w", id, err, core.ErrTransferFailed)
	}

	r.emit(ctx, Event{
		Type:         EventAuctionEnded,
		Auction:      id,
		Seller:       a.Seller,
		Winner:       a.HighestBidder,
		Amount:       a.HighestBid.String(),
		PlatformFee:  platformFee.String(),
		SellerAmount: sellerAmount.String(),
	})
	return nil
}

// WithdrawPlatformFees sweeps the accumulated fee pool to the platform owner
// and resets it to zero in the same atomic step. Owner only.
func (r *Registry) WithdrawPlatformFees(ctx context.Context, caller core.Identity) error {
	if err := r.ensureRunning(); err != nil {
		return fmt.Errorf("withdraw platform fees: %w", err)
	}
	if caller != r.owner {
		return fmt.Errorf("withdraw platform fees: caller %s: %w", caller, core.ErrUnauthorized)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.feePool.IsZero() {
		return fmt.Errorf("withdraw platform fees: %w", core.ErrNothingToWithdraw)
	}
	amount := r.feePool
	r.feePool = decimal.Zero

	if err := r.bank.Transfer(ctx, r.owner, amount); err != nil {
		r.feePool = amount
		return fmt.Errorf("withdraw platform fees: %v: %w", err, core.ErrTransferFailed)
	}

	r.emit(ctx, Event{
		Type:      EventFeesWithdrawn,
		Recipient: r.owner,
		Amount:    amount.String(),
	})
	return nil
}

// SetFeePercent changes the platform fee applied to future settlements.
// Owner only; capped at core.MaxFeePercent.
func (r *Registry) SetFeePercent(caller core.Identity, percent uint32) error {
	if err := r.ensureRunning(); err != nil {
		return fmt.Errorf("set fee percent: %w", err)
	}
	if caller != r.owner {
		return fmt.Errorf("set fee percent: caller %s: %w", caller, core.ErrUnauthorized)
	}
	if percent > core.MaxFeePercent {
		return fmt.Errorf("set fee percent: %d exceeds cap %d: %w",
			percent, core.MaxFeePercent, core.ErrFeeTooHigh)
	}
	r.feePercent.Store(percent)
	return nil
}
