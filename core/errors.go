package core

import (
	"errors"
)

// Error taxonomy for registry operations. Every precondition violation aborts
// the entire call with no partial effect; callers receive one of these
// sentinels (usually wrapped with operation context) as the terminal result.
var (
	// ErrInvalidInput rejects malformed creation parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized rejects a caller lacking the required role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPhase rejects an operation attempted outside its valid time window.
	ErrPhase = errors.New("outside operation phase")

	// ErrInvalidState rejects an operation against a terminal auction or a
	// bid/roster precondition violation (including unknown auctions).
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicateCommit rejects a second commitment by the same bidder.
	ErrDuplicateCommit = errors.New("duplicate commitment")

	// ErrSelfBid rejects a seller bidding on their own auction.
	ErrSelfBid = errors.New("seller cannot bid on own auction")

	// ErrNoCommitment rejects a reveal with no stored commitment.
	ErrNoCommitment = errors.New("no commitment")

	// ErrHashMismatch rejects a reveal whose (value, salt) does not
	// reproduce the stored commitment.
	ErrHashMismatch = errors.New("commitment hash mismatch")

	// ErrValueMismatch rejects a reveal whose attached funds differ from
	// the revealed value.
	ErrValueMismatch = errors.New("attached funds do not match revealed value")

	// ErrBelowReserve rejects a revealed value under the starting price.
	ErrBelowReserve = errors.New("revealed value below reserve price")

	// ErrNotRevealed rejects a withdrawal of an unrevealed bid.
	ErrNotRevealed = errors.New("bid not revealed")

	// ErrAlreadyWithdrawn rejects a second withdrawal of the same bid.
	ErrAlreadyWithdrawn = errors.New("bid already withdrawn")

	// ErrWinnerLocked rejects a withdrawal by the current highest bidder
	// before settlement: their escrow is the pending winning payment.
	ErrWinnerLocked = errors.New("highest bidder escrow locked until settlement")

	// ErrAlreadyFinalized rejects settlement of a terminal auction.
	ErrAlreadyFinalized = errors.New("auction already finalized")

	// ErrFeeTooHigh rejects a fee percentage above MaxFeePercent.
	ErrFeeTooHigh = errors.New("fee percent too high")

	// ErrNothingToWithdraw rejects a fee sweep of an empty pool.
	ErrNothingToWithdraw = errors.New("nothing to withdraw")

	// ErrPaused rejects mutating operations while the registry is paused.
	ErrPaused = errors.New("operations paused")

	// ErrTransferFailed reports a failed fund movement. The enclosing
	// operation rolls back all bookkeeping applied in the same call.
	ErrTransferFailed = errors.New("fund transfer failed")
)
