// Package registry implements the sealed-bid auction registry: the auction
// ledger, the per-bidder bid ledger, the settlement engine, and the
// access/lifecycle guard.
//
// All mutating operations are serialized through a single mutex so that every
// call's effects — ledger updates, escrow bookkeeping, and fund movement —
// land atomically with respect to every other call, mirroring the serialized
// execution environment the protocol was designed for. Bookkeeping is always
// updated before funds move, and a failed transfer rolls back the same call's
// bookkeeping, so no observable state ever claims funds moved when they did
// not.
package registry

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/atomic"

	"github.com/openclear-io/sealedbid/core"
)

type bidKey struct {
	auction core.AuctionID
	bidder  core.Identity
}

// Registry owns all auction and bid state plus the platform fee pool.
type Registry struct {
	clock Clock
	bank  Bank
	sink  Sink

	owner      core.Identity
	paused     atomic.Bool
	feePercent atomic.Uint32

	mu       sync.Mutex
	nextID   core.AuctionID
	auctions map[core.AuctionID]*Auction
	bids     map[bidKey]*Bid
	feePool  decimal.Decimal
}

// Config carries the registry's construction parameters.
type Config struct {
	// Owner is the platform owner: the only identity allowed to pause,
	// change the fee, withdraw fees, or co-sign settlement.
	Owner core.Identity

	// FeePercent is the initial platform fee, at most core.MaxFeePercent.
	FeePercent uint32

	// Bank moves funds in and out of registry custody. Required.
	Bank Bank

	// Clock supplies current time. Defaults to SystemClock.
	Clock Clock

	// Sink receives audit events. Defaults to LogSink.
	Sink Sink
}

// New creates a Registry. Fails if the owner is unset, the bank is missing,
// or the fee exceeds the cap.
func New(cfg Config) (*Registry, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("registry: owner identity required: %w", core.ErrInvalidInput)
	}
	if cfg.Bank == nil {
		return nil, fmt.Errorf("registry: bank required: %w", core.ErrInvalidInput)
	}
	if cfg.FeePercent > core.MaxFeePercent {
		return nil, fmt.Errorf("registry: fee percent %d: %w", cfg.FeePercent, core.ErrFeeTooHigh)
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Sink == nil {
		cfg.Sink = LogSink{}
	}

	r := &Registry{
		clock:    cfg.Clock,
		bank:     cfg.Bank,
		sink:     cfg.Sink,
		owner:    cfg.Owner,
		auctions: make(map[core.AuctionID]*Auction),
		bids:     make(map[bidKey]*Bid),
	}
	r.feePercent.Store(cfg.FeePercent)
	return r, nil
}

// Owner returns the platform owner identity.
func (r *Registry) Owner() core.Identity { return r.owner }

// FeePercent returns the current platform fee percentage.
func (r *Registry) FeePercent() uint32 { return r.feePercent.Load() }

// Paused reports whether mutating operations are currently rejected.
func (r *Registry) Paused() bool { return r.paused.Load() }

// Pause stops all mutating operations. Owner only. Queries stay available.
func (r *Registry) Pause(caller core.Identity) error {
	if caller != r.owner {
		return fmt.Errorf("pause: caller %s: %w", caller, core.ErrUnauthorized)
	}
	r.paused.Store(true)
	return nil
}

// Unpause resumes mutating operations. Owner only.
func (r *Registry) Unpause(caller core.Identity) error {
	if caller != r.owner {
		return fmt.Errorf("unpause: caller %s: %w", caller, core.ErrUnauthorized)
	}
	r.paused.Store(false)
	return nil
}

// ensureRunning is the guard every mutating operation checks first.
func (r *Registry) ensureRunning() error {
	if r.paused.Load() {
		return core.ErrPaused
	}
	return nil
}

// lookupAuction must be called with r.mu held.
func (r *Registry) lookupAuction(id core.AuctionID) (*Auction, error) {
	a, ok := r.auctions[id]
	if !ok {
		return nil, fmt.Errorf("auction %d: unknown auction: %w", id, core.ErrInvalidState)
	}
	return a, nil
}
