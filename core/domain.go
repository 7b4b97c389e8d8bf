package core

import (
	"time"
)

// AuctionID identifies one auction in the registry. IDs are allocated from a
// monotonically increasing counter starting at 1; zero is never a valid id.
type AuctionID uint64

// Identity is an opaque caller identity supplied by the hosting environment
// (seller, bidder, or platform owner). The empty string is the "no identity"
// sentinel.
type Identity string

// NoBidder is the highest-bidder sentinel used before the first valid reveal.
const NoBidder Identity = ""

// Auction duration bounds enforced at creation time.
const (
	MinAuctionDuration = time.Hour
	MaxAuctionDuration = 30 * 24 * time.Hour
)

// MaxFeePercent is the upper bound accepted by SetFeePercent.
const MaxFeePercent uint32 = 10

// BidState is the explicit per-bid state machine:
//
//	Uncommitted → Committed → Revealed → Withdrawn
//
// Every arrow is a one-way, one-shot transition. Withdrawn also covers the
// winning bid after settlement: its escrow is consumed by the seller payout,
// so no funds remain to withdraw.
type BidState int

const (
	BidUncommitted BidState = iota
	BidCommitted
	BidRevealed
	BidWithdrawn
)

// CanAdvanceTo reports whether next is the single legal successor of s.
func (s BidState) CanAdvanceTo(next BidState) bool {
	return next == s+1 && next <= BidWithdrawn
}

func (s BidState) String() string {
	switch s {
	case BidUncommitted:
		return "uncommitted"
	case BidCommitted:
		return "committed"
	case BidRevealed:
		return "revealed"
	case BidWithdrawn:
		return "withdrawn"
	default:
		return "unknown"
	}
}

// AuctionStatus is the explicit per-auction terminal-state machine. Cancelled
// is reachable only while the bidder roster is empty; Ended only after the
// auction end time. The two terminal states are mutually exclusive and each
// is entered at most once.
type AuctionStatus int

const (
	AuctionOpen AuctionStatus = iota
	AuctionCancelled
	AuctionEnded
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionOpen:
		return "open"
	case AuctionCancelled:
		return "cancelled"
	case AuctionEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further mutation.
func (s AuctionStatus) Terminal() bool {
	return s == AuctionCancelled || s == AuctionEnded
}
