package core

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

var phaseTestCreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestComputeDeadlines_StrictlyIncreasing(t *testing.T) {
	d := ComputeDeadlines(phaseTestCreatedAt, 10*time.Minute, 20*time.Minute, 2*time.Hour)

	check.True(t, d.Valid())
	check.Equal(t, phaseTestCreatedAt.Add(10*time.Minute), d.CommitEnd)
	check.Equal(t, phaseTestCreatedAt.Add(30*time.Minute), d.RevealEnd)
	check.Equal(t, phaseTestCreatedAt.Add(30*time.Minute+2*time.Hour), d.AuctionEnd)
}

func TestPhaseAt_Windows(t *testing.T) {
	d := ComputeDeadlines(phaseTestCreatedAt, time.Hour, time.Hour, 4*time.Hour)

	check.Equal(t, PhaseCommit, d.PhaseAt(phaseTestCreatedAt))
	check.Equal(t, PhaseCommit, d.PhaseAt(d.CommitEnd.Add(-time.Second)))
	check.Equal(t, PhaseReveal, d.PhaseAt(d.RevealEnd.Add(-time.Second)))
	check.Equal(t, PhaseClosing, d.PhaseAt(d.RevealEnd.Add(time.Minute)))
	check.Equal(t, PhaseEnded, d.PhaseAt(d.AuctionEnd.Add(time.Hour)))
}

func TestPhaseAt_BoundariesBelongToLaterPhase(t *testing.T) {
	d := ComputeDeadlines(phaseTestCreatedAt, time.Hour, time.Hour, 4*time.Hour)

	// At exactly the commit deadline the reveal window is open: the spec's
	// reveal precondition is commit_deadline <= now < reveal_deadline.
	check.Equal(t, PhaseReveal, d.PhaseAt(d.CommitEnd))
	check.Equal(t, PhaseClosing, d.PhaseAt(d.RevealEnd))
	check.Equal(t, PhaseEnded, d.PhaseAt(d.AuctionEnd))
}

func TestBidState_CanAdvanceTo(t *testing.T) {
	// The only legal path is the linear chain, one step at a time.
	check.True(t, BidUncommitted.CanAdvanceTo(BidCommitted))
	check.True(t, BidCommitted.CanAdvanceTo(BidRevealed))
	check.True(t, BidRevealed.CanAdvanceTo(BidWithdrawn))

	// No skipping, no repeating, no going back
	check.False(t, BidUncommitted.CanAdvanceTo(BidRevealed))
	check.False(t, BidCommitted.CanAdvanceTo(BidCommitted))
	check.False(t, BidRevealed.CanAdvanceTo(BidCommitted))
	check.False(t, BidWithdrawn.CanAdvanceTo(BidWithdrawn))
}

func TestAuctionStatus_Terminal(t *testing.T) {
	check.False(t, AuctionOpen.Terminal())
	check.True(t, AuctionCancelled.Terminal())
	check.True(t, AuctionEnded.Terminal())
}
