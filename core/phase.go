package core

import (
	"time"
)

// Phase is the time-derived position of an auction within its lifecycle.
// There is no external signal that advances phases: phase membership is a
// pure function of the current time compared against the stored deadlines,
// evaluated lazily by every operation's precondition check.
type Phase int

const (
	// PhaseCommit accepts bid commitments: now < commit deadline.
	PhaseCommit Phase = iota
	// PhaseReveal accepts reveals: commit deadline <= now < reveal deadline.
	PhaseReveal
	// PhaseClosing is the window between the reveal deadline and the auction
	// end time. No commits or reveals; settlement is not yet permitted.
	PhaseClosing
	// PhaseEnded begins at the auction end time; settlement is permitted.
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseCommit:
		return "commit"
	case PhaseReveal:
		return "reveal"
	case PhaseClosing:
		return "closing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Deadlines fixes the three phase boundaries of an auction at creation time.
// They always satisfy CommitEnd < RevealEnd < AuctionEnd.
type Deadlines struct {
	CommitEnd  time.Time `json:"commit_end"`
	RevealEnd  time.Time `json:"reveal_end"`
	AuctionEnd time.Time `json:"auction_end"`
}

// ComputeDeadlines derives the three boundaries from the creation time and
// the per-window durations: commit window first, then reveal window, then the
// closing window ending at createdAt+commit+reveal+auction.
func ComputeDeadlines(createdAt time.Time, commitDur, revealDur, auctionDur time.Duration) Deadlines {
	commitEnd := createdAt.Add(commitDur)
	revealEnd := commitEnd.Add(revealDur)
	return Deadlines{
		CommitEnd:  commitEnd,
		RevealEnd:  revealEnd,
		AuctionEnd: revealEnd.Add(auctionDur),
	}
}

// PhaseAt returns the phase the auction occupies at the given instant.
// Boundaries belong to the later phase: at exactly CommitEnd the commit
// window is closed and the reveal window is open.
func (d Deadlines) PhaseAt(now time.Time) Phase {
	switch {
	case now.Before(d.CommitEnd):
		return PhaseCommit
	case now.Before(d.RevealEnd):
		return PhaseReveal
	case now.Before(d.AuctionEnd):
		return PhaseClosing
	default:
		return PhaseEnded
	}
}

// Valid reports whether the boundaries are strictly increasing.
func (d Deadlines) Valid() bool {
	return d.CommitEnd.Before(d.RevealEnd) && d.RevealEnd.Before(d.AuctionEnd)
}
