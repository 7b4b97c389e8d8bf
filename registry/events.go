package registry

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/openclear-io/sealedbid/core"
)

// EventType names one kind of audit-trail notification.
type EventType string

const (
	EventAuctionCreated   EventType = "auction_created"
	EventAuctionCancelled EventType = "auction_cancelled"
	EventAuctionEnded     EventType = "auction_ended"
	EventBidCommitted     EventType = "bid_committed"
	EventBidRevealed      EventType = "bid_revealed"
	EventBidWithdrawn     EventType = "bid_withdrawn"
	EventFeesWithdrawn    EventType = "fees_withdrawn"
)

// Event is one audit-trail record. Every successful mutating call emits
// exactly one event; failed calls emit nothing. Monetary fields are rendered
// as canonical decimal strings so the encoding is stable across sinks.
type Event struct {
	ID      string         `json:"id"`
	Type    EventType      `json:"type"`
	At      time.Time      `json:"at"`
	Auction core.AuctionID `json:"auction,omitempty"`

	Seller    core.Identity `json:"seller,omitempty"`
	Bidder    core.Identity `json:"bidder,omitempty"`
	Winner    core.Identity `json:"winner,omitempty"`
	Recipient core.Identity `json:"recipient,omitempty"`

	ItemName      string `json:"item_name,omitempty"`
	CommitHash    string `json:"commit_hash,omitempty"`
	StartingPrice string `json:"starting_price,omitempty"`
	Amount        string `json:"amount,omitempty"`
	PlatformFee   string `json:"platform_fee,omitempty"`
	SellerAmount  string `json:"seller_amount,omitempty"`

	CommitDeadline time.Time `json:"commit_deadline,omitempty"`
	RevealDeadline time.Time `json:"reveal_deadline,omitempty"`
	AuctionEnd     time.Time `json:"auction_end,omitempty"`
}

// Sink receives audit-trail events. Implementations must tolerate concurrent
// calls; the registry emits events in operation order.
type Sink interface {
	Emit(ctx context.Context, ev Event) error
}

// LogSink writes events to the process log.
type LogSink struct{}

func (LogSink) Emit(_ context.Context, ev Event) error {
	log.Printf("INFO: event %s id=%s auction=%d bidder=%s amount=%s",
		ev.Type, ev.ID, ev.Auction, ev.Bidder, ev.Amount)
	return nil
}

// emit stamps and delivers one event. Sink failures are logged, never
// surfaced: the audit trail is at-least-once into durable sinks, and a slow
// or broken sink must not fail a settled auction operation.
func (r *Registry) emit(ctx context.Context, ev Event) {
	if r.sink == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.At = r.clock.Now()
	if err := r.sink.Emit(ctx, ev); err != nil {
		log.Printf("ERROR: event sink failed for %s on auction %d: %v", ev.Type, ev.Auction, err)
	}
}
