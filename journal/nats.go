package journal

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/openclear-io/sealedbid/registry"
)

// DefaultSubjectPrefix is the subject namespace for published audit events.
// The full subject is "<prefix>.<event type>", e.g. "auction.events.bid_revealed".
const DefaultSubjectPrefix = "auction.events"

// NATSPublisher publishes audit events to a NATS subject per event type.
// Consumers (archival workers, live dashboards) subscribe to
// "auction.events.>" and replay or fan out as they see fit.
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher connects to the NATS server at url. An empty subjectPrefix
// falls back to DefaultSubjectPrefix.
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	conn, err := nats.Connect(url,
		nats.Name("sealedbid-journal"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// Emit publishes one CBOR-encoded event.
func (p *NATSPublisher) Emit(_ context.Context, ev registry.Event) error {
	payload, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, ev.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", ev.ID, subject, err)
	}
	return nil
}

// Close flushes pending publishes and drops the connection.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Flush(); err != nil {
		p.conn.Close()
		return fmt.Errorf("flushing NATS connection: %w", err)
	}
	p.conn.Close()
	return nil
}
