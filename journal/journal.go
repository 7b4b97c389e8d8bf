// Package journal provides durable sinks for the registry's audit trail.
// The registry emits exactly one event per successful mutating call; the
// sinks here fan those events out to the process log, a NATS subject, and an
// append-only Postgres table.
package journal

import (
	"context"

	"github.com/openclear-io/sealedbid/registry"
)

// Multi fans one event out to every sink in order. Delivery is best-effort
// per sink: the first failure is returned after all sinks were attempted, so
// one broken sink does not starve the others.
type Multi []registry.Sink

func (m Multi) Emit(ctx context.Context, ev registry.Event) error {
	var first error
	for _, sink := range m {
		if err := sink.Emit(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
