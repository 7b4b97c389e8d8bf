package journal

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/openclear-io/sealedbid/registry"
)

// Events cross the wire CBOR-encoded: compact, schema-free, and stable for
// archival consumers that replay the trail later.

// EncodeEvent serializes one audit event for publication.
func EncodeEvent(ev registry.Event) ([]byte, error) {
	data, err := cbor.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding event %s: %w", ev.ID, err)
	}
	return data, nil
}

// DecodeEvent deserializes a published audit event.
func DecodeEvent(data []byte) (registry.Event, error) {
	var ev registry.Event
	if err := cbor.Unmarshal(data, &ev); err != nil {
		return registry.Event{}, fmt.Errorf("decoding event: %w", err)
	}
	return ev, nil
}
