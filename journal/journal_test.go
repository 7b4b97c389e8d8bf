package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/openclear-io/sealedbid/registry"
)

func sampleEvent() registry.Event {
	return registry.Event{
		ID:           "7f9c2ba4-e88f-11eb-9a03-0242ac130003",
		Type:         registry.EventAuctionEnded,
		At:           time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC),
		Auction:      42,
		Seller:       "alice",
		Winner:       "cara",
		Amount:       "25",
		PlatformFee:  "1",
		SellerAmount: "24",
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	ev := sampleEvent()

	data, err := EncodeEvent(ev)
	assert.Nil(t, err)
	check.True(t, len(data) > 0)

	decoded, err := DecodeEvent(data)
	assert.Nil(t, err)
	check.Equal(t, ev.ID, decoded.ID)
	check.Equal(t, ev.Type, decoded.Type)
	check.Equal(t, ev.Auction, decoded.Auction)
	check.Equal(t, ev.Winner, decoded.Winner)
	check.Equal(t, ev.Amount, decoded.Amount)
	check.Equal(t, ev.PlatformFee, decoded.PlatformFee)
	check.True(t, ev.At.Equal(decoded.At))
}

func TestDecodeEvent_Garbage(t *testing.T) {
	_, err := DecodeEvent([]byte("not cbor at all"))
	check.NotNil(t, err)
}

type stubSink struct {
	events []registry.Event
	err    error
}

func (s *stubSink) Emit(_ context.Context, ev registry.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func TestMulti_FansOutToAllSinks(t *testing.T) {
	a := &stubSink{}
	b := &stubSink{}

	err := Multi{a, b}.Emit(context.Background(), sampleEvent())
	assert.Nil(t, err)
	check.Equal(t, 1, len(a.events))
	check.Equal(t, 1, len(b.events))
}

func TestMulti_BrokenSinkDoesNotStarveOthers(t *testing.T) {
	broken := &stubSink{err: errors.New("sink offline")}
	healthy := &stubSink{}

	err := Multi{broken, healthy}.Emit(context.Background(), sampleEvent())
	check.NotNil(t, err)
	// The healthy sink still received the event
	check.Equal(t, 1, len(healthy.events))
}
