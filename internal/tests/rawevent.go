package tests

import (
	"time"

	"github.com/google/uuid"
	"github.com/walletera/eventskit/events"
)

var _ events.EventData = rawEvent{}

// rawEvent publishes a pre-serialized payload as-is, so scenarios can feed
// the consumers the exact bytes that appear in the feature files.
type rawEvent struct {
	id        string
	eventType string
	payload   []byte
	createdAt time.Time
}

func newRawEvent(eventType string, payload []byte) rawEvent {
	return rawEvent{
		id:        uuid.NewString(),
		eventType: eventType,
		payload:   payload,
		createdAt: time.Now(),
	}
}

func (e rawEvent) ID() string { return e.id }

func (e rawEvent) Type() string { return e.eventType }

func (e rawEvent) AggregateVersion() uint64 { return 0 }

func (e rawEvent) CorrelationID() string { return e.id }

func (e rawEvent) DataContentType() string { return "application/json" }

func (e rawEvent) CreatedAt() time.Time { return e.createdAt }

func (e rawEvent) Serialize() ([]byte, error) {
	return e.payload, nil
}
