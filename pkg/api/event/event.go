// Package event defines the create/delete fact exchanged between the
// composite service and the core sub-services over the message broker.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	eventskit "github.com/walletera/eventskit/events"
)

type Type string

const (
	TypeCreate Type = "CREATE"
	TypeDelete Type = "DELETE"
)

// Event is an immutable fact about a sub-entity, keyed by the identity of
// the aggregate it belongs to. Data is present iff the event is a CREATE.
// The key doubles as the message partition key so that all events about one
// aggregate reach a downstream consumer in emission order.
type Event[K comparable, T any] struct {
	id            uuid.UUID
	correlationID string
	eventType     Type
	key           K
	data          *T
	createdAt     time.Time
}

var _ eventskit.EventData = Event[int, struct{}]{}

// NewCreate builds a CREATE event carrying data.
func NewCreate[K comparable, T any](key K, data T) Event[K, T] {
	return Event[K, T]{
		id:            uuid.New(),
		correlationID: uuid.NewString(),
		eventType:     TypeCreate,
		key:           key,
		data:          &data,
		createdAt:     time.Now(),
	}
}

// NewDelete builds a DELETE event. The payload type parameter only fixes the
// wire schema of the channel; the data field stays null.
func NewDelete[K comparable, T any](key K) Event[K, T] {
	return Event[K, T]{
		id:            uuid.New(),
		correlationID: uuid.NewString(),
		eventType:     TypeDelete,
		key:           key,
		createdAt:     time.Now(),
	}
}

func (e Event[K, T]) EventType() Type { return e.eventType }

func (e Event[K, T]) Key() K { return e.key }

// Data returns the payload of a CREATE event and nil for a DELETE event.
func (e Event[K, T]) Data() *T { return e.data }

// PartitionKey is the routing key used to preserve per-aggregate ordering at
// the broker.
func (e Event[K, T]) PartitionKey() string { return fmt.Sprintf("%v", e.key) }

func (e Event[K, T]) ID() string { return e.id.String() }

func (e Event[K, T]) Type() string { return string(e.eventType) }

func (e Event[K, T]) AggregateVersion() uint64 { return 0 }

func (e Event[K, T]) CorrelationID() string { return e.correlationID }

func (e Event[K, T]) DataContentType() string { return "application/json" }

func (e Event[K, T]) CreatedAt() time.Time { return e.createdAt }

// envelope is the wire shape of an Event.
type envelope[K comparable, T any] struct {
	EventType      Type      `json:"eventType"`
	Key            K         `json:"key"`
	Data           *T        `json:"data"`
	EventCreatedAt time.Time `json:"eventCreatedAt"`
}

func (e Event[K, T]) Serialize() ([]byte, error) {
	return json.Marshal(envelope[K, T]{
		EventType:      e.eventType,
		Key:            e.key,
		Data:           e.data,
		EventCreatedAt: e.createdAt,
	})
}

// Parse decodes an event from its wire shape. It rejects unknown event types
// and CREATE events without data, so a malformed message surfaces at the
// consumer boundary instead of deeper in the handler.
func Parse[K comparable, T any](raw []byte) (Event[K, T], error) {
	var env envelope[K, T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event[K, T]{}, fmt.Errorf("malformed event: %w", err)
	}
	switch env.EventType {
	case TypeCreate:
		if env.Data == nil {
			return Event[K, T]{}, fmt.Errorf("CREATE event without data, key: %v", env.Key)
		}
	case TypeDelete:
		env.Data = nil
	default:
		return Event[K, T]{}, fmt.Errorf("unknown event type: %q", env.EventType)
	}
	return Event[K, T]{
		id:            uuid.New(),
		correlationID: uuid.NewString(),
		eventType:     env.EventType,
		key:           env.Key,
		data:          env.Data,
		createdAt:     env.EventCreatedAt,
	}, nil
}
