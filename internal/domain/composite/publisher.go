package composite

import (
	"context"
	"fmt"
	"log/slog"

	"product-composite/pkg/logattr"

	eventskit "github.com/walletera/eventskit/events"
)

// Logical output channels. Each maps to its own broker exchange.
const (
	ProductsChannel        = "products-out-0"
	RecommendationsChannel = "recommendations-out-0"
	ReviewsChannel         = "reviews-out-0"
)

const (
	ProductsExchangeName        = "products"
	RecommendationsExchangeName = "recommendations"
	ReviewsExchangeName         = "reviews"
)

// PartitionedEvent is what the aggregator hands to the publisher: a
// serializable event that knows its partition key.
type PartitionedEvent interface {
	eventskit.EventData

	PartitionKey() string
}

// Publisher hands an event to the broker on a logical channel. The returned
// error reports a failed hand-over, not a failed downstream apply.
type Publisher interface {
	Publish(ctx context.Context, channel string, ev PartitionedEvent) error
}

// EventPublisher routes each channel to its broker binding, using the
// event's partition key as routing key so the broker preserves per-key
// ordering.
type EventPublisher struct {
	bindings map[string]Binding
	logger   *slog.Logger
}

// Binding ties a logical channel to a broker publisher and the exchange it
// declared.
type Binding struct {
	Broker   eventskit.Publisher
	Exchange string
}

func NewEventPublisher(bindings map[string]Binding, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		bindings: bindings,
		logger:   logger,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, channel string, ev PartitionedEvent) error {
	binding, ok := p.bindings[channel]
	if !ok {
		return fmt.Errorf("no binding for channel %s", channel)
	}
	p.logger.Debug(
		"publishing event",
		logattr.Channel(channel),
		logattr.EventType(ev.Type()),
		logattr.CorrelationId(ev.CorrelationID()),
	)
	err := binding.Broker.Publish(ctx, ev, eventskit.RoutingInfo{
		Topic:      binding.Exchange,
		RoutingKey: ev.PartitionKey(),
	})
	if err != nil {
		return fmt.Errorf("failed publishing %s event to channel %s: %w", ev.Type(), channel, err)
	}
	return nil
}
