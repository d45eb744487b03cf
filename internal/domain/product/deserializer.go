package product

import (
	"context"
	"log/slog"

	"product-composite/pkg/api"
	"product-composite/pkg/api/event"
	"product-composite/pkg/apierrors"
	"product-composite/pkg/logattr"

	eventskit "github.com/walletera/eventskit/events"
	"github.com/walletera/werrors"
)

// Deserializer turns raw messages from the products channel into events the
// EventsHandler can accept.
type Deserializer struct {
	logger *slog.Logger
}

var _ eventskit.Deserializer[*EventsHandler] = (*Deserializer)(nil)

func NewDeserializer(logger *slog.Logger) *Deserializer {
	return &Deserializer{logger: logger}
}

func (d *Deserializer) Deserialize(raw []byte) (eventskit.Event[*EventsHandler], error) {
	ev, err := event.Parse[int, api.Product](raw)
	if err != nil {
		d.logger.Warn("discarding unprocessable product event", logattr.Error(err.Error()))
		return nil, apierrors.NewEventProcessing("failed parsing product event: %s", err.Error())
	}
	switch ev.EventType() {
	case event.TypeCreate:
		return productCreated{ev}, nil
	case event.TypeDelete:
		return productDeleted{ev}, nil
	default:
		return nil, apierrors.NewEventProcessing("unexpected product event type: %s", ev.EventType())
	}
}

type productCreated struct {
	event.Event[int, api.Product]
}

func (e productCreated) Accept(ctx context.Context, handler *EventsHandler) werrors.WError {
	return handler.HandleProductCreated(ctx, e.Event)
}

type productDeleted struct {
	event.Event[int, api.Product]
}

func (e productDeleted) Accept(ctx context.Context, handler *EventsHandler) werrors.WError {
	return handler.HandleProductDeleted(ctx, e.Event)
}
