package review

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

type Deserializer struct {
	logger *slog.Logger
}

var _ eventskit.Deserializer[*EventsHandler] = (*Deserializer)(nil)

func NewDeserializer(logger *slog.Logger) *Deserializer {
	return &Deserializer{logger: logger}
}

func (d *Deserializer) Deserialize(raw []byte) (eventskit.Event[*EventsHandler], error) {
	ev, err := event.Parse[int, api.Review](raw)
	if err != nil {
		d.logger.Warn("discarding unprocessable review event", logattr.Error(err.Error()))
		return nil, apierrors.NewEventProcessing("failed parsing review event: %s", err.Error())
	}
	switch ev.EventType() {
	case event.TypeCreate:
		return reviewCreated{ev}, nil
	case event.TypeDelete:
		return reviewsDeleted{ev}, nil
	default:
		return nil, apierrors.NewEventProcessing("unexpected review event type: %s", ev.EventType())
	}
}

type reviewCreated struct {
	event.Event[int, api.Review]
}

func (e reviewCreated) Accept(ctx context.Context, handler *EventsHandler) werrors.WError {
	return handler.HandleReviewCreated(ctx, e.Event)
}

type reviewsDeleted struct {
	event.Event[int, api.Review]
}

func (e reviewsDeleted) Accept(ctx context.Context, handler *EventsHandler) werrors.WError {
	return handler.HandleReviewsDeleted(ctx, e.Event)
}
