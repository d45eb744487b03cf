package recommendation

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
	ev, err := event.Parse[int, api.Recommendation](raw)
	if err != nil {
		d.logger.Warn("discarding unprocessable recommendation event", logattr.Error(err.Error()))
		return nil, apierrors.NewEventProcessing("failed parsing recommendation event: %s", err.Error())
	}
	switch ev.EventType() {
	case event.TypeCreate:
		return recommendationCreated{ev}, nil
	case event.TypeDelete:
		return recommendationsDeleted{ev}, nil
	default:
		return nil, apierrors.NewEventProcessing("unexpected recommendation event type: %s", ev.EventType())
	}
}

type recommendationCreated struct {
	event.Event[int, api.Recommendation]
}

func (e recommendationCreated) Accept(ctx context.Context, handler *EventsHandler) werrors.WError {
	return handler.HandleRecommendationCreated(ctx, e.Event)
}

type recommendationsDeleted struct {
	event.Event[int, api.Recommendation]
}

func (e recommendationsDeleted) Accept(ctx context.Context, handler *EventsHandler) werrors.WError {
	return handler.HandleRecommendationsDeleted(ctx, e.Event)
}
