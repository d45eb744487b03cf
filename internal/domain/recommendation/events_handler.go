package recommendation

import (
	"context"
	"errors"
	"log/slog"

	"product-composite/pkg/api"
	"product-composite/pkg/api/event"
	"product-composite/pkg/logattr"

	"github.com/walletera/werrors"
)

type EventsHandler struct {
	repository Repository
	logger     *slog.Logger
}

func NewEventsHandler(repository Repository, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		repository: repository,
		logger:     logger,
	}
}

func (h *EventsHandler) HandleRecommendationCreated(ctx context.Context, ev event.Event[int, api.Recommendation]) werrors.WError {
	data := ev.Data()
	err := h.repository.Create(ctx, Recommendation{
		ProductID:        data.ProductID,
		RecommendationID: data.RecommendationID,
		Author:           data.Author,
		Rate:             data.Rate,
		Content:          data.Content,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return werrors.NewNonRetryableInternalError("duplicate key, productId: %d, recommendationId: %d", data.ProductID, data.RecommendationID)
		}
		return werrors.NewRetryableInternalError("failed creating recommendation: %s", err.Error())
	}
	h.logger.Info("recommendation created", logattr.ProductId(data.ProductID), logattr.CorrelationId(ev.CorrelationID()))
	return nil
}

// HandleRecommendationsDeleted removes every recommendation of the keyed
// product. Absence is not an error.
func (h *EventsHandler) HandleRecommendationsDeleted(ctx context.Context, ev event.Event[int, api.Recommendation]) werrors.WError {
	err := h.repository.DeleteByProductID(ctx, ev.Key())
	if err != nil {
		return werrors.NewRetryableInternalError("failed deleting recommendations: %s", err.Error())
	}
	h.logger.Info("recommendations deleted", logattr.ProductId(ev.Key()), logattr.CorrelationId(ev.CorrelationID()))
	return nil
}
