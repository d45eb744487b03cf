package review

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

func (h *EventsHandler) HandleReviewCreated(ctx context.Context, ev event.Event[int, api.Review]) werrors.WError {
	data := ev.Data()
	err := h.repository.Create(ctx, Review{
		ProductID: data.ProductID,
		ReviewID:  data.ReviewID,
		Author:    data.Author,
		Subject:   data.Subject,
		Content:   data.Content,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return werrors.NewNonRetryableInternalError("duplicate key, productId: %d, reviewId: %d", data.ProductID, data.ReviewID)
		}
		return werrors.NewRetryableInternalError("failed creating review: %s", err.Error())
	}
	h.logger.Info("review created", logattr.ProductId(data.ProductID), logattr.CorrelationId(ev.CorrelationID()))
	return nil
}

// HandleReviewsDeleted removes every review of the keyed product. Absence is
// not an error.
func (h *EventsHandler) HandleReviewsDeleted(ctx context.Context, ev event.Event[int, api.Review]) werrors.WError {
	err := h.repository.DeleteByProductID(ctx, ev.Key())
	if err != nil {
		return werrors.NewRetryableInternalError("failed deleting reviews: %s", err.Error())
	}
	h.logger.Info("reviews deleted", logattr.ProductId(ev.Key()), logattr.CorrelationId(ev.CorrelationID()))
	return nil
}
