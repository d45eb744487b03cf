package product

import (
	"context"
	"errors"
	"log/slog"

	"product-composite/pkg/api"
	"product-composite/pkg/api/event"
	"product-composite/pkg/logattr"

	"github.com/walletera/werrors"
)

// EventsHandler applies product events from the composite service to the
// product store.
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

func (h *EventsHandler) HandleProductCreated(ctx context.Context, ev event.Event[int, api.Product]) werrors.WError {
	data := ev.Data()
	err := h.repository.Create(ctx, Product{
		ID:     data.ProductID,
		Name:   data.Name,
		Weight: data.Weight,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return werrors.NewNonRetryableInternalError("duplicate key, productId: %d", data.ProductID)
		}
		return werrors.NewRetryableInternalError("failed creating product: %s", err.Error())
	}
	h.logger.Info("product created", logattr.ProductId(data.ProductID), logattr.CorrelationId(ev.CorrelationID()))
	return nil
}

// HandleProductDeleted is idempotent: deleting an absent product succeeds.
func (h *EventsHandler) HandleProductDeleted(ctx context.Context, ev event.Event[int, api.Product]) werrors.WError {
	err := h.repository.Delete(ctx, ev.Key())
	if err != nil {
		return werrors.NewRetryableInternalError("failed deleting product: %s", err.Error())
	}
	h.logger.Info("product deleted", logattr.ProductId(ev.Key()), logattr.CorrelationId(ev.CorrelationID()))
	return nil
}
