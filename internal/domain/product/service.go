package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"product-composite/pkg/api"
	"product-composite/pkg/apierrors"
	"product-composite/pkg/logattr"
)

type Service struct {
	repository     Repository
	serviceAddress string
	logger         *slog.Logger
}

func NewService(repository Repository, serviceAddress string, logger *slog.Logger) *Service {
	return &Service{
		repository:     repository,
		serviceAddress: serviceAddress,
		logger:         logger,
	}
}

func (s *Service) GetProduct(ctx context.Context, productID int) (api.Product, error) {
	if productID < 1 {
		return api.Product{}, apierrors.NewInvalidInput("invalid productId: %d", productID)
	}

	product, err := s.repository.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return api.Product{}, apierrors.NewNotFound("no product found for productId: %d", productID)
		}
		return api.Product{}, fmt.Errorf("failed getting product %d: %w", productID, err)
	}

	s.logger.Debug("found product", logattr.ProductId(productID))
	return api.Product{
		ProductID:      product.ID,
		Name:           product.Name,
		Weight:         product.Weight,
		ServiceAddress: s.serviceAddress,
	}, nil
}
