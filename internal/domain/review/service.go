package review

import (
	"context"
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

// GetReviews returns the reviews for a product. A product without reviews
// yields an empty list, not an error.
func (s *Service) GetReviews(ctx context.Context, productID int) ([]api.Review, error) {
	if productID < 1 {
		return nil, apierrors.NewInvalidInput("invalid productId: %d", productID)
	}

	reviews, err := s.repository.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed getting reviews for productId %d: %w", productID, err)
	}

	s.logger.Debug("reviews found", logattr.ProductId(productID), slog.Int("count", len(reviews)))
	response := make([]api.Review, 0, len(reviews))
	for _, r := range reviews {
		response = append(response, api.Review{
			ProductID:      r.ProductID,
			ReviewID:       r.ReviewID,
			Author:         r.Author,
			Subject:        r.Subject,
			Content:        r.Content,
			ServiceAddress: s.serviceAddress,
		})
	}
	return response, nil
}
