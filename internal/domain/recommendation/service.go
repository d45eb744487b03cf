package recommendation

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

// GetRecommendations returns the recommendations for a product. A product
// without recommendations yields an empty list, not an error.
func (s *Service) GetRecommendations(ctx context.Context, productID int) ([]api.Recommendation, error) {
	if productID < 1 {
		return nil, apierrors.NewInvalidInput("invalid productId: %d", productID)
	}

	recommendations, err := s.repository.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed getting recommendations for productId %d: %w", productID, err)
	}

	s.logger.Debug("recommendations found", logattr.ProductId(productID), slog.Int("count", len(recommendations)))
	response := make([]api.Recommendation, 0, len(recommendations))
	for _, r := range recommendations {
		response = append(response, api.Recommendation{
			ProductID:        r.ProductID,
			RecommendationID: r.RecommendationID,
			Author:           r.Author,
			Rate:             r.Rate,
			Content:          r.Content,
			ServiceAddress:   s.serviceAddress,
		})
	}
	return response, nil
}
