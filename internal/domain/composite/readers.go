package composite

import (
	"context"

	"product-composite/pkg/api"
)

// The aggregator depends on one narrow interface per sub-resource. A single
// concrete adapter may implement all three.

type ProductReader interface {
	// GetProduct fails with apierrors.NotFoundError or
	// apierrors.InvalidInputError when the upstream classified the request
	// that way, and with a plain error on any other failure.
	GetProduct(ctx context.Context, productID int) (api.Product, error)
}

type RecommendationReader interface {
	// GetRecommendations is best-effort: implementations absorb upstream
	// failures and return an empty list instead.
	GetRecommendations(ctx context.Context, productID int) ([]api.Recommendation, error)
}

type ReviewReader interface {
	// GetReviews is best-effort, like GetRecommendations.
	GetReviews(ctx context.Context, productID int) ([]api.Review, error)
}

type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// HealthChecker reports liveness of the three core services. Checks never
// fail: an unreachable service is simply Down.
type HealthChecker interface {
	ProductHealth(ctx context.Context) Status
	RecommendationHealth(ctx context.Context) Status
	ReviewHealth(ctx context.Context) Status
}
