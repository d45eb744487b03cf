// Package recommendation is the domain of the recommendation core service.
package recommendation

import (
	"context"
	"errors"
)

var ErrDuplicateKey = errors.New("duplicate recommendation key")

type Recommendation struct {
	ProductID        int
	RecommendationID int
	Author           string
	Rate             int
	Content          string
}

type Repository interface {
	// GetByProductID returns the recommendations for a product, empty when
	// there are none.
	GetByProductID(ctx context.Context, productID int) ([]Recommendation, error)
	Create(ctx context.Context, recommendation Recommendation) error
	// DeleteByProductID removes every recommendation of a product.
	DeleteByProductID(ctx context.Context, productID int) error
}
