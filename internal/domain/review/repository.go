// Package review is the domain of the review core service.
package review

import (
	"context"
	"errors"
)

var ErrDuplicateKey = errors.New("duplicate review key")

type Review struct {
	ProductID int
	ReviewID  int
	Author    string
	Subject   string
	Content   string
}

type Repository interface {
	// GetByProductID returns the reviews for a product, empty when there are
	// none.
	GetByProductID(ctx context.Context, productID int) ([]Review, error)
	Create(ctx context.Context, review Review) error
	// DeleteByProductID removes every review of a product.
	DeleteByProductID(ctx context.Context, productID int) error
}
