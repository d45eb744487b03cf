// Package product is the domain of the product core service: a read API
// backed by a repository, written to exclusively by the message consumer.
package product

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrDuplicateKey = errors.New("duplicate product key")
)

type Product struct {
	ID     int
	Name   string
	Weight int
}

type Repository interface {
	Get(ctx context.Context, productID int) (Product, error)
	Create(ctx context.Context, product Product) error
	Delete(ctx context.Context, productID int) error
}
