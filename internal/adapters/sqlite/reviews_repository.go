// Package sqlite stores reviews in a SQLite database. The review service
// keeps SQL storage while the other core services use document storage.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"product-composite/internal/domain/review"

	_ "modernc.org/sqlite"
)

const DriverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	product_id INTEGER NOT NULL,
	review_id  INTEGER NOT NULL,
	author     TEXT NOT NULL,
	subject    TEXT NOT NULL,
	content    TEXT NOT NULL,
	PRIMARY KEY (product_id, review_id)
)`

type ReviewsRepository struct {
	db *sql.DB
}

var _ review.Repository = (*ReviewsRepository)(nil)

// NewReviewsRepository opens (and if needed creates) the reviews database at
// dbPath. Pass ":memory:" for an ephemeral store.
func NewReviewsRepository(dbPath string) (*ReviewsRepository, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open reviews database: %w", err)
	}

	// single writer keeps SQLite happy under concurrent consumers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create reviews schema: %w", err)
	}

	return &ReviewsRepository{db: db}, nil
}

func (r *ReviewsRepository) GetByProductID(ctx context.Context, productID int) ([]review.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, review_id, author, subject, content
		 FROM reviews WHERE product_id = ? ORDER BY review_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed querying reviews for productId %d: %w", productID, err)
	}
	defer rows.Close()

	var reviews []review.Review
	for rows.Next() {
		var rev review.Review
		if err := rows.Scan(&rev.ProductID, &rev.ReviewID, &rev.Author, &rev.Subject, &rev.Content); err != nil {
			return nil, fmt.Errorf("failed scanning review row: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating review rows: %w", err)
	}
	return reviews, nil
}

func (r *ReviewsRepository) Create(ctx context.Context, rev review.Review) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (product_id, review_id, author, subject, content)
		 VALUES (?, ?, ?, ?, ?)`,
		rev.ProductID, rev.ReviewID, rev.Author, rev.Subject, rev.Content)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return review.ErrDuplicateKey
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

func (r *ReviewsRepository) DeleteByProductID(ctx context.Context, productID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete reviews for productId %d: %w", productID, err)
	}
	return nil
}

func (r *ReviewsRepository) Close() error {
	return r.db.Close()
}
