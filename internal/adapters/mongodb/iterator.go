package mongodb

import (
	"context"

	"product-composite/internal/domain/recommendation"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Iterator walks a recommendations cursor.
type Iterator struct {
	cursor *mongo.Cursor
}

func (m *Iterator) Next(ctx context.Context) (bool, recommendation.Recommendation, error) {
	if !m.cursor.Next(ctx) {
		if err := m.cursor.Err(); err != nil {
			return false, recommendation.Recommendation{}, err
		}
		return false, recommendation.Recommendation{}, nil
	}

	var recommendationBSON RecommendationBSON
	if err := m.cursor.Decode(&recommendationBSON); err != nil {
		return false, recommendation.Recommendation{}, err
	}

	return true, recommendation.Recommendation(recommendationBSON), nil
}

func (m *Iterator) Close(ctx context.Context) {
	_ = m.cursor.Close(ctx)
}
