package mongodb

import (
	"context"
	"fmt"

	"product-composite/internal/domain/recommendation"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type RecommendationBSON struct {
	ProductID        int    `bson:"productId"`
	RecommendationID int    `bson:"recommendationId"`
	Author           string `bson:"author"`
	Rate             int    `bson:"rate"`
	Content          string `bson:"content"`
}

type RecommendationsRepository struct {
	client         *mongo.Client
	dbName         string
	collectionName string
}

var _ recommendation.Repository = (*RecommendationsRepository)(nil)

func NewRecommendationsRepository(client *mongo.Client, dbName string, collectionName string) *RecommendationsRepository {
	return &RecommendationsRepository{client: client, dbName: dbName, collectionName: collectionName}
}

// EnsureIndexes creates the unique compound index backing the
// (productId, recommendationId) identity. Call once at startup.
func (r *RecommendationsRepository) EnsureIndexes(ctx context.Context) error {
	coll := r.client.Database(r.dbName).Collection(r.collectionName)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "recommendationId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed creating recommendations index: %w", err)
	}
	return nil
}

func (r *RecommendationsRepository) GetByProductID(ctx context.Context, productID int) ([]recommendation.Recommendation, error) {
	coll := r.client.Database(r.dbName).Collection(r.collectionName)
	cursor, err := coll.Find(ctx, bson.M{"productId": productID})
	if err != nil {
		return nil, fmt.Errorf("failed finding recommendations for productId %d: %w", productID, err)
	}

	var recommendations []recommendation.Recommendation
	iterator := &Iterator{cursor: cursor}
	defer iterator.Close(ctx)
	for {
		ok, rec, err := iterator.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		recommendations = append(recommendations, rec)
	}
	return recommendations, nil
}

func (r *RecommendationsRepository) Create(ctx context.Context, rec recommendation.Recommendation) error {
	recommendationBSON := RecommendationBSON(rec)
	coll := r.client.Database(r.dbName).Collection(r.collectionName)
	_, err := coll.InsertOne(ctx, recommendationBSON)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return recommendation.ErrDuplicateKey
		}
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	return nil
}

func (r *RecommendationsRepository) DeleteByProductID(ctx context.Context, productID int) error {
	coll := r.client.Database(r.dbName).Collection(r.collectionName)
	_, err := coll.DeleteMany(ctx, bson.M{"productId": productID})
	if err != nil {
		return fmt.Errorf("failed to delete recommendations for productId %d: %w", productID, err)
	}
	return nil
}
