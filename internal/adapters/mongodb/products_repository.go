package mongodb

import (
	"context"
	"errors"
	"fmt"

	"product-composite/internal/domain/product"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ProductBSON struct {
	ID     int    `bson:"_id"`
	Name   string `bson:"name"`
	Weight int    `bson:"weight"`
}

type ProductsRepository struct {
	client         *mongo.Client
	dbName         string
	collectionName string
}

var _ product.Repository = (*ProductsRepository)(nil)

func NewProductsRepository(client *mongo.Client, dbName string, collectionName string) *ProductsRepository {
	return &ProductsRepository{client: client, dbName: dbName, collectionName: collectionName}
}

func (p *ProductsRepository) Get(ctx context.Context, productID int) (product.Product, error) {
	coll := p.client.Database(p.dbName).Collection(p.collectionName)

	var productBSON ProductBSON
	err := coll.FindOne(ctx, bson.M{"_id": productID}).Decode(&productBSON)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, fmt.Errorf("failed finding product %d: %w", productID, err)
	}

	return product.Product{
		ID:     productBSON.ID,
		Name:   productBSON.Name,
		Weight: productBSON.Weight,
	}, nil
}

func (p *ProductsRepository) Create(ctx context.Context, prod product.Product) error {
	productBSON := ProductBSON{
		ID:     prod.ID,
		Name:   prod.Name,
		Weight: prod.Weight,
	}
	coll := p.client.Database(p.dbName).Collection(p.collectionName)
	_, err := coll.InsertOne(ctx, productBSON)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return product.ErrDuplicateKey
		}
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (p *ProductsRepository) Delete(ctx context.Context, productID int) error {
	coll := p.client.Database(p.dbName).Collection(p.collectionName)
	_, err := coll.DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	return nil
}
