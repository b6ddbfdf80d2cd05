package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"store/internal/models"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a repository over the "products"
// collection of the given database.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection("products"),
	}
}

// Insert writes one product document.
func (r *MongoProductRepository) Insert(ctx context.Context, doc models.ProductDocument) error {
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// FindOne returns the document whose stored id matches, or nil if none does.
func (r *MongoProductRepository) FindOne(ctx context.Context, id string) (*models.ProductDocument, error) {
	var doc models.ProductDocument
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", id, err)
	}
	return &doc, nil
}

// FindMany returns up to limit documents in store-native order.
func (r *MongoProductRepository) FindMany(ctx context.Context, limit int64) ([]models.ProductDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.ProductDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return docs, nil
}

// FindOneAndUpdate sets the non-nil patch fields on the matching document in
// a single atomic operation and returns the post-update document, or nil if
// no document matched.
func (r *MongoProductRepository) FindOneAndUpdate(ctx context.Context, id string, patch models.ProductPatch) (*models.ProductDocument, error) {
	var doc models.ProductDocument
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &doc, nil
}

// DeleteOne removes the matching document, reporting the removed count.
func (r *MongoProductRepository) DeleteOne(ctx context.Context, id string) (int64, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return res.DeletedCount, nil
}
