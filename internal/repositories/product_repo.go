package repositories

import (
	"context"

	"store/internal/models"
)

// ProductRepository defines the document-store operations the product
// use-case needs. Lookups filter on the canonical text encoding of the
// product identifier. FindOne and FindOneAndUpdate return (nil, nil) when no
// document matches; deciding what "no match" means is left to the caller.
type ProductRepository interface {
	Insert(ctx context.Context, doc models.ProductDocument) error
	FindOne(ctx context.Context, id string) (*models.ProductDocument, error)
	FindMany(ctx context.Context, limit int64) ([]models.ProductDocument, error)
	// FindOneAndUpdate atomically applies the patch and returns the
	// post-update document.
	FindOneAndUpdate(ctx context.Context, id string, patch models.ProductPatch) (*models.ProductDocument, error)
	// DeleteOne removes at most one matching document and reports how many
	// were removed (0 or 1).
	DeleteOne(ctx context.Context, id string) (int64, error)
}
