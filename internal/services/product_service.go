package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"store/internal/models"
	"store/internal/repositories"
	"store/pkg/rabbitmq"
)

// queryLimit caps how many products a single Query call returns.
const queryLimit = 100

// NotFoundError signals that no product matches the given identifier. It is
// the only error the service defines itself; handlers translate it to a 404.
type NotFoundError struct {
	Filter string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Product not found with filter: %s", e.Filter)
}

// ProductService handles the product lifecycle against one logical
// collection of product documents.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client // nil when event publishing is disabled
}

// NewProductService creates a new ProductService. mqClient may be nil.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// Create assigns a new identifier and timestamps, normalizes the product to
// its storage form and inserts it. The returned view is built from the
// values just written, not from a re-read.
func (s *ProductService) Create(ctx context.Context, in models.ProductIn) (*models.Product, error) {
	product := models.NewProduct(in)

	doc, err := product.Document()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", product.ID)
	return &product, nil
}

// Get looks up one product by identifier. Returns NotFoundError when no
// document matches.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	doc, err := s.repo.FindOne(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &NotFoundError{Filter: id.String()}
	}

	product, err := doc.Product()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Query returns all products up to a fixed cap, in store-native order. An
// empty store yields an empty slice, never an error.
func (s *ProductService) Query(ctx context.Context) ([]models.Product, error) {
	docs, err := s.repo.FindMany(ctx, queryLimit)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := doc.Product()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// Update applies only the fields present in the partial view via an atomic
// find-and-modify and returns the post-update product. The modification
// timestamp is always refreshed, whether or not the caller supplied any
// particular field. Returns NotFoundError when no document matches.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in models.ProductUpdate) (*models.Product, error) {
	patch, err := in.Patch()
	if err != nil {
		return nil, err
	}
	updatedAt := time.Now().UTC().Format(models.TimestampLayout)
	patch.UpdatedAt = &updatedAt

	doc, err := s.repo.FindOneAndUpdate(ctx, id.String(), patch)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &NotFoundError{Filter: id.String()}
	}

	product, err := doc.Product()
	if err != nil {
		return nil, err
	}

	s.publishEvent("product.updated", product.ID)
	return &product, nil
}

// Delete removes the product with the given identifier. The single atomic
// delete both decides not-found and proves a removal happened, so a
// concurrent delete of the same identifier can never make this report a
// removal it did not perform.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	count, err := s.repo.DeleteOne(ctx, id.String())
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, &NotFoundError{Filter: id.String()}
	}

	s.publishEvent("product.deleted", id)
	return true, nil
}

// publishEvent emits a product lifecycle event. Publishing is best-effort:
// a failure is logged and never fails the operation that triggered it.
func (s *ProductService) publishEvent(event string, id uuid.UUID) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"event":      event,
		"product_id": id.String(),
		"emitted_at": time.Now().UTC().Format(models.TimestampLayout),
	}
	if err := s.mqClient.PublishProductEvent(payload); err != nil {
		log.Printf("Failed to publish %s event for product %s: %v", event, id, err)
	}
}
