package repositories

import (
	"context"
	"sync"

	"store/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository, used in tests and for running the API without a real
// MongoDB behind it.
type InMemoryProductRepository struct {
	documents map[string]models.ProductDocument
	mu        sync.RWMutex
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		documents: make(map[string]models.ProductDocument),
	}
}

// Insert stores one document.
func (r *InMemoryProductRepository) Insert(_ context.Context, doc models.ProductDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.documents[doc.ID] = doc
	return nil
}

// FindOne returns the document with the given id, or nil if absent.
func (r *InMemoryProductRepository) FindOne(_ context.Context, id string) (*models.ProductDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.documents[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

// FindMany returns up to limit documents in map order.
func (r *InMemoryProductRepository) FindMany(_ context.Context, limit int64) ([]models.ProductDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]models.ProductDocument, 0, len(r.documents))
	for _, doc := range r.documents {
		if int64(len(docs)) >= limit {
			break
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindOneAndUpdate applies the non-nil patch fields under the write lock and
// returns the updated document, or nil if no document matched.
func (r *InMemoryProductRepository) FindOneAndUpdate(_ context.Context, id string, patch models.ProductPatch) (*models.ProductDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		doc.Name = *patch.Name
	}
	if patch.Quantity != nil {
		doc.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		doc.Price = *patch.Price
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.UpdatedAt != nil {
		doc.UpdatedAt = *patch.UpdatedAt
	}
	r.documents[id] = doc
	return &doc, nil
}

// DeleteOne removes the document with the given id, reporting the removed count.
func (r *InMemoryProductRepository) DeleteOne(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[id]; !ok {
		return 0, nil
	}
	delete(r.documents, id)
	return 1, nil
}
