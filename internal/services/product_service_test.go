package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"store/internal/models"
	"store/internal/repositories"
	"store/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Insert(ctx context.Context, doc models.ProductDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockProductRepository) FindOne(ctx context.Context, id string) (*models.ProductDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDocument), args.Error(1)
}

func (m *MockProductRepository) FindMany(ctx context.Context, limit int64) ([]models.ProductDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductDocument), args.Error(1)
}

func (m *MockProductRepository) FindOneAndUpdate(ctx context.Context, id string, patch models.ProductPatch) (*models.ProductDocument, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDocument), args.Error(1)
}

func (m *MockProductRepository) DeleteOne(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	assert.NoError(t, err)
	return d
}

func testProductIn(t *testing.T) models.ProductIn {
	status := true
	return models.ProductIn{
		Name:     "Iphone 14 pro Max",
		Quantity: 10,
		Price:    mustDecimal(t, "8.500"),
		Status:   &status,
	}
}

func TestProductService_Create(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	var inserted models.ProductDocument
	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("models.ProductDocument")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(models.ProductDocument)
		}).
		Return(nil).Once()

	in := testProductIn(t)
	product, err := service.Create(context.Background(), in)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, in.Name, product.Name)
	assert.Equal(t, in.Quantity, product.Quantity)
	assert.True(t, in.Price.Equal(product.Price))
	assert.True(t, product.Status)
	assert.False(t, product.CreatedAt.IsZero())
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)

	// The stored document carries the canonical text/decimal forms.
	assert.Equal(t, product.ID.String(), inserted.ID)
	assert.Equal(t, "8.500", inserted.Price.String())
	assert.Equal(t, product.CreatedAt.Format(models.TimestampLayout), inserted.CreatedAt)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Get(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	stored := models.NewProduct(testProductIn(t))
	doc, err := stored.Document()
	assert.NoError(t, err)

	// Test successful retrieval
	mockRepo.On("FindOne", mock.Anything, stored.ID.String()).Return(&doc, nil).Once()
	product, err := service.Get(context.Background(), stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, stored, *product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	missing := uuid.New()
	mockRepo.On("FindOne", mock.Anything, missing.String()).Return(nil, nil).Once()
	product, err = service.Get(context.Background(), missing)
	assert.Nil(t, product)
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, fmt.Sprintf("Product not found with filter: %s", missing), err.Error())
	mockRepo.AssertExpectations(t)
}

func TestProductService_Query(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	first := models.NewProduct(testProductIn(t))
	second := models.NewProduct(testProductIn(t))
	firstDoc, err := first.Document()
	assert.NoError(t, err)
	secondDoc, err := second.Document()
	assert.NoError(t, err)

	mockRepo.On("FindMany", mock.Anything, int64(100)).
		Return([]models.ProductDocument{firstDoc, secondDoc}, nil).Once()

	products, err := service.Query(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []models.Product{first, second}, products)
	mockRepo.AssertExpectations(t)

	// An empty store yields an empty slice, never an error.
	mockRepo.On("FindMany", mock.Anything, int64(100)).
		Return([]models.ProductDocument{}, nil).Once()
	products, err = service.Query(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	stored := models.NewProduct(testProductIn(t))
	newPrice := mustDecimal(t, "7.500")

	updated := stored
	updated.Price = newPrice
	updatedDoc, err := updated.Document()
	assert.NoError(t, err)

	var patch models.ProductPatch
	mockRepo.On("FindOneAndUpdate", mock.Anything, stored.ID.String(), mock.AnythingOfType("models.ProductPatch")).
		Run(func(args mock.Arguments) {
			patch = args.Get(2).(models.ProductPatch)
		}).
		Return(&updatedDoc, nil).Once()

	product, err := service.Update(context.Background(), stored.ID, models.ProductUpdate{Price: &newPrice})
	assert.NoError(t, err)

	// Only the supplied field plus the modification stamp reach the store.
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Quantity)
	assert.Nil(t, patch.Status)
	assert.NotNil(t, patch.Price)
	assert.Equal(t, "7.500", patch.Price.String())
	assert.NotNil(t, patch.UpdatedAt)

	assert.True(t, newPrice.Equal(product.Price))
	assert.Equal(t, stored.Quantity, product.Quantity)
	mockRepo.AssertExpectations(t)

	// Test update of a missing product
	missing := uuid.New()
	mockRepo.On("FindOneAndUpdate", mock.Anything, missing.String(), mock.AnythingOfType("models.ProductPatch")).
		Return(nil, nil).Once()
	product, err = service.Update(context.Background(), missing, models.ProductUpdate{Price: &newPrice})
	assert.Nil(t, product)
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), missing.String())
	mockRepo.AssertExpectations(t)
}

func TestProductService_Delete(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	// Test successful deletion
	id := uuid.New()
	mockRepo.On("DeleteOne", mock.Anything, id.String()).Return(int64(1), nil).Once()
	ok, err := service.Delete(context.Background(), id)
	assert.NoError(t, err)
	assert.True(t, ok)
	mockRepo.AssertExpectations(t)

	// A zero removed count reports not-found, even when a concurrent delete
	// removed the document between request and write.
	missing := uuid.New()
	mockRepo.On("DeleteOne", mock.Anything, missing.String()).Return(int64(0), nil).Once()
	ok, err = service.Delete(context.Background(), missing)
	assert.False(t, ok)
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), missing.String())
	mockRepo.AssertExpectations(t)
}

// The tests below run the service against the in-memory repository to cover
// whole-lifecycle behavior rather than single calls.

func TestProductService_RoundTripIdentity(t *testing.T) {
	service := services.NewProductService(repositories.NewInMemoryProductRepository(), nil)
	ctx := context.Background()

	created, err := service.Create(ctx, testProductIn(t))
	assert.NoError(t, err)

	fetched, err := service.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, *created, *fetched)
}

func TestProductService_PartialUpdateIsolatesFields(t *testing.T) {
	service := services.NewProductService(repositories.NewInMemoryProductRepository(), nil)
	ctx := context.Background()

	created, err := service.Create(ctx, testProductIn(t))
	assert.NoError(t, err)

	newPrice := mustDecimal(t, "7.500")
	updated, err := service.Update(ctx, created.ID, models.ProductUpdate{Price: &newPrice})
	assert.NoError(t, err)

	assert.Equal(t, "7.500", updated.Price.String())
	assert.Equal(t, 10, updated.Quantity)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestProductService_DeleteIsTerminal(t *testing.T) {
	service := services.NewProductService(repositories.NewInMemoryProductRepository(), nil)
	ctx := context.Background()

	created, err := service.Create(ctx, testProductIn(t))
	assert.NoError(t, err)

	ok, err := service.Delete(ctx, created.ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	_, err = service.Get(ctx, created.ID)
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), created.ID.String())
}

func TestProductService_QueryCap(t *testing.T) {
	service := services.NewProductService(repositories.NewInMemoryProductRepository(), nil)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		_, err := service.Create(ctx, testProductIn(t))
		assert.NoError(t, err)
	}

	products, err := service.Query(ctx)
	assert.NoError(t, err)
	assert.Len(t, products, 100)
}
