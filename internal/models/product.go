package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductIn is the creation view of a product: the fields a caller supplies
// when creating one. Identifier and timestamps are server-assigned.
type ProductIn struct {
	Name     string          `json:"name" validate:"required,min=3,max=100"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"price" validate:"required,gt=0"`
	Status   *bool           `json:"status" validate:"required"`
}

// Product is the full view returned to callers from create, get and query.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    bool            `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductUpdate is the partial-update view. Every business field is optional;
// only the fields present in the request are applied to the stored document.
type ProductUpdate struct {
	// omitnil rather than omitempty: a supplied zero (quantity 0, price 0,
	// empty name) must still fail its range check, only absence skips it.
	Name     *string          `json:"name,omitempty" validate:"omitnil,min=3,max=100"`
	Quantity *int             `json:"quantity,omitempty" validate:"omitnil,gt=0"`
	Price    *decimal.Decimal `json:"price,omitempty" validate:"omitnil,gt=0"`
	Status   *bool            `json:"status,omitempty"`
}

// NewProduct builds a full product from a creation view, assigning a fresh
// identifier and the current time for both timestamps.
func NewProduct(in ProductIn) Product {
	now := time.Now().UTC()
	return Product{
		ID:        uuid.New(),
		Name:      in.Name,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Status:    *in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
