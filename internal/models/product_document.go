package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimestampLayout is the canonical text encoding for stored timestamps:
// ISO-8601 with offset and full fractional seconds.
const TimestampLayout = time.RFC3339Nano

// ProductDocument is the storage form of a product. The identifier and both
// timestamps are stored as canonical text so they round-trip losslessly; the
// price is stored as Decimal128 so no binary-float rounding is ever applied.
// Filters match on the "id" field, never on the store's own _id.
type ProductDocument struct {
	ID        string               `bson:"id"`
	Name      string               `bson:"name"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
	Status    bool                 `bson:"status"`
	CreatedAt string               `bson:"created_at"`
	UpdatedAt string               `bson:"updated_at"`
}

// ProductPatch carries the storage form of a partial update. Nil fields are
// left untouched by the write.
type ProductPatch struct {
	Name      *string               `bson:"name,omitempty"`
	Quantity  *int                  `bson:"quantity,omitempty"`
	Price     *primitive.Decimal128 `bson:"price,omitempty"`
	Status    *bool                 `bson:"status,omitempty"`
	UpdatedAt *string               `bson:"updated_at,omitempty"`
}

// Document normalizes a product to its storage form.
func (p Product) Document() (ProductDocument, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return ProductDocument{}, fmt.Errorf("failed to normalize price %s: %w", p.Price, err)
	}
	return ProductDocument{
		ID:        p.ID.String(),
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     price,
		Status:    p.Status,
		CreatedAt: p.CreatedAt.Format(TimestampLayout),
		UpdatedAt: p.UpdatedAt.Format(TimestampLayout),
	}, nil
}

// Product denormalizes a stored document back to the full view. Any parse
// failure here means the document was not written by this system and is
// surfaced as a data-integrity error.
func (d ProductDocument) Product() (Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Product{}, fmt.Errorf("malformed stored id %q: %w", d.ID, err)
	}
	createdAt, err := time.Parse(TimestampLayout, d.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("malformed stored created_at %q: %w", d.CreatedAt, err)
	}
	updatedAt, err := time.Parse(TimestampLayout, d.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("malformed stored updated_at %q: %w", d.UpdatedAt, err)
	}
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return Product{}, fmt.Errorf("malformed stored price %q: %w", d.Price, err)
	}
	return Product{
		ID:        id,
		Name:      d.Name,
		Quantity:  d.Quantity,
		Price:     price,
		Status:    d.Status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Patch normalizes the present fields of a partial update to storage form.
// The modification timestamp is stamped by the caller, not here.
func (u ProductUpdate) Patch() (ProductPatch, error) {
	patch := ProductPatch{
		Name:     u.Name,
		Quantity: u.Quantity,
		Status:   u.Status,
	}
	if u.Price != nil {
		price, err := primitive.ParseDecimal128(u.Price.String())
		if err != nil {
			return ProductPatch{}, fmt.Errorf("failed to normalize price %s: %w", u.Price, err)
		}
		patch.Price = &price
	}
	return patch, nil
}
