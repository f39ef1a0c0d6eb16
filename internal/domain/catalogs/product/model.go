// Package product provides the Product catalog.
// Products carry the SKU, unit of measure, pricing, and the minimum-stock
// threshold used for low-stock flagging.
package product

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
)

// Product represents a stocked item.
type Product struct {
	ID          id.ID   `db:"id" json:"id"`
	SKU         string  `db:"sku" json:"sku"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// Unit is the unit-of-measure label (PCS, BOX, KG, ...)
	Unit string `db:"unit" json:"unit"`

	// MinStock is the replenishment threshold for low-stock flagging
	MinStock int64 `db:"min_stock" json:"minStock"`

	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	SellingPrice  decimal.Decimal `db:"selling_price" json:"sellingPrice"`

	ImageURL *string `db:"image_url" json:"imageUrl,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates a new Product with generated ID and defaults.
func NewProduct(sku, name string) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:            id.New(),
		SKU:           strings.ToUpper(strings.TrimSpace(sku)),
		Name:          name,
		Unit:          "PCS",
		PurchasePrice: decimal.Zero,
		SellingPrice:  decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks entity invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("min stock cannot be negative").
			WithDetail("field", "minStock")
	}
	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}
	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}
	return nil
}

// IsLowStock reports whether quantity is at or below the product's threshold.
func (p *Product) IsLowStock(quantity int64) bool {
	return p.MinStock > 0 && quantity <= p.MinStock
}

// Touch updates the modification timestamp.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
