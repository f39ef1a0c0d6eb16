package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
)

func TestNewProduct_Defaults(t *testing.T) {
	p := NewProduct("  kb-0001 ", "Mechanical Keyboard")

	assert.False(t, id.IsNil(p.ID))
	assert.Equal(t, "KB-0001", p.SKU)
	assert.Equal(t, "PCS", p.Unit)
	assert.True(t, p.PurchasePrice.IsZero())
	assert.True(t, p.SellingPrice.IsZero())
	assert.False(t, p.CreatedAt.IsZero())
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	valid := NewProduct("KB-0001", "Mechanical Keyboard")
	assert.NoError(t, valid.Validate(ctx))

	cases := []struct {
		name   string
		mutate func(p *Product)
		field  string
	}{
		{"empty sku", func(p *Product) { p.SKU = "" }, "sku"},
		{"empty name", func(p *Product) { p.Name = "" }, "name"},
		{"empty unit", func(p *Product) { p.Unit = "" }, "unit"},
		{"negative min stock", func(p *Product) { p.MinStock = -1 }, "minStock"},
		{"negative purchase price", func(p *Product) { p.PurchasePrice = decimal.NewFromInt(-5) }, "purchasePrice"},
		{"negative selling price", func(p *Product) { p.SellingPrice = decimal.NewFromInt(-5) }, "sellingPrice"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProduct("KB-0001", "Mechanical Keyboard")
			tc.mutate(p)

			err := p.Validate(ctx)
			assert.True(t, apperror.IsValidation(err))
			appErr, _ := apperror.AsAppError(err)
			assert.Equal(t, tc.field, appErr.Details["field"])
		})
	}
}

func TestIsLowStock(t *testing.T) {
	p := NewProduct("KB-0001", "Mechanical Keyboard")
	p.MinStock = 10

	assert.True(t, p.IsLowStock(10))
	assert.True(t, p.IsLowStock(3))
	assert.False(t, p.IsLowStock(11))

	// A zero threshold disables the flag entirely.
	p.MinStock = 0
	assert.False(t, p.IsLowStock(0))
}
