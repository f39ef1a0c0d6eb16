package dto

import (
	"github.com/shopspring/decimal"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/catalogs/product"
)

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	SKU         string  `json:"sku" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	SupplierID  *string `json:"supplierId"`
	Unit        string  `json:"unit"`
	MinStock    int64   `json:"minStock"`

	// Prices arrive as strings to avoid float rounding on the wire.
	PurchasePrice *string `json:"purchasePrice"`
	SellingPrice  *string `json:"sellingPrice"`

	ImageURL *string `json:"imageUrl"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	p := product.NewProduct(r.SKU, r.Name)
	p.Description = r.Description
	p.ImageURL = r.ImageURL
	p.MinStock = r.MinStock
	if r.Unit != "" {
		p.Unit = r.Unit
	}

	var err error
	if p.CategoryID, err = parseOptionalID(r.CategoryID, "categoryId"); err != nil {
		return nil, err
	}
	if p.SupplierID, err = parseOptionalID(r.SupplierID, "supplierId"); err != nil {
		return nil, err
	}
	if p.PurchasePrice, err = parsePrice(r.PurchasePrice, "purchasePrice"); err != nil {
		return nil, err
	}
	if p.SellingPrice, err = parsePrice(r.SellingPrice, "sellingPrice"); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	SKU         string  `json:"sku" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	SupplierID  *string `json:"supplierId"`
	Unit        string  `json:"unit"`
	MinStock    int64   `json:"minStock"`

	PurchasePrice *string `json:"purchasePrice"`
	SellingPrice  *string `json:"sellingPrice"`

	ImageURL *string `json:"imageUrl"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	p.SKU = r.SKU
	p.Name = r.Name
	p.Description = r.Description
	p.ImageURL = r.ImageURL
	p.MinStock = r.MinStock
	if r.Unit != "" {
		p.Unit = r.Unit
	}

	var err error
	if p.CategoryID, err = parseOptionalID(r.CategoryID, "categoryId"); err != nil {
		return err
	}
	if p.SupplierID, err = parseOptionalID(r.SupplierID, "supplierId"); err != nil {
		return err
	}
	if p.PurchasePrice, err = parsePrice(r.PurchasePrice, "purchasePrice"); err != nil {
		return err
	}
	if p.SellingPrice, err = parsePrice(r.SellingPrice, "sellingPrice"); err != nil {
		return err
	}
	return nil
}

func parseOptionalID(s *string, field string) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := id.Parse(*s)
	if err != nil {
		return nil, apperror.NewValidation("invalid id").WithDetail("field", field)
	}
	return &parsed, nil
}

func parsePrice(s *string, field string) (decimal.Decimal, error) {
	if s == nil || *s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.Zero, apperror.NewValidation("invalid decimal value").WithDetail("field", field)
	}
	if d.IsNegative() {
		return decimal.Zero, apperror.NewValidation("price cannot be negative").WithDetail("field", field)
	}
	return d, nil
}
