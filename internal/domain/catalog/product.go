package catalog

import (
	"strings"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Only the fields checkout and reporting read
// are modelled here.
type Product struct {
	shared.TenantAggregateRoot
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	LowStockAt int             `json:"low_stock_at"`
	IsActive   bool            `json:"is_active"`
}

// NewProduct creates an active product
func NewProduct(tenantID uuid.UUID, sku, name string, price decimal.Decimal) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		Price:               price,
		IsActive:            true,
	}, nil
}

// UpdateDetails changes the name and price. An empty name or nil price keeps
// the current value.
func (p *Product) UpdateDetails(name string, price *decimal.Decimal) error {
	if name != "" {
		if strings.TrimSpace(name) == "" {
			return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
		}
		p.Name = strings.TrimSpace(name)
	}
	if price != nil {
		if price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		p.Price = *price
	}
	p.IncrementVersion()
	return nil
}

// SetActive enables or disables the product for sale
func (p *Product) SetActive(active bool) {
	if p.IsActive == active {
		return
	}
	p.IsActive = active
	p.IncrementVersion()
}
