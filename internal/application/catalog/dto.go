package catalog

import (
	"time"

	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest adds a product to the catalog
type CreateProductRequest struct {
	SKU        string          `json:"sku" binding:"required,max=50"`
	Name       string          `json:"name" binding:"required,max=200"`
	Price      decimal.Decimal `json:"price"`
	LowStockAt int             `json:"low_stock_at" binding:"omitempty,min=0"`
}

// UpdateProductRequest changes a product
type UpdateProductRequest struct {
	Name     string           `json:"name" binding:"omitempty,max=200"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"is_active"`
}

// ProductListFilter is the list query for products
type ProductListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}

func (f ProductListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.Search != "" {
		filter.Filters = map[string]interface{}{"search": f.Search}
	}
	return filter
}

// ProductResponse is the API view of a product
type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	LowStockAt int             `json:"low_stock_at"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// ToProductResponse converts a domain Product to its response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		SKU:        p.SKU,
		Name:       p.Name,
		Price:      p.Price,
		LowStockAt: p.LowStockAt,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Version:    p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
