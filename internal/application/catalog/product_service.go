// Package catalog manages the sellable product list.
package catalog

import (
	"context"

	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NameCache drops cached display names after a rename
type NameCache interface {
	InvalidateProduct(ctx context.Context, tenantID, productID uuid.UUID)
}

// ProductService handles product operations
type ProductService struct {
	repo      catalog.ProductRepository
	nameCache NameCache
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{repo: repo, logger: logger}
}

// SetNameCache sets the cache invalidated when names change
func (s *ProductService) SetNameCache(c NameCache) {
	s.nameCache = c
}

// Create adds a product. SKUs are unique per tenant.
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	product.LowStockAt = req.LowStockAt

	exists, err := s.repo.ExistsBySKU(ctx, tenantID, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update changes a product's name, price or availability
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := product.UpdateDetails(req.Name, req.Price); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		product.SetActive(*req.IsActive)
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	if s.nameCache != nil {
		s.nameCache.InvalidateProduct(ctx, tenantID, id)
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	products, total, err := s.repo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}
