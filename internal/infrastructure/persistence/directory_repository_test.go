package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(setupTestDB(t))
	tenantID := uuid.New()

	serum, err := catalog.NewProduct(tenantID, "sku-001", "Vitamin C Serum", decimal.NewFromInt(25))
	require.NoError(t, err)
	balm, err := catalog.NewProduct(tenantID, "sku-002", "Lip Balm", decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, serum))
	require.NoError(t, repo.Save(ctx, balm))

	exists, err := repo.ExistsBySKU(ctx, tenantID, "SKU-001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySKU(ctx, uuid.New(), "SKU-001")
	require.NoError(t, err)
	assert.False(t, exists)

	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Filters["search"] = "Balm"
	products, total, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, balm.ID, products[0].ID)

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), serum.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormEmployeeRepository(setupTestDB(t))
	tenantID, storeID := uuid.New(), uuid.New()

	ana, err := identity.NewEmployee(tenantID, uuid.Nil, storeID, "Ana Reyes", "ana@example.com", "stylist")
	require.NoError(t, err)
	ben, err := identity.NewEmployee(tenantID, uuid.Nil, uuid.New(), "Ben Ortiz", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ana))
	require.NoError(t, repo.Save(ctx, ben))

	found, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{ana.ID, ben.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Ana Reyes", found[ana.ID].FullName)

	empty, err := repo.FindByIDs(ctx, tenantID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	filter := shared.DefaultFilter()
	filter.Filters["store_id"] = storeID
	employees, total, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, employees, 1)
	assert.Equal(t, "stylist", employees[0].RoleType)

	one, err := repo.FindByIDForTenant(ctx, tenantID, ben.ID)
	require.NoError(t, err)
	assert.Equal(t, "general", one.RoleType)
}
