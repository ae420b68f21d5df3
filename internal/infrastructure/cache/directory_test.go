package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Employee, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *mockEmployeeRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]identity.Employee, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).(map[uuid.UUID]identity.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) Save(ctx context.Context, e *identity.Employee) error {
	return m.Called(ctx, e).Error(0)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepo) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

// memoryStore is a NameStore standing in for Redis
type memoryStore struct {
	data map[string]string
	sets int
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	name, ok := s.data[key]
	return name, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, name string, _ time.Duration) error {
	s.data[key] = name
	s.sets++
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func TestDirectory_EmployeeName_LoadsOnceThenCaches(t *testing.T) {
	ctx := context.Background()
	tenantID, storeID := uuid.New(), uuid.New()
	employee, err := identity.NewEmployee(tenantID, uuid.Nil, storeID, "Ana Reyes", "", "")
	require.NoError(t, err)

	employees := new(mockEmployeeRepo)
	employees.On("FindByIDForTenant", ctx, tenantID, employee.ID).Return(employee, nil).Once()

	l2 := &memoryStore{data: map[string]string{}}
	dir := NewDirectory(employees, new(mockProductRepo), WithL2(l2))
	defer dir.Close()

	for i := 0; i < 3; i++ {
		name, err := dir.EmployeeName(ctx, tenantID, employee.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Reyes", name)
	}

	employees.AssertExpectations(t)
	assert.Equal(t, 1, l2.sets)
}

func TestDirectory_ProductName_ReadsThroughL2(t *testing.T) {
	ctx := context.Background()
	tenantID, productID := uuid.New(), uuid.New()

	l2 := &memoryStore{data: map[string]string{
		"product:" + tenantID.String() + ":" + productID.String(): "Vitamin C Serum",
	}}
	products := new(mockProductRepo)
	dir := NewDirectory(new(mockEmployeeRepo), products, WithL2(l2))
	defer dir.Close()

	name, err := dir.ProductName(ctx, tenantID, productID)
	require.NoError(t, err)
	assert.Equal(t, "Vitamin C Serum", name)
	products.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestDirectory_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	tenantID, productID := uuid.New(), uuid.New()

	products := new(mockProductRepo)
	products.On("FindByIDForTenant", ctx, tenantID, productID).Return(nil, shared.ErrNotFound).Twice()

	dir := NewDirectory(new(mockEmployeeRepo), products)
	defer dir.Close()

	for i := 0; i < 2; i++ {
		_, err := dir.ProductName(ctx, tenantID, productID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	}
	products.AssertExpectations(t)
}

func TestDirectory_InvalidateEmployee(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employee, err := identity.NewEmployee(tenantID, uuid.Nil, uuid.New(), "Ana Reyes", "", "")
	require.NoError(t, err)
	renamed := *employee
	renamed.FullName = "Ana Reyes-Cruz"

	employees := new(mockEmployeeRepo)
	employees.On("FindByIDForTenant", ctx, tenantID, employee.ID).Return(employee, nil).Once()
	employees.On("FindByIDForTenant", ctx, tenantID, employee.ID).Return(&renamed, nil).Once()

	l2 := &memoryStore{data: map[string]string{}}
	dir := NewDirectory(employees, new(mockProductRepo), WithL2(l2))
	defer dir.Close()

	name, err := dir.EmployeeName(ctx, tenantID, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes", name)

	dir.InvalidateEmployee(ctx, tenantID, employee.ID)
	assert.Empty(t, l2.data)

	name, err = dir.EmployeeName(ctx, tenantID, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes-Cruz", name)
	employees.AssertExpectations(t)
}
