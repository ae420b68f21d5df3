package commission

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTierRepository is a mock implementation of commission.TierRepository
type MockTierRepository struct {
	mock.Mock
}

func (m *MockTierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.Tier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Tier), args.Error(1)
}

func (m *MockTierRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]commission.Tier, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]commission.Tier), args.Error(1)
}

func (m *MockTierRepository) Save(ctx context.Context, tier *commission.Tier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockTierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCalculationRepository is a mock implementation of commission.CalculationRepository
type MockCalculationRepository struct {
	mock.Mock
}

func (m *MockCalculationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.Calculation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Calculation), args.Error(1)
}

func (m *MockCalculationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter commission.CalculationFilter) ([]commission.Calculation, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]commission.Calculation), args.Get(1).(int64), args.Error(2)
}

func (m *MockCalculationRepository) CreateBatch(ctx context.Context, calcs []*commission.Calculation) error {
	args := m.Called(ctx, calcs)
	return args.Error(0)
}

func (m *MockCalculationRepository) SaveWithLock(ctx context.Context, calc *commission.Calculation) error {
	args := m.Called(ctx, calc)
	return args.Error(0)
}

func (m *MockCalculationRepository) SumCommission(ctx context.Context, tenantID, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, employeeID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockOrderRepository is a mock implementation of sales.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.OrderFilter) ([]sales.Order, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindCompletedBetween(ctx context.Context, tenantID, storeID uuid.UUID, from, to time.Time) ([]sales.Order, error) {
	args := m.Called(ctx, tenantID, storeID, from, to)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) SumCompletedByEmployee(ctx context.Context, tenantID uuid.UUID, employeeID *uuid.UUID, from, to time.Time) ([]sales.EmployeeSales, error) {
	args := m.Called(ctx, tenantID, employeeID, from, to)
	return args.Get(0).([]sales.EmployeeSales), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, tenantID, day)
	return args.String(0), args.Error(1)
}

// MockEmployeeRepository is a mock implementation of identity.EmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Employee, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *MockEmployeeRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]identity.Employee, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).(map[uuid.UUID]identity.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, employee *identity.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
