package sales

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter defines filtering options for order queries
type OrderFilter struct {
	shared.Filter
	StoreID    *uuid.UUID
	EmployeeID *uuid.UUID
	Status     *OrderStatus
}

// EmployeeSales is the completed-order total of one employee in a window
type EmployeeSales struct {
	EmployeeID  uuid.UUID
	TotalAmount decimal.Decimal
	OrderCount  int64
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant finds an order with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindAllForTenant lists orders without items
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]Order, int64, error)

	// FindCompletedBetween returns a store's completed orders, items
	// included, whose completion time lies in [from, to)
	FindCompletedBetween(ctx context.Context, tenantID, storeID uuid.UUID, from, to time.Time) ([]Order, error)

	// SumCompletedByEmployee totals completed orders per employee in [from, to).
	// A nil employeeID aggregates every employee.
	SumCompletedByEmployee(ctx context.Context, tenantID uuid.UUID, employeeID *uuid.UUID, from, to time.Time) ([]EmployeeSales, error)

	// Create inserts a new order with its items
	Create(ctx context.Context, order *Order) error

	// SaveWithLock persists a status change with a version check
	SaveWithLock(ctx context.Context, order *Order) error

	// GenerateOrderNumber returns the next ORD-YYYYMMDD-##### number
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error)
}

// CheckoutRepositories are the repositories a checkout writes through.
// Inside a CheckoutScope they share one transaction.
type CheckoutRepositories interface {
	Orders() OrderRepository
	Sessions() till.SessionRepository
}

// CheckoutScope runs fn atomically. An error from fn rolls back every
// write fn made through repos.
type CheckoutScope interface {
	Execute(ctx context.Context, fn func(repos CheckoutRepositories) error) error
}
