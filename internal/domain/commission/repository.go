package commission

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierRepository defines the interface for tier persistence
type TierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Tier, error)
	// FindActive returns active tiers ordered ascending by target amount
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Tier, error)
	Save(ctx context.Context, tier *Tier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CalculationFilter defines filtering options for calculation queries
type CalculationFilter struct {
	shared.Filter
	EmployeeID *uuid.UUID
	PeriodType *PeriodType
	IsPaid     *bool
}

// CalculationRepository defines the interface for commission_payments persistence
type CalculationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Calculation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CalculationFilter) ([]Calculation, int64, error)
	// CreateBatch inserts all calculations in one transaction
	CreateBatch(ctx context.Context, calcs []*Calculation) error
	SaveWithLock(ctx context.Context, calc *Calculation) error
	// SumCommission totals recorded commission of an employee whose period
	// starts in [from, to)
	SumCommission(ctx context.Context, tenantID, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
