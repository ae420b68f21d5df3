package commission

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeCommissionCalculated = "CommissionCalculated"
	EventTypeCommissionPaid       = "CommissionPaid"

	aggregateTypeCalculation = "CommissionCalculation"
)

// CommissionCalculatedEvent is raised for every stored calculation
type CommissionCalculatedEvent struct {
	shared.BaseDomainEvent
	CalculationID    uuid.UUID       `json:"calculation_id"`
	EmployeeID       uuid.UUID       `json:"employee_id"`
	PeriodType       PeriodType      `json:"period_type"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	TierName         string          `json:"tier_name"`
}

// EventType returns the event type name
func (e *CommissionCalculatedEvent) EventType() string {
	return EventTypeCommissionCalculated
}

// NewCommissionCalculatedEvent creates a new CommissionCalculatedEvent
func NewCommissionCalculatedEvent(c *Calculation) *CommissionCalculatedEvent {
	return &CommissionCalculatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCommissionCalculated, aggregateTypeCalculation, c.ID, c.TenantID),
		CalculationID:    c.ID,
		EmployeeID:       c.EmployeeID,
		PeriodType:       c.PeriodType,
		CommissionAmount: c.CommissionAmount,
		TierName:         c.TierName,
	}
}

// CommissionPaidEvent is raised when a calculation is first marked paid
type CommissionPaidEvent struct {
	shared.BaseDomainEvent
	CalculationID    uuid.UUID       `json:"calculation_id"`
	EmployeeID       uuid.UUID       `json:"employee_id"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	PaidAt           time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *CommissionPaidEvent) EventType() string {
	return EventTypeCommissionPaid
}

// NewCommissionPaidEvent creates a new CommissionPaidEvent
func NewCommissionPaidEvent(c *Calculation) *CommissionPaidEvent {
	evt := &CommissionPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCommissionPaid, aggregateTypeCalculation, c.ID, c.TenantID),
		CalculationID:    c.ID,
		EmployeeID:       c.EmployeeID,
		CommissionAmount: c.CommissionAmount,
	}
	if c.PaidAt != nil {
		evt.PaidAt = *c.PaidAt
	}
	return evt
}
