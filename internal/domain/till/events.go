package till

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeTillSessionOpened = "TillSessionOpened"
	EventTypeCashDropRecorded  = "CashDropRecorded"
	EventTypeTillCountRecorded = "TillCountRecorded"
	EventTypeTillSessionClosed = "TillSessionClosed"

	aggregateTypeTillSession = "TillSession"
)

// TillSessionOpenedEvent is raised when an employee opens a drawer
type TillSessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID   uuid.UUID       `json:"session_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	EmployeeID  uuid.UUID       `json:"employee_id"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
}

// EventType returns the event type name
func (e *TillSessionOpenedEvent) EventType() string {
	return EventTypeTillSessionOpened
}

// NewTillSessionOpenedEvent creates a new TillSessionOpenedEvent
func NewTillSessionOpenedEvent(s *TillSession) *TillSessionOpenedEvent {
	return &TillSessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTillSessionOpened, aggregateTypeTillSession, s.ID, s.TenantID),
		SessionID:       s.ID,
		StoreID:         s.StoreID,
		EmployeeID:      s.EmployeeID,
		OpeningCash:     s.OpeningCash,
	}
}

// CashDropRecordedEvent is raised when cash leaves the drawer for the safe
type CashDropRecordedEvent struct {
	shared.BaseDomainEvent
	SessionID      uuid.UUID       `json:"session_id"`
	OperationID    uuid.UUID       `json:"operation_id"`
	Amount         decimal.Decimal `json:"amount"`
	TotalCashDrops decimal.Decimal `json:"total_cash_drops"`
}

// EventType returns the event type name
func (e *CashDropRecordedEvent) EventType() string {
	return EventTypeCashDropRecorded
}

// NewCashDropRecordedEvent creates a new CashDropRecordedEvent
func NewCashDropRecordedEvent(s *TillSession, op *CashOperation) *CashDropRecordedEvent {
	return &CashDropRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashDropRecorded, aggregateTypeTillSession, s.ID, s.TenantID),
		SessionID:       s.ID,
		OperationID:     op.ID,
		Amount:          op.Amount,
		TotalCashDrops:  s.TotalCashDrops,
	}
}

// TillCountRecordedEvent is raised for every drawer count
type TillCountRecordedEvent struct {
	shared.BaseDomainEvent
	SessionID        uuid.UUID       `json:"session_id"`
	EmployeeID       uuid.UUID       `json:"employee_id"`
	CountedAmount    decimal.Decimal `json:"counted_amount"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
	Variance         decimal.Decimal `json:"variance"`
	VarianceDetected bool            `json:"variance_detected"`
}

// EventType returns the event type name
func (e *TillCountRecordedEvent) EventType() string {
	return EventTypeTillCountRecorded
}

// NewTillCountRecordedEvent creates a new TillCountRecordedEvent
func NewTillCountRecordedEvent(s *TillSession, count *TillCount) *TillCountRecordedEvent {
	return &TillCountRecordedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTillCountRecorded, aggregateTypeTillSession, s.ID, s.TenantID),
		SessionID:        s.ID,
		EmployeeID:       s.EmployeeID,
		CountedAmount:    count.Operation.Amount,
		ExpectedCash:     count.ExpectedCash,
		Variance:         count.Variance,
		VarianceDetected: count.VarianceDetected,
	}
}

// TillSessionClosedEvent is raised when a drawer is settled
type TillSessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID    uuid.UUID       `json:"session_id"`
	StoreID      uuid.UUID       `json:"store_id"`
	EmployeeID   uuid.UUID       `json:"employee_id"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	ClosingCash  decimal.Decimal `json:"closing_cash"`
	CashVariance decimal.Decimal `json:"cash_variance"`
	ClosedAt     time.Time       `json:"closed_at"`
}

// EventType returns the event type name
func (e *TillSessionClosedEvent) EventType() string {
	return EventTypeTillSessionClosed
}

// NewTillSessionClosedEvent creates a new TillSessionClosedEvent
func NewTillSessionClosedEvent(s *TillSession) *TillSessionClosedEvent {
	evt := &TillSessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTillSessionClosed, aggregateTypeTillSession, s.ID, s.TenantID),
		SessionID:       s.ID,
		StoreID:         s.StoreID,
		EmployeeID:      s.EmployeeID,
		ExpectedCash:    s.ExpectedCash(),
	}
	if s.ClosingCash != nil {
		evt.ClosingCash = *s.ClosingCash
	}
	if s.CashVariance != nil {
		evt.CashVariance = *s.CashVariance
	}
	if s.SessionEnd != nil {
		evt.ClosedAt = *s.SessionEnd
	}
	return evt
}
