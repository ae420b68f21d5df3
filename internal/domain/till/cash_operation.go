package till

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType is the kind of drawer activity logged against a session
type OperationType string

const (
	OperationTypeOpen      OperationType = "open"
	OperationTypeClose     OperationType = "close"
	OperationTypeCashDrop  OperationType = "cash_drop"
	OperationTypeTillCount OperationType = "till_count"
	OperationTypeNoSale    OperationType = "no_sale"
)

// IsValid checks if the type is a valid OperationType
func (t OperationType) IsValid() bool {
	switch t {
	case OperationTypeOpen, OperationTypeClose, OperationTypeCashDrop,
		OperationTypeTillCount, OperationTypeNoSale:
		return true
	}
	return false
}

// CashOperation is an append-only drawer log entry. It is never updated
// after creation.
type CashOperation struct {
	ID             uuid.UUID        `json:"id"`
	TenantID       uuid.UUID        `json:"tenant_id"`
	SessionID      uuid.UUID        `json:"session_id"`
	Type           OperationType    `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
	Variance       *decimal.Decimal `json:"variance,omitempty"`
	Notes          string           `json:"notes"`
	PerformedBy    uuid.UUID        `json:"performed_by"`
	CreatedAt      time.Time        `json:"created_at"`
}

func newCashOperation(s *TillSession, opType OperationType, amount decimal.Decimal, performedBy uuid.UUID, notes string) *CashOperation {
	return &CashOperation{
		ID:          uuid.New(),
		TenantID:    s.TenantID,
		SessionID:   s.ID,
		Type:        opType,
		Amount:      amount,
		Notes:       notes,
		PerformedBy: performedBy,
		CreatedAt:   time.Now(),
	}
}
