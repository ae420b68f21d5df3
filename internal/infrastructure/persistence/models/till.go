package models

import (
	"time"

	"github.com/glowpos/backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TillSessionModel is the persistence model for a till session.
// At most one active session may exist per tenant, store and employee.
type TillSessionModel struct {
	TenantAggregateModel
	StoreID          uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_till_sessions_active,priority:1,where:status = 'active'"`
	EmployeeID       uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_till_sessions_active,priority:2,where:status = 'active'"`
	OpeningCash      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	ClosingCash      *decimal.Decimal   `gorm:"type:decimal(18,4)"`
	TotalSales       decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCashSales   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCardSales   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCashDrops   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TransactionCount int                `gorm:"not null;default:0"`
	CashVariance     *decimal.Decimal   `gorm:"type:decimal(18,4)"`
	Status           till.SessionStatus `gorm:"type:varchar(20);not null;default:'active';uniqueIndex:idx_till_sessions_active,priority:3,where:status = 'active'"`
	SessionStart     time.Time          `gorm:"not null;index"`
	SessionEnd       *time.Time
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TillSessionModel) TableName() string {
	return "till_sessions"
}

// ToDomain converts the persistence model to a domain TillSession
func (m *TillSessionModel) ToDomain() *till.TillSession {
	return &till.TillSession{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		StoreID:             m.StoreID,
		EmployeeID:          m.EmployeeID,
		OpeningCash:         m.OpeningCash,
		ClosingCash:         m.ClosingCash,
		TotalSales:          m.TotalSales,
		TotalCashSales:      m.TotalCashSales,
		TotalCardSales:      m.TotalCardSales,
		TotalCashDrops:      m.TotalCashDrops,
		TransactionCount:    m.TransactionCount,
		CashVariance:        m.CashVariance,
		Status:              m.Status,
		SessionStart:        m.SessionStart,
		SessionEnd:          m.SessionEnd,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain TillSession
func (m *TillSessionModel) FromDomain(s *till.TillSession) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.StoreID = s.StoreID
	m.EmployeeID = s.EmployeeID
	m.OpeningCash = s.OpeningCash
	m.ClosingCash = s.ClosingCash
	m.TotalSales = s.TotalSales
	m.TotalCashSales = s.TotalCashSales
	m.TotalCardSales = s.TotalCardSales
	m.TotalCashDrops = s.TotalCashDrops
	m.TransactionCount = s.TransactionCount
	m.CashVariance = s.CashVariance
	m.Status = s.Status
	m.SessionStart = s.SessionStart.UTC()
	m.SessionEnd = utcPtr(s.SessionEnd)
	m.Notes = s.Notes
}

// CashOperationModel is an append-only drawer log row
type CashOperationModel struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	SessionID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	OperationType  till.OperationType `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	ExpectedAmount *decimal.Decimal   `gorm:"type:decimal(18,4)"`
	Variance       *decimal.Decimal   `gorm:"type:decimal(18,4)"`
	Notes          string             `gorm:"type:text"`
	PerformedBy    uuid.UUID          `gorm:"type:uuid;not null"`
	CreatedAt      time.Time          `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CashOperationModel) TableName() string {
	return "cash_drawer_operations"
}

// ToDomain converts the persistence model to a domain CashOperation
func (m *CashOperationModel) ToDomain() till.CashOperation {
	return till.CashOperation{
		ID:             m.ID,
		TenantID:       m.TenantID,
		SessionID:      m.SessionID,
		Type:           m.OperationType,
		Amount:         m.Amount,
		ExpectedAmount: m.ExpectedAmount,
		Variance:       m.Variance,
		Notes:          m.Notes,
		PerformedBy:    m.PerformedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// CashOperationModelFromDomain creates a persistence model from a domain CashOperation
func CashOperationModelFromDomain(op *till.CashOperation) *CashOperationModel {
	return &CashOperationModel{
		ID:             op.ID,
		TenantID:       op.TenantID,
		SessionID:      op.SessionID,
		OperationType:  op.Type,
		Amount:         op.Amount,
		ExpectedAmount: op.ExpectedAmount,
		Variance:       op.Variance,
		Notes:          op.Notes,
		PerformedBy:    op.PerformedBy,
		CreatedAt:      op.CreatedAt.UTC(),
	}
}
