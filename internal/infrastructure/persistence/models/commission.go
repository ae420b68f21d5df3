package models

import (
	"time"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionTierModel is the persistence model for a commission tier
type CommissionTierModel struct {
	TenantAggregateModel
	RoleType       string          `gorm:"type:varchar(50);not null;index"`
	TierName       string          `gorm:"type:varchar(100);not null"`
	TargetAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(6,4);not null"`
	IsActive       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CommissionTierModel) TableName() string {
	return "commission_tiers"
}

// ToDomain converts the persistence model to a domain Tier
func (m *CommissionTierModel) ToDomain() *commission.Tier {
	return &commission.Tier{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		RoleType:            m.RoleType,
		TierName:            m.TierName,
		TargetAmount:        m.TargetAmount,
		CommissionRate:      m.CommissionRate,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Tier
func (m *CommissionTierModel) FromDomain(t *commission.Tier) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.RoleType = t.RoleType
	m.TierName = t.TierName
	m.TargetAmount = t.TargetAmount
	m.CommissionRate = t.CommissionRate
	m.IsActive = t.IsActive
}

// CommissionPaymentModel stores one commission calculation
type CommissionPaymentModel struct {
	TenantAggregateModel
	EmployeeID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	PeriodType       commission.PeriodType `gorm:"type:varchar(10);not null"`
	PeriodStart      time.Time             `gorm:"not null;index"`
	PeriodEnd        time.Time             `gorm:"not null"`
	SalesAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	CommissionRate   decimal.Decimal       `gorm:"type:decimal(6,4);not null"`
	CommissionAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TierName         string                `gorm:"type:varchar(100);not null"`
	IsPaid           bool                  `gorm:"not null;default:false;index"`
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (CommissionPaymentModel) TableName() string {
	return "commission_payments"
}

// ToDomain converts the persistence model to a domain Calculation
func (m *CommissionPaymentModel) ToDomain() *commission.Calculation {
	return &commission.Calculation{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		EmployeeID:          m.EmployeeID,
		PeriodType:          m.PeriodType,
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		SalesAmount:         m.SalesAmount,
		CommissionRate:      m.CommissionRate,
		CommissionAmount:    m.CommissionAmount,
		TierName:            m.TierName,
		IsPaid:              m.IsPaid,
		PaidAt:              m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Calculation
func (m *CommissionPaymentModel) FromDomain(c *commission.Calculation) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.EmployeeID = c.EmployeeID
	m.PeriodType = c.PeriodType
	m.PeriodStart = c.PeriodStart.UTC()
	m.PeriodEnd = c.PeriodEnd.UTC()
	m.SalesAmount = c.SalesAmount
	m.CommissionRate = c.CommissionRate
	m.CommissionAmount = c.CommissionAmount
	m.TierName = c.TierName
	m.IsPaid = c.IsPaid
	m.PaidAt = utcPtr(c.PaidAt)
}
