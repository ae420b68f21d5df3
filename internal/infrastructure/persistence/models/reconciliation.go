package models

import (
	"time"

	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationReportModel is an insert-only daily report snapshot.
// List-valued sections are stored as JSON documents.
type ReconciliationReportModel struct {
	TenantAggregateModel
	StoreID                uuid.UUID                             `gorm:"type:uuid;not null;index:idx_recon_store_date,priority:1"`
	ReportDate             time.Time                             `gorm:"type:date;not null;index:idx_recon_store_date,priority:2"`
	TotalSales             decimal.Decimal                       `gorm:"type:decimal(18,4);not null;default:0"`
	CashSales              decimal.Decimal                       `gorm:"type:decimal(18,4);not null;default:0"`
	CardSales              decimal.Decimal                       `gorm:"type:decimal(18,4);not null;default:0"`
	TransactionCount       int                                   `gorm:"not null;default:0"`
	ItemsSold              int                                   `gorm:"not null;default:0"`
	TopProducts            []reconciliation.TopProduct           `gorm:"type:jsonb;serializer:json"`
	TillSessionID          *uuid.UUID                            `gorm:"type:uuid"`
	OpeningCash            decimal.Decimal                       `gorm:"type:decimal(18,4);not null;default:0"`
	ExpectedCash           decimal.Decimal                       `gorm:"type:decimal(18,4);not null;default:0"`
	ClosingCash            decimal.Decimal                       `gorm:"type:decimal(18,4);not null;default:0"`
	CashVariance           decimal.Decimal                       `gorm:"type:decimal(18,4);not null;default:0"`
	Discrepancies          []reconciliation.Discrepancy          `gorm:"type:jsonb;serializer:json"`
	InventoryDiscrepancies []reconciliation.InventoryDiscrepancy `gorm:"type:jsonb;serializer:json"`
	Status                 reconciliation.ReportStatus           `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes                  string                                `gorm:"type:text"`
	GeneratedBy            uuid.UUID                             `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ReconciliationReportModel) TableName() string {
	return "reconciliation_reports"
}

// ToDomain converts the persistence model to a domain Report
func (m *ReconciliationReportModel) ToDomain() *reconciliation.Report {
	r := &reconciliation.Report{
		TenantAggregateRoot:    m.ToTenantAggregateRoot(),
		StoreID:                m.StoreID,
		ReportDate:             reconciliation.ReportDay(m.ReportDate),
		TotalSales:             m.TotalSales,
		CashSales:              m.CashSales,
		CardSales:              m.CardSales,
		TransactionCount:       m.TransactionCount,
		ItemsSold:              m.ItemsSold,
		TopProducts:            m.TopProducts,
		TillSessionID:          m.TillSessionID,
		OpeningCash:            m.OpeningCash,
		ExpectedCash:           m.ExpectedCash,
		ClosingCash:            m.ClosingCash,
		CashVariance:           m.CashVariance,
		Discrepancies:          m.Discrepancies,
		InventoryDiscrepancies: m.InventoryDiscrepancies,
		Status:                 m.Status,
		Notes:                  m.Notes,
		GeneratedBy:            m.GeneratedBy,
	}
	if r.TopProducts == nil {
		r.TopProducts = []reconciliation.TopProduct{}
	}
	if r.Discrepancies == nil {
		r.Discrepancies = []reconciliation.Discrepancy{}
	}
	if r.InventoryDiscrepancies == nil {
		r.InventoryDiscrepancies = []reconciliation.InventoryDiscrepancy{}
	}
	return r
}

// FromDomain populates the persistence model from a domain Report
func (m *ReconciliationReportModel) FromDomain(r *reconciliation.Report) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.StoreID = r.StoreID
	m.ReportDate = reconciliation.ReportDay(r.ReportDate)
	m.TotalSales = r.TotalSales
	m.CashSales = r.CashSales
	m.CardSales = r.CardSales
	m.TransactionCount = r.TransactionCount
	m.ItemsSold = r.ItemsSold
	m.TopProducts = r.TopProducts
	m.TillSessionID = r.TillSessionID
	m.OpeningCash = r.OpeningCash
	m.ExpectedCash = r.ExpectedCash
	m.ClosingCash = r.ClosingCash
	m.CashVariance = r.CashVariance
	m.Discrepancies = r.Discrepancies
	m.InventoryDiscrepancies = r.InventoryDiscrepancies
	m.Status = r.Status
	m.Notes = r.Notes
	m.GeneratedBy = r.GeneratedBy
}
