package reconciliation

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeReportSaved is raised when a report snapshot is stored
const EventTypeReportSaved = "ReconciliationReportSaved"

// ReportSavedEvent carries the headline figures of a saved report
type ReportSavedEvent struct {
	shared.BaseDomainEvent
	ReportID     uuid.UUID       `json:"report_id"`
	StoreID      uuid.UUID       `json:"store_id"`
	ReportDate   time.Time       `json:"report_date"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	CashVariance decimal.Decimal `json:"cash_variance"`
	Status       ReportStatus    `json:"status"`
}

// EventType returns the event type name
func (e *ReportSavedEvent) EventType() string {
	return EventTypeReportSaved
}

// NewReportSavedEvent creates a new ReportSavedEvent
func NewReportSavedEvent(r *Report) *ReportSavedEvent {
	return &ReportSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportSaved, "ReconciliationReport", r.ID, r.TenantID),
		ReportID:        r.ID,
		StoreID:         r.StoreID,
		ReportDate:      r.ReportDate,
		TotalSales:      r.TotalSales,
		CashVariance:    r.CashVariance,
		Status:          r.Status,
	}
}
