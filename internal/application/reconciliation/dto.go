package reconciliation

import (
	"time"

	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used by report requests
const DateLayout = "2006-01-02"

// PreviewQuery asks for an unsaved report
type PreviewQuery struct {
	StoreID uuid.UUID `form:"store_id" binding:"required"`
	Date    string    `form:"date" binding:"required,datetime=2006-01-02"`
}

// SaveReportRequest stores a report snapshot
type SaveReportRequest struct {
	StoreID uuid.UUID                   `json:"store_id" binding:"required"`
	Date    string                      `json:"date" binding:"required,datetime=2006-01-02"`
	Status  reconciliation.ReportStatus `json:"status"`
	Notes   string                      `json:"notes" binding:"max=2000"`
}

// ReportListFilter is the list query for saved reports
type ReportListFilter struct {
	Page     int                          `form:"page" binding:"omitempty,min=1"`
	PageSize int                          `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string                       `form:"order_by"`
	OrderDir string                       `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	StoreID  *uuid.UUID                   `form:"store_id"`
	Status   *reconciliation.ReportStatus `form:"status" binding:"omitempty,oneof=pending reviewed approved flagged"`
	From     string                       `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string                       `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// toDomain converts the list query. From and To are inclusive days.
func (f ReportListFilter) toDomain() (reconciliation.ReportFilter, error) {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.From != "" {
		from, err := parseDay(f.From)
		if err != nil {
			return reconciliation.ReportFilter{}, err
		}
		filter.From = &from
	}
	if f.To != "" {
		to, err := parseDay(f.To)
		if err != nil {
			return reconciliation.ReportFilter{}, err
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	return reconciliation.ReportFilter{
		Filter:  filter,
		StoreID: f.StoreID,
		Status:  f.Status,
	}, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// ReportResponse is the API view of a reconciliation report
type ReportResponse struct {
	ID                     uuid.UUID                             `json:"id"`
	StoreID                uuid.UUID                             `json:"store_id"`
	ReportDate             string                                `json:"report_date"`
	TotalSales             decimal.Decimal                       `json:"total_sales"`
	CashSales              decimal.Decimal                       `json:"cash_sales"`
	CardSales              decimal.Decimal                       `json:"card_sales"`
	TransactionCount       int                                   `json:"transaction_count"`
	ItemsSold              int                                   `json:"items_sold"`
	TopProducts            []reconciliation.TopProduct           `json:"top_products"`
	TillSessionID          *uuid.UUID                            `json:"till_session_id"`
	OpeningCash            decimal.Decimal                       `json:"opening_cash"`
	ExpectedCash           decimal.Decimal                       `json:"expected_cash"`
	ClosingCash            decimal.Decimal                       `json:"closing_cash"`
	CashVariance           decimal.Decimal                       `json:"cash_variance"`
	Discrepancies          []reconciliation.Discrepancy          `json:"discrepancies"`
	InventoryDiscrepancies []reconciliation.InventoryDiscrepancy `json:"inventory_discrepancies"`
	Status                 string                                `json:"status"`
	Notes                  string                                `json:"notes"`
	GeneratedBy            uuid.UUID                             `json:"generated_by"`
	CreatedAt              time.Time                             `json:"created_at"`
	ArchiveKey             string                                `json:"archive_key,omitempty"`
}

// ToReportResponse converts a domain report to its API view
func ToReportResponse(r *reconciliation.Report) ReportResponse {
	return ReportResponse{
		ID:                     r.ID,
		StoreID:                r.StoreID,
		ReportDate:             r.ReportDate.Format(DateLayout),
		TotalSales:             r.TotalSales,
		CashSales:              r.CashSales,
		CardSales:              r.CardSales,
		TransactionCount:       r.TransactionCount,
		ItemsSold:              r.ItemsSold,
		TopProducts:            r.TopProducts,
		TillSessionID:          r.TillSessionID,
		OpeningCash:            r.OpeningCash,
		ExpectedCash:           r.ExpectedCash,
		ClosingCash:            r.ClosingCash,
		CashVariance:           r.CashVariance,
		Discrepancies:          r.Discrepancies,
		InventoryDiscrepancies: r.InventoryDiscrepancies,
		Status:                 string(r.Status),
		Notes:                  r.Notes,
		GeneratedBy:            r.GeneratedBy,
		CreatedAt:              r.CreatedAt,
	}
}
