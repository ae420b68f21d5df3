package reconciliation

import (
	"fmt"
	"sort"
	"time"

	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportStatus is the review workflow state of a report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusFlagged  ReportStatus = "flagged"
)

// IsValid checks if the status is a valid ReportStatus
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusApproved, ReportStatusFlagged:
		return true
	}
	return false
}

// DiscrepancyType classifies a discrepancy line
type DiscrepancyType string

const (
	DiscrepancyCashVariance DiscrepancyType = "cash_variance"
	DiscrepancyInventory    DiscrepancyType = "inventory"
)

// Discrepancy is one reason a report needs attention
type Discrepancy struct {
	Type        DiscrepancyType `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// InventoryDiscrepancy is a stock mismatch line. Reports carry the list but
// nothing fills it yet.
type InventoryDiscrepancy struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Expected    int       `json:"expected"`
	Counted     int       `json:"counted"`
}

// TopProduct is one row of the best sellers list
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Thresholds tunes report building
type Thresholds struct {
	// CashVariance flags a report when |variance| is strictly greater
	CashVariance decimal.Decimal
	// TopProducts caps the best sellers list
	TopProducts int
}

// DefaultThresholds returns the stock report settings
func DefaultThresholds() Thresholds {
	return Thresholds{
		CashVariance: decimal.NewFromInt(10),
		TopProducts:  5,
	}
}

// Report is a daily snapshot of a store's takings and drawer
type Report struct {
	shared.TenantAggregateRoot
	StoreID                uuid.UUID              `json:"store_id"`
	ReportDate             time.Time              `json:"report_date"`
	TotalSales             decimal.Decimal        `json:"total_sales"`
	CashSales              decimal.Decimal        `json:"cash_sales"`
	CardSales              decimal.Decimal        `json:"card_sales"`
	TransactionCount       int                    `json:"transaction_count"`
	ItemsSold              int                    `json:"items_sold"`
	TopProducts            []TopProduct           `json:"top_products"`
	TillSessionID          *uuid.UUID             `json:"till_session_id"`
	OpeningCash            decimal.Decimal        `json:"opening_cash"`
	ExpectedCash           decimal.Decimal        `json:"expected_cash"`
	ClosingCash            decimal.Decimal        `json:"closing_cash"`
	CashVariance           decimal.Decimal        `json:"cash_variance"`
	Discrepancies          []Discrepancy          `json:"discrepancies"`
	InventoryDiscrepancies []InventoryDiscrepancy `json:"inventory_discrepancies"`
	Status                 ReportStatus           `json:"status"`
	Notes                  string                 `json:"notes"`
	GeneratedBy            uuid.UUID              `json:"generated_by"`
}

// BuildInput is everything read from storage for one store-day
type BuildInput struct {
	TenantID    uuid.UUID
	StoreID     uuid.UUID
	Date        time.Time
	Orders      []sales.Order
	TillSession *till.TillSession
	GeneratedBy uuid.UUID
}

// ReportDay truncates t to its UTC calendar day
func ReportDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Build aggregates a day's completed orders and till session into a pending
// report, flagging it when the drawer variance exceeds the threshold.
func Build(in BuildInput, th Thresholds) (*Report, error) {
	if in.StoreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}

	r := &Report{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(in.TenantID),
		StoreID:                in.StoreID,
		ReportDate:             ReportDay(in.Date),
		TotalSales:             decimal.Zero,
		CashSales:              decimal.Zero,
		CardSales:              decimal.Zero,
		OpeningCash:            decimal.Zero,
		ExpectedCash:           decimal.Zero,
		ClosingCash:            decimal.Zero,
		CashVariance:           decimal.Zero,
		TopProducts:            make([]TopProduct, 0),
		Discrepancies:          make([]Discrepancy, 0),
		InventoryDiscrepancies: make([]InventoryDiscrepancy, 0),
		Status:                 ReportStatusPending,
		GeneratedBy:            in.GeneratedBy,
	}

	products := make(map[uuid.UUID]*TopProduct)
	for _, o := range in.Orders {
		if o.Status != sales.OrderStatusCompleted {
			continue
		}
		r.TotalSales = r.TotalSales.Add(o.TotalAmount)
		r.CashSales = r.CashSales.Add(o.CashAmount)
		r.CardSales = r.CardSales.Add(o.CardAmount)
		r.TransactionCount++
		for _, item := range o.Items {
			r.ItemsSold += item.Quantity
			p, ok := products[item.ProductID]
			if !ok {
				p = &TopProduct{ProductID: item.ProductID, ProductName: item.ProductName, Revenue: decimal.Zero}
				products[item.ProductID] = p
			}
			p.Quantity += item.Quantity
			p.Revenue = p.Revenue.Add(item.Subtotal)
		}
	}
	r.TopProducts = topProducts(products, th.TopProducts)

	if s := in.TillSession; s != nil {
		id := s.ID
		r.TillSessionID = &id
		r.OpeningCash = s.OpeningCash
		r.ExpectedCash = s.ExpectedCash()
		if s.ClosingCash != nil {
			r.ClosingCash = *s.ClosingCash
		}
		if s.CashVariance != nil {
			r.CashVariance = *s.CashVariance
		}
	}

	r.detectDiscrepancies(th)

	return r, nil
}

func topProducts(products map[uuid.UUID]*TopProduct, limit int) []TopProduct {
	list := make([]TopProduct, 0, len(products))
	for _, p := range products {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Quantity != list[j].Quantity {
			return list[i].Quantity > list[j].Quantity
		}
		if !list[i].Revenue.Equal(list[j].Revenue) {
			return list[i].Revenue.GreaterThan(list[j].Revenue)
		}
		return list[i].ProductName < list[j].ProductName
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (r *Report) detectDiscrepancies(th Thresholds) {
	if !till.ExceedsThreshold(r.CashVariance, th.CashVariance) {
		return
	}
	r.Discrepancies = append(r.Discrepancies, Discrepancy{
		Type:        DiscrepancyCashVariance,
		Description: fmt.Sprintf("Cash variance of %s exceeds %s", r.CashVariance.StringFixed(2), th.CashVariance.StringFixed(2)),
		Amount:      r.CashVariance,
	})
	r.Status = ReportStatusFlagged
}

// IsFlagged reports whether discrepancy detection flagged the report
func (r *Report) IsFlagged() bool {
	return len(r.Discrepancies) > 0
}

// Finalize applies the operator's status and notes before saving. A flagged
// report stays flagged whatever status was chosen.
func (r *Report) Finalize(status ReportStatus, notes string) error {
	if status == "" {
		status = ReportStatusPending
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Report status %q is not valid", status))
	}
	r.Notes = notes
	if r.IsFlagged() {
		r.Status = ReportStatusFlagged
	} else {
		r.Status = status
	}
	r.AddDomainEvent(NewReportSavedEvent(r))
	return nil
}
