package commission

import (
	"time"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTierRequest adds a tier to a role's ladder
type CreateTierRequest struct {
	RoleType       string          `json:"role_type" binding:"omitempty,max=50"`
	TierName       string          `json:"tier_name" binding:"required,max=100"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// ResolveTierQuery asks where a sales amount sits on a role's ladder
type ResolveTierQuery struct {
	SalesAmount decimal.Decimal `form:"sales_amount"`
	RoleType    string          `form:"role_type"`
}

// RunBatchRequest runs a batch calculation for the period ending now
type RunBatchRequest struct {
	PeriodType commission.PeriodType `json:"period_type" binding:"required,oneof=daily weekly monthly yearly"`
}

// CalculationListFilter is the list query for calculations
type CalculationListFilter struct {
	Page       int                    `form:"page" binding:"omitempty,min=1"`
	PageSize   int                    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string                 `form:"order_by"`
	OrderDir   string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	EmployeeID *uuid.UUID             `form:"employee_id"`
	PeriodType *commission.PeriodType `form:"period_type" binding:"omitempty,oneof=daily weekly monthly yearly"`
	IsPaid     *bool                  `form:"is_paid"`
}

func (f CalculationListFilter) toDomain() commission.CalculationFilter {
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
	return commission.CalculationFilter{
		Filter:     filter,
		EmployeeID: f.EmployeeID,
		PeriodType: f.PeriodType,
		IsPaid:     f.IsPaid,
	}
}

// TierResponse is the API view of a tier
type TierResponse struct {
	ID             *uuid.UUID      `json:"id,omitempty"`
	RoleType       string          `json:"role_type"`
	TierName       string          `json:"tier_name"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       bool            `json:"is_active"`
}

// ToTierResponse converts a tier. The implicit base tier has no id.
func ToTierResponse(t *commission.Tier) TierResponse {
	resp := TierResponse{
		RoleType:       t.RoleType,
		TierName:       t.TierName,
		TargetAmount:   t.TargetAmount,
		CommissionRate: t.CommissionRate,
		IsActive:       t.IsActive,
	}
	if t.ID != uuid.Nil {
		id := t.ID
		resp.ID = &id
	}
	return resp
}

// TierProgressResponse is the API view of commission.TierProgress
type TierProgressResponse struct {
	Current         TierResponse    `json:"current"`
	Next            *TierResponse   `json:"next"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
}

// ToTierProgressResponse converts a tier progress
func ToTierProgressResponse(p commission.TierProgress) TierProgressResponse {
	resp := TierProgressResponse{
		Current:         ToTierResponse(&p.Current),
		ProgressPercent: p.ProgressPercent,
	}
	if p.Next != nil {
		next := ToTierResponse(p.Next)
		resp.Next = &next
	}
	return resp
}

// CalculationResponse is the API view of a commission calculation
type CalculationResponse struct {
	ID               uuid.UUID       `json:"id"`
	EmployeeID       uuid.UUID       `json:"employee_id"`
	PeriodType       string          `json:"period_type"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	SalesAmount      decimal.Decimal `json:"sales_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	TierName         string          `json:"tier_name"`
	IsPaid           bool            `json:"is_paid"`
	PaidAt           *time.Time      `json:"paid_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToCalculationResponse converts a calculation
func ToCalculationResponse(c *commission.Calculation) CalculationResponse {
	return CalculationResponse{
		ID:               c.ID,
		EmployeeID:       c.EmployeeID,
		PeriodType:       string(c.PeriodType),
		PeriodStart:      c.PeriodStart,
		PeriodEnd:        c.PeriodEnd,
		SalesAmount:      c.SalesAmount,
		CommissionRate:   c.CommissionRate,
		CommissionAmount: c.CommissionAmount,
		TierName:         c.TierName,
		IsPaid:           c.IsPaid,
		PaidAt:           c.PaidAt,
		CreatedAt:        c.CreatedAt,
	}
}

// BatchResult is the outcome of a batch calculation
type BatchResult struct {
	PeriodType   string                `json:"period_type"`
	PeriodStart  time.Time             `json:"period_start"`
	PeriodEnd    time.Time             `json:"period_end"`
	Calculations []CalculationResponse `json:"calculations"`
	Created      int                   `json:"created"`
	Skipped      int                   `json:"skipped"`
}

// PerformanceResponse is the API view of commission.PerformanceMetric
type PerformanceResponse struct {
	EmployeeID      uuid.UUID       `json:"employee_id"`
	MonthSales      decimal.Decimal `json:"month_sales"`
	MonthCommission decimal.Decimal `json:"month_commission"`
	YTDSales        decimal.Decimal `json:"ytd_sales"`
	YTDCommission   decimal.Decimal `json:"ytd_commission"`
	CurrentTier     TierResponse    `json:"current_tier"`
	NextTier        *TierResponse   `json:"next_tier"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
	AmountToNext    decimal.Decimal `json:"amount_to_next"`
}

// ToPerformanceResponse converts a performance metric
func ToPerformanceResponse(m commission.PerformanceMetric) PerformanceResponse {
	resp := PerformanceResponse{
		EmployeeID:      m.EmployeeID,
		MonthSales:      m.MonthSales,
		MonthCommission: m.MonthCommission,
		YTDSales:        m.YTDSales,
		YTDCommission:   m.YTDCommission,
		CurrentTier:     ToTierResponse(&m.CurrentTier),
		ProgressPercent: m.ProgressPercent,
		AmountToNext:    m.AmountToNext,
	}
	if m.NextTier != nil {
		next := ToTierResponse(m.NextTier)
		resp.NextTier = &next
	}
	return resp
}

// CommissionRateResponse is an employee's current rate
type CommissionRateResponse struct {
	EmployeeID     uuid.UUID       `json:"employee_id"`
	RoleType       string          `json:"role_type"`
	TierName       string          `json:"tier_name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	MonthSales     decimal.Decimal `json:"month_sales"`
}
