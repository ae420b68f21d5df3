package commission

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Calculation is the commission owed to one employee for one period.
// After creation only the paid flag changes.
type Calculation struct {
	shared.TenantAggregateRoot
	EmployeeID       uuid.UUID       `json:"employee_id"`
	PeriodType       PeriodType      `json:"period_type"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	SalesAmount      decimal.Decimal `json:"sales_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	TierName         string          `json:"tier_name"`
	IsPaid           bool            `json:"is_paid"`
	PaidAt           *time.Time      `json:"paid_at"`
}

// NewCalculation prices an employee's period sales against their tier.
// It returns nil when the resulting commission is not positive.
func NewCalculation(tenantID, employeeID uuid.UUID, period Period, salesAmount decimal.Decimal, tier Tier) *Calculation {
	amount := CalculateCommission(salesAmount, tier.CommissionRate)
	if !amount.IsPositive() {
		return nil
	}

	calc := &Calculation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          employeeID,
		PeriodType:          period.Type,
		PeriodStart:         period.Start,
		PeriodEnd:           period.End,
		SalesAmount:         salesAmount,
		CommissionRate:      tier.CommissionRate,
		CommissionAmount:    amount,
		TierName:            tier.TierName,
	}
	calc.AddDomainEvent(NewCommissionCalculatedEvent(calc))

	return calc
}

// MarkPaid flags the commission as paid. Repeating it is harmless and keeps
// the first payment time.
func (c *Calculation) MarkPaid() {
	if c.IsPaid {
		return
	}
	now := time.Now()
	c.IsPaid = true
	c.PaidAt = &now
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionPaidEvent(c))
}

// PerformanceMetric is a derived view of an employee's standing. It is
// recomputed on every request and never stored.
type PerformanceMetric struct {
	EmployeeID      uuid.UUID       `json:"employee_id"`
	MonthSales      decimal.Decimal `json:"month_sales"`
	MonthCommission decimal.Decimal `json:"month_commission"`
	YTDSales        decimal.Decimal `json:"ytd_sales"`
	YTDCommission   decimal.Decimal `json:"ytd_commission"`
	CurrentTier     Tier            `json:"current_tier"`
	NextTier        *Tier           `json:"next_tier,omitempty"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
	AmountToNext    decimal.Decimal `json:"amount_to_next"`
}

// NewPerformanceMetric assembles the metric from month and year figures
func NewPerformanceMetric(employeeID uuid.UUID, monthSales, ytdSales, ytdCommission decimal.Decimal, progress TierProgress) PerformanceMetric {
	metric := PerformanceMetric{
		EmployeeID:      employeeID,
		MonthSales:      monthSales,
		MonthCommission: CalculateCommission(monthSales, progress.Current.CommissionRate),
		YTDSales:        ytdSales,
		YTDCommission:   ytdCommission,
		CurrentTier:     progress.Current,
		NextTier:        progress.Next,
		ProgressPercent: progress.ProgressPercent,
		AmountToNext:    decimal.Zero,
	}
	if progress.Next != nil {
		metric.AmountToNext = progress.Next.TargetAmount.Sub(monthSales)
	}
	return metric
}
