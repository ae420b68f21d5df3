package persistence

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/realtime"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// countersSQL aggregates all dashboard counters in one round trip
const countersSQL = `
SELECT
	(SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE tenant_id = @tenant AND status = @completed AND completed_at >= @day_start) AS today_sales,
	(SELECT COUNT(*) FROM employee_presence
		WHERE tenant_id = @tenant AND is_online = @yes) AS active_employees,
	(SELECT COUNT(*) FROM approval_requests
		WHERE tenant_id = @tenant AND status = @pending) AS pending_approvals,
	(SELECT COUNT(*) FROM stock_alerts
		WHERE tenant_id = @tenant AND is_resolved = @no) AS low_stock_alerts,
	(SELECT COALESCE(SUM(commission_amount), 0) FROM commission_payments
		WHERE tenant_id = @tenant AND is_paid = @no) AS pending_commission_total`

// GormCounterSource implements realtime.CounterSource with a single query
type GormCounterSource struct {
	db *gorm.DB
}

// NewGormCounterSource creates a new GormCounterSource
func NewGormCounterSource(db *gorm.DB) *GormCounterSource {
	return &GormCounterSource{db: db}
}

// LoadCounters aggregates counters for the day starting at dayStart
func (s *GormCounterSource) LoadCounters(ctx context.Context, tenantID uuid.UUID, dayStart time.Time) (realtime.Counters, error) {
	var row struct {
		TodaySales             decimal.Decimal
		ActiveEmployees        int64
		PendingApprovals       int64
		LowStockAlerts         int64
		PendingCommissionTotal decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Raw(countersSQL, map[string]any{
		"tenant":    tenantID,
		"completed": sales.OrderStatusCompleted,
		"day_start": dayStart.UTC(),
		"pending":   "pending",
		"yes":       true,
		"no":        false,
	}).Scan(&row).Error; err != nil {
		return realtime.Counters{}, err
	}

	return realtime.Counters{
		TodaySales:             row.TodaySales,
		ActiveEmployees:        row.ActiveEmployees,
		PendingApprovals:       row.PendingApprovals,
		LowStockAlerts:         row.LowStockAlerts,
		PendingCommissionTotal: row.PendingCommissionTotal,
	}, nil
}

// Ensure GormCounterSource implements realtime.CounterSource
var _ realtime.CounterSource = (*GormCounterSource)(nil)
