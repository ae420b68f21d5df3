package realtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/realtime"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// eventDraft is a feed event before id, priority and timestamp are assigned
type eventDraft struct {
	feedType       realtime.FeedEventType
	title          string
	description    string
	amount         *decimal.Decimal
	priorityAmount decimal.Decimal
	level          string
	entityID       uuid.UUID
}

// change is the effect of one event on a tenant's dashboard
type change struct {
	event *eventDraft
	delta func(c *realtime.Counters)
}

func (c change) empty() bool {
	return c.event == nil && c.delta == nil
}

func (r *EventRelay) fromNotification(ctx context.Context, n *realtime.ChangeNotification) change {
	tenantID := n.TenantID()
	rec, old := n.Record, n.OldRecord

	switch n.Table {
	case realtime.TableOrders:
		switch n.Operation {
		case realtime.OperationInsert:
			return r.newOrder(ctx, tenantID, rec.UUID("id"), rec.UUID("employee_id"), rec.String("order_number"), rec.Decimal("total_amount"))
		case realtime.OperationUpdate:
			status := rec.String("status")
			if status == "" || status == old.String("status") {
				return change{}
			}
			total := rec.Decimal("total_amount")
			return r.orderStatus(rec.UUID("id"), rec.String("order_number"), status, total, rec.String("cancel_reason"))
		}

	case realtime.TableCommissionPayments:
		amount := rec.Decimal("commission_amount")
		switch n.Operation {
		case realtime.OperationInsert:
			ch := r.commissionCalculated(ctx, tenantID, rec.UUID("id"), rec.UUID("employee_id"), amount, rec.String("tier_name"))
			if rec.Bool("is_paid") {
				ch.delta = nil
			}
			return ch
		case realtime.OperationUpdate:
			if old.Bool("is_paid") || !rec.Bool("is_paid") {
				return change{}
			}
			return r.commissionPaid(ctx, tenantID, rec.UUID("id"), rec.UUID("employee_id"), amount)
		}

	case realtime.TableSalesGoals:
		if n.Operation != realtime.OperationUpdate {
			return change{}
		}
		target := rec.Decimal("target_amount")
		wasReached := old != nil && old.Decimal("current_amount").GreaterThanOrEqual(old.Decimal("target_amount"))
		if wasReached || rec.Decimal("current_amount").LessThan(target) {
			return change{}
		}
		name := r.employeeName(ctx, tenantID, rec.UUID("employee_id"))
		return change{event: &eventDraft{
			feedType:    realtime.FeedGoalReached,
			title:       "Goal Reached",
			description: fmt.Sprintf("%s reached %s (%s)", name, rec.String("goal_name"), money(target)),
			amount:      &target,
			entityID:    rec.UUID("id"),
		}}

	case realtime.TableStockAlerts:
		switch n.Operation {
		case realtime.OperationInsert:
			if rec.Bool("is_resolved") {
				return change{}
			}
			level := rec.String("level")
			if level == "" {
				level = "low"
			}
			product := r.productName(ctx, tenantID, rec.UUID("product_id"))
			return change{
				event: &eventDraft{
					feedType:    realtime.FeedStockAlert,
					title:       titleCase(level) + " Stock Alert",
					description: fmt.Sprintf("%s is running low: %s left", product, rec.String("quantity")),
					level:       level,
					entityID:    rec.UUID("id"),
				},
				delta: func(c *realtime.Counters) { c.LowStockAlerts++ },
			}
		case realtime.OperationUpdate:
			if old.Bool("is_resolved") || !rec.Bool("is_resolved") {
				return change{}
			}
			return change{delta: func(c *realtime.Counters) { c.LowStockAlerts = decrement(c.LowStockAlerts) }}
		}

	case realtime.TableApprovalRequests:
		switch n.Operation {
		case realtime.OperationInsert:
			if rec.String("status") != "" && rec.String("status") != "pending" {
				return change{}
			}
			name := r.employeeName(ctx, tenantID, rec.UUID("requested_by"))
			desc := fmt.Sprintf("%s requested %s approval", name, strings.ReplaceAll(rec.String("request_type"), "_", " "))
			draft := &eventDraft{
				feedType:    realtime.FeedApprovalRequest,
				title:       "Approval Request",
				description: desc,
				entityID:    rec.UUID("id"),
			}
			if _, ok := rec["amount"]; ok && rec["amount"] != nil {
				amount := rec.Decimal("amount")
				draft.amount = &amount
				draft.description = fmt.Sprintf("%s for %s", desc, money(amount))
			}
			return change{
				event: draft,
				delta: func(c *realtime.Counters) { c.PendingApprovals++ },
			}
		case realtime.OperationUpdate:
			if old.String("status") != "pending" || rec.String("status") == "pending" {
				return change{}
			}
			return change{delta: func(c *realtime.Counters) { c.PendingApprovals = decrement(c.PendingApprovals) }}
		}

	case realtime.TableEmployeePresence:
		online := rec.Bool("is_online")
		wasOnline := n.Operation == realtime.OperationUpdate && old.Bool("is_online")
		if online == wasOnline {
			return change{}
		}
		name := r.employeeName(ctx, tenantID, rec.UUID("employee_id"))
		if online {
			return change{
				event: &eventDraft{
					feedType:    realtime.FeedPresence,
					title:       "Employee Online",
					description: name + " clocked in",
					entityID:    rec.UUID("employee_id"),
				},
				delta: func(c *realtime.Counters) { c.ActiveEmployees++ },
			}
		}
		return change{
			event: &eventDraft{
				feedType:    realtime.FeedPresence,
				title:       "Employee Offline",
				description: name + " clocked out",
				entityID:    rec.UUID("employee_id"),
			},
			delta: func(c *realtime.Counters) { c.ActiveEmployees = decrement(c.ActiveEmployees) },
		}

	default:
		r.logger.Debug("Ignoring change on unwatched table", zap.String("table", n.Table))
	}
	return change{}
}

func (r *EventRelay) fromOrderCreated(ctx context.Context, e *sales.OrderCreatedEvent) change {
	return r.newOrder(ctx, e.TenantID(), e.OrderID, e.EmployeeID, e.OrderNumber, e.TotalAmount)
}

func (r *EventRelay) fromOrderCompleted(_ context.Context, e *sales.OrderCompletedEvent) change {
	return r.orderStatus(e.OrderID, e.OrderNumber, string(sales.OrderStatusCompleted), e.TotalAmount, "")
}

func (r *EventRelay) fromOrderCancelled(e *sales.OrderCancelledEvent) change {
	return r.orderStatus(e.OrderID, e.OrderNumber, string(sales.OrderStatusCancelled), decimal.Zero, e.Reason)
}

func (r *EventRelay) fromCommissionCalculated(ctx context.Context, e *commission.CommissionCalculatedEvent) change {
	return r.commissionCalculated(ctx, e.TenantID(), e.CalculationID, e.EmployeeID, e.CommissionAmount, e.TierName)
}

func (r *EventRelay) fromCommissionPaid(ctx context.Context, e *commission.CommissionPaidEvent) change {
	return r.commissionPaid(ctx, e.TenantID(), e.CalculationID, e.EmployeeID, e.CommissionAmount)
}

func (r *EventRelay) newOrder(ctx context.Context, tenantID, orderID, employeeID uuid.UUID, number string, total decimal.Decimal) change {
	name := r.employeeName(ctx, tenantID, employeeID)
	return change{event: &eventDraft{
		feedType:       realtime.FeedNewOrder,
		title:          "New Order",
		description:    fmt.Sprintf("%s rang up %s for %s", name, number, money(total)),
		amount:         &total,
		priorityAmount: total,
		entityID:       orderID,
	}}
}

func (r *EventRelay) orderStatus(orderID uuid.UUID, number, status string, total decimal.Decimal, reason string) change {
	draft := &eventDraft{
		feedType:    realtime.FeedOrderStatus,
		title:       "Order " + titleCase(status),
		description: fmt.Sprintf("%s is now %s", number, status),
		entityID:    orderID,
	}
	switch status {
	case string(sales.OrderStatusCompleted):
		draft.description = fmt.Sprintf("%s completed for %s", number, money(total))
		draft.amount = &total
		return change{
			event: draft,
			delta: func(c *realtime.Counters) { c.TodaySales = c.TodaySales.Add(total) },
		}
	case string(sales.OrderStatusCancelled):
		if reason != "" {
			draft.description = fmt.Sprintf("%s was cancelled: %s", number, reason)
		}
	}
	return change{event: draft}
}

func (r *EventRelay) commissionCalculated(ctx context.Context, tenantID, id, employeeID uuid.UUID, amount decimal.Decimal, tier string) change {
	name := r.employeeName(ctx, tenantID, employeeID)
	return change{
		event: &eventDraft{
			feedType:    realtime.FeedCommissionPayment,
			title:       "Commission Calculated",
			description: fmt.Sprintf("%s earned %s commission (%s tier)", name, money(amount), tier),
			amount:      &amount,
			entityID:    id,
		},
		delta: func(c *realtime.Counters) {
			c.PendingCommissionTotal = c.PendingCommissionTotal.Add(amount)
		},
	}
}

func (r *EventRelay) commissionPaid(ctx context.Context, tenantID, id, employeeID uuid.UUID, amount decimal.Decimal) change {
	name := r.employeeName(ctx, tenantID, employeeID)
	return change{
		event: &eventDraft{
			feedType:    realtime.FeedCommissionPayment,
			title:       "Commission Paid",
			description: fmt.Sprintf("%s was paid %s commission", name, money(amount)),
			amount:      &amount,
			entityID:    id,
		},
		delta: func(c *realtime.Counters) {
			c.PendingCommissionTotal = decimal.Max(decimal.Zero, c.PendingCommissionTotal.Sub(amount))
		},
	}
}

func (r *EventRelay) employeeName(ctx context.Context, tenantID, id uuid.UUID) string {
	if r.directory == nil || id == uuid.Nil {
		return shortID(id)
	}
	name, err := r.directory.EmployeeName(ctx, tenantID, id)
	if err != nil || name == "" {
		r.logger.Debug("Employee name lookup failed", zap.String("employee_id", id.String()), zap.Error(err))
		return shortID(id)
	}
	return name
}

func (r *EventRelay) productName(ctx context.Context, tenantID, id uuid.UUID) string {
	if r.directory == nil || id == uuid.Nil {
		return shortID(id)
	}
	name, err := r.directory.ProductName(ctx, tenantID, id)
	if err != nil || name == "" {
		r.logger.Debug("Product name lookup failed", zap.String("product_id", id.String()), zap.Error(err))
		return shortID(id)
	}
	return name
}

// shortID is the display fallback for an unresolved name
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// titleCase turns a snake_case word into a display title. Casers are
// stateful, so one is created per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func decrement(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return n - 1
}
