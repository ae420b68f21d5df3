package realtime

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultFeedCapacity is how many events a feed keeps
const DefaultFeedCapacity = 20

// FeedEventType classifies a dashboard event
type FeedEventType string

const (
	FeedNewOrder          FeedEventType = "new_order"
	FeedOrderStatus       FeedEventType = "order_status"
	FeedCommissionPayment FeedEventType = "commission_payment"
	FeedGoalReached       FeedEventType = "goal_reached"
	FeedStockAlert        FeedEventType = "stock_alert"
	FeedApprovalRequest   FeedEventType = "approval_request"
	FeedPresence          FeedEventType = "presence"
)

// Priority orders events for display
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// FeedEvent is one entry of the rolling dashboard feed
type FeedEvent struct {
	ID           uuid.UUID        `json:"id"`
	Type         FeedEventType    `json:"type"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Priority     Priority         `json:"priority"`
	Timestamp    time.Time        `json:"timestamp"`
	AutoResolved bool             `json:"auto_resolved"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	EntityID     uuid.UUID        `json:"entity_id"`
}

// PriorityRules holds the thresholds behind priority assignment
type PriorityRules struct {
	HighValueSale decimal.Decimal
}

// DefaultPriorityRules returns the stock rules
func DefaultPriorityRules() PriorityRules {
	return PriorityRules{HighValueSale: decimal.NewFromInt(500)}
}

// PriorityFor assigns the static priority of an event type. amount is the
// sale total for orders; level is the stock alert level.
func (r PriorityRules) PriorityFor(t FeedEventType, amount decimal.Decimal, level string) Priority {
	switch t {
	case FeedNewOrder:
		if amount.GreaterThan(r.HighValueSale) {
			return PriorityHigh
		}
		return PriorityMedium
	case FeedStockAlert:
		if level == "critical" {
			return PriorityUrgent
		}
		return PriorityHigh
	case FeedApprovalRequest, FeedGoalReached:
		return PriorityHigh
	case FeedCommissionPayment:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// AutoResolves reports whether events of this type clear themselves.
// Stock alerts and approvals wait for an operator to dismiss them.
func AutoResolves(t FeedEventType) bool {
	return t != FeedStockAlert && t != FeedApprovalRequest
}

// Counters are the rolling dashboard figures
type Counters struct {
	TodaySales             decimal.Decimal `json:"today_sales"`
	ActiveEmployees        int64           `json:"active_employees"`
	PendingApprovals       int64           `json:"pending_approvals"`
	LowStockAlerts         int64           `json:"low_stock_alerts"`
	PendingCommissionTotal decimal.Decimal `json:"pending_commission_total"`
}

// NewCounters returns zeroed counters
func NewCounters() Counters {
	return Counters{TodaySales: decimal.Zero, PendingCommissionTotal: decimal.Zero}
}

// Feed is a newest-first list capped at a fixed size. It is not safe for
// concurrent use; the relay serializes access.
type Feed struct {
	capacity int
	events   []FeedEvent
}

// NewFeed creates an empty feed. Non-positive capacities use the default.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &Feed{capacity: capacity, events: make([]FeedEvent, 0, capacity)}
}

// Push prepends an event, evicting the oldest past capacity
func (f *Feed) Push(e FeedEvent) {
	f.events = append([]FeedEvent{e}, f.events...)
	if len(f.events) > f.capacity {
		f.events = f.events[:f.capacity]
	}
}

// Dismiss removes an operator-resolvable event
func (f *Feed) Dismiss(id uuid.UUID) error {
	for i, e := range f.events {
		if e.ID != id {
			continue
		}
		if e.AutoResolved {
			return shared.NewDomainError("INVALID_STATE", "Auto-resolved events cannot be dismissed")
		}
		f.events = append(f.events[:i], f.events[i+1:]...)
		return nil
	}
	return shared.NewDomainError("NOT_FOUND", "Feed event not found")
}

// Events returns a copy of the feed, newest first
func (f *Feed) Events() []FeedEvent {
	out := make([]FeedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// Len returns the number of events held
func (f *Feed) Len() int {
	return len(f.events)
}

// Clear drops every event
func (f *Feed) Clear() {
	f.events = f.events[:0]
}
