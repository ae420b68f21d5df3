package sales

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderCompleted = "OrderCompleted"
	EventTypeOrderCancelled = "OrderCancelled"

	aggregateTypeOrder = "Order"
)

// OrderCreatedEvent is raised when an order is rung up
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	StoreID     uuid.UUID `json:"store_id"`
	EmployeeID  uuid.UUID `json:"employee_id"`
	// TotalAmount tracks the order total while items are added
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, aggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		EmployeeID:      o.EmployeeID,
		TotalAmount:     o.TotalAmount,
	}
}

// OrderCompletedEvent is raised when payment is taken. The till session, if
// any, picks the cash and card portions up from here.
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	TillSessionID *uuid.UUID      `json:"till_session_id,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CashAmount    decimal.Decimal `json:"cash_amount"`
	CardAmount    decimal.Decimal `json:"card_amount"`
	CompletedAt   time.Time       `json:"completed_at"`
}

// EventType returns the event type name
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	completedAt := time.Now()
	if o.CompletedAt != nil {
		completedAt = *o.CompletedAt
	}
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, aggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		EmployeeID:      o.EmployeeID,
		TillSessionID:   o.TillSessionID,
		PaymentMethod:   o.PaymentMethod,
		TotalAmount:     o.TotalAmount,
		CashAmount:      o.CashAmount,
		CardAmount:      o.CardAmount,
		CompletedAt:     completedAt,
	}
}

// OrderCancelledEvent is raised when a pending order is voided
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, aggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Reason:          o.CancelReason,
	}
}
