package sales

import (
	"fmt"
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the checkout state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// PaymentMethod is how the customer tendered
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodSplit PaymentMethod = "split"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodSplit:
		return true
	}
	return false
}

// OrderItem is one line of an order
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order is a checkout ticket rung up at a store, optionally against a till session
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber   string          `json:"order_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	TillSessionID *uuid.UUID      `json:"till_session_id"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CashAmount    decimal.Decimal `json:"cash_amount"`
	CardAmount    decimal.Decimal `json:"card_amount"`
	Status        OrderStatus     `json:"status"`
	CompletedAt   *time.Time      `json:"completed_at"`
	CancelledAt   *time.Time      `json:"cancelled_at"`
	CancelReason  string          `json:"cancel_reason"`
}

// NewOrder creates a pending order
func NewOrder(tenantID uuid.UUID, orderNumber string, storeID, employeeID uuid.UUID, tillSessionID *uuid.UUID) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		StoreID:             storeID,
		EmployeeID:          employeeID,
		TillSessionID:       tillSessionID,
		Items:               make([]OrderItem, 0),
		TotalAmount:         decimal.Zero,
		CashAmount:          decimal.Zero,
		CardAmount:          decimal.Zero,
		Status:              OrderStatusPending,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line to a pending order
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	o.Items = append(o.Items, OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
	})
	o.TotalAmount = o.TotalAmount.Add(subtotal)
	o.Touch()

	for _, evt := range o.GetDomainEvents() {
		if created, ok := evt.(*OrderCreatedEvent); ok {
			created.TotalAmount = o.TotalAmount
		}
	}

	return nil
}

// Complete takes payment. For a split tender cashAmount is the cash portion
// and the remainder goes on the card; otherwise cashAmount is ignored.
func (o *Order) Complete(method PaymentMethod, cashAmount decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot complete an order without items")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	switch method {
	case PaymentMethodCash:
		o.CashAmount = o.TotalAmount
		o.CardAmount = decimal.Zero
	case PaymentMethodCard:
		o.CashAmount = decimal.Zero
		o.CardAmount = o.TotalAmount
	case PaymentMethodSplit:
		if !cashAmount.IsPositive() || !cashAmount.LessThan(o.TotalAmount) {
			return shared.NewDomainError("INVALID_AMOUNT", "Split cash portion must be between zero and the order total")
		}
		o.CashAmount = cashAmount
		o.CardAmount = o.TotalAmount.Sub(cashAmount)
	}

	now := time.Now()
	o.PaymentMethod = method
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel voids a pending order
func (o *Order) Cancel(reason string) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// ItemsSold returns the number of units across all lines
func (o *Order) ItemsSold() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
