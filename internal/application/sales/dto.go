package sales

import (
	"time"

	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest rings up a new order
type CreateOrderRequest struct {
	StoreID       uuid.UUID          `json:"store_id" binding:"required"`
	EmployeeID    uuid.UUID          `json:"employee_id"`
	TillSessionID *uuid.UUID         `json:"till_session_id"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest is one line of a new order. A missing unit price uses
// the catalog price.
type OrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CompleteOrderRequest takes payment for an order
type CompleteOrderRequest struct {
	PaymentMethod sales.PaymentMethod `json:"payment_method" binding:"required,oneof=cash card split"`
	CashAmount    decimal.Decimal     `json:"cash_amount"`
}

// CancelOrderRequest voids a pending order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter is the list query for orders
type OrderListFilter struct {
	Page       int                `form:"page" binding:"omitempty,min=1"`
	PageSize   int                `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string             `form:"order_by"`
	OrderDir   string             `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	StoreID    *uuid.UUID         `form:"store_id"`
	EmployeeID *uuid.UUID         `form:"employee_id"`
	Status     *sales.OrderStatus `form:"status" binding:"omitempty,oneof=pending completed cancelled"`
	From       *time.Time         `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time         `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (f OrderListFilter) toDomain() sales.OrderFilter {
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
	filter.From = f.From
	filter.To = f.To
	return sales.OrderFilter{
		Filter:     filter,
		StoreID:    f.StoreID,
		EmployeeID: f.EmployeeID,
		Status:     f.Status,
	}
}

// OrderItemResponse is the API view of an order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	StoreID       uuid.UUID           `json:"store_id"`
	EmployeeID    uuid.UUID           `json:"employee_id"`
	TillSessionID *uuid.UUID          `json:"till_session_id"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	ItemsSold     int                 `json:"items_sold"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	CashAmount    decimal.Decimal     `json:"cash_amount"`
	CardAmount    decimal.Decimal     `json:"card_amount"`
	Status        string              `json:"status"`
	CompletedAt   *time.Time          `json:"completed_at"`
	CancelledAt   *time.Time          `json:"cancelled_at"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Version       int                 `json:"version"`
}

// ToOrderResponse converts a domain order to its API view
func ToOrderResponse(o *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		StoreID:       o.StoreID,
		EmployeeID:    o.EmployeeID,
		TillSessionID: o.TillSessionID,
		Items:         items,
		ItemsSold:     o.ItemsSold(),
		TotalAmount:   o.TotalAmount,
		PaymentMethod: string(o.PaymentMethod),
		CashAmount:    o.CashAmount,
		CardAmount:    o.CardAmount,
		Status:        o.Status.String(),
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt,
		Version:       o.Version,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []sales.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}
