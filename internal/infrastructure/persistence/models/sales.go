package models

import (
	"time"

	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for a checkout order
type OrderModel struct {
	TenantAggregateModel
	OrderNumber   string              `gorm:"type:varchar(30);not null;index"`
	StoreID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	TillSessionID *uuid.UUID          `gorm:"type:uuid;index"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod sales.PaymentMethod `gorm:"type:varchar(10)"`
	CashAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CardAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status        sales.OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	CompletedAt   *time.Time          `gorm:"index"`
	CancelledAt   *time.Time
	CancelReason  string           `gorm:"type:varchar(500)"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *sales.Order {
	items := make([]sales.OrderItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, it.ToDomain())
	}
	return &sales.Order{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		StoreID:             m.StoreID,
		EmployeeID:          m.EmployeeID,
		TillSessionID:       m.TillSessionID,
		Items:               items,
		TotalAmount:         m.TotalAmount,
		PaymentMethod:       m.PaymentMethod,
		CashAmount:          m.CashAmount,
		CardAmount:          m.CardAmount,
		Status:              m.Status,
		CompletedAt:         m.CompletedAt,
		CancelledAt:         m.CancelledAt,
		CancelReason:        m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *sales.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.StoreID = o.StoreID
	m.EmployeeID = o.EmployeeID
	m.TillSessionID = o.TillSessionID
	m.TotalAmount = o.TotalAmount
	m.PaymentMethod = o.PaymentMethod
	m.CashAmount = o.CashAmount
	m.CardAmount = o.CardAmount
	m.Status = o.Status
	m.CompletedAt = utcPtr(o.CompletedAt)
	m.CancelledAt = utcPtr(o.CancelledAt)
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, 0, len(o.Items))
	for _, it := range o.Items {
		m.Items = append(m.Items, OrderItemModelFromDomain(o, it))
	}
}

// OrderItemModel is one order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m OrderItemModel) ToDomain() sales.OrderItem {
	return sales.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Subtotal:    m.Subtotal,
	}
}

// OrderItemModelFromDomain creates a persistence model for an order line
func OrderItemModelFromDomain(o *sales.Order, it sales.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:          it.ID,
		TenantID:    o.TenantID,
		OrderID:     o.ID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		Subtotal:    it.Subtotal,
		CreatedAt:   o.CreatedAt.UTC(),
	}
}
