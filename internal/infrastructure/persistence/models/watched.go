package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The tables below are written by store back-office tooling and only read
// here: the change feed relays their rows and the counter query counts them.

// StockAlertModel is a low-stock alert raised for a product at a store
type StockAlertModel struct {
	BaseModel
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Level      string    `gorm:"type:varchar(20);not null;default:'low'"` // low, critical
	Quantity   int       `gorm:"not null;default:0"`
	IsResolved bool      `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (StockAlertModel) TableName() string {
	return "stock_alerts"
}

// ApprovalRequestModel is a manager approval request (refund, discount, void)
type ApprovalRequestModel struct {
	BaseModel
	TenantID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	RequestType string           `gorm:"type:varchar(30);not null"`
	RequestedBy uuid.UUID        `gorm:"type:uuid;not null"`
	Amount      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Description string           `gorm:"type:text"`
	Status      string           `gorm:"type:varchar(20);not null;default:'pending';index"`
}

// TableName returns the table name for GORM
func (ApprovalRequestModel) TableName() string {
	return "approval_requests"
}

// SalesGoalModel is an employee sales target for a period
type SalesGoalModel struct {
	BaseModel
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	GoalName      string          `gorm:"type:varchar(100);not null"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PeriodStart   time.Time       `gorm:"type:date;not null"`
	PeriodEnd     time.Time       `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (SalesGoalModel) TableName() string {
	return "sales_goals"
}

// EmployeePresenceModel tracks whether an employee is clocked in
type EmployeePresenceModel struct {
	BaseModel
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null"`
	IsOnline   bool      `gorm:"not null;default:false;index"`
	LastSeenAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EmployeePresenceModel) TableName() string {
	return "employee_presence"
}

// All returns every model, in dependency order, for schema creation in tests
// and local development.
func All() []any {
	return []any{
		&EmployeeModel{},
		&ProductModel{},
		&TillSessionModel{},
		&CashOperationModel{},
		&OrderModel{},
		&OrderItemModel{},
		&CommissionTierModel{},
		&CommissionPaymentModel{},
		&ReconciliationReportModel{},
		&StockAlertModel{},
		&ApprovalRequestModel{},
		&SalesGoalModel{},
		&EmployeePresenceModel{},
	}
}
