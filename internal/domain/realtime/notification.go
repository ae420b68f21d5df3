package realtime

import (
	"encoding/json"
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeChangeNotification is published for every row change picked up
// from the database change feed
const EventTypeChangeNotification = "ChangeNotification"

// Watched tables
const (
	TableOrders             = "orders"
	TableCommissionPayments = "commission_payments"
	TableSalesGoals         = "sales_goals"
	TableStockAlerts        = "stock_alerts"
	TableApprovalRequests   = "approval_requests"
	TableEmployeePresence   = "employee_presence"
)

// Row operations
const (
	OperationInsert = "INSERT"
	OperationUpdate = "UPDATE"
)

// Record is a decoded row image
type Record map[string]any

// String returns the field as a string, or "" when absent
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// UUID returns the field parsed as a UUID, or uuid.Nil
func (r Record) UUID(key string) uuid.UUID {
	id, err := uuid.Parse(r.String(key))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Decimal returns the field as a decimal, or zero
func (r Record) Decimal(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	}
	d, err := decimal.NewFromString(r.String(key))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Bool returns the field as a bool
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "t"
	}
	return false
}

// ChangeNotification is a row insert or update on a watched table
type ChangeNotification struct {
	shared.BaseDomainEvent
	Table     string `json:"table"`
	Operation string `json:"operation"`
	Record    Record `json:"record"`
	OldRecord Record `json:"old_record,omitempty"`
}

// EventType returns the event type name
func (e *ChangeNotification) EventType() string {
	return EventTypeChangeNotification
}

// NewChangeNotification creates a ChangeNotification for a row
func NewChangeNotification(tenantID uuid.UUID, table, operation string, record, old Record) *ChangeNotification {
	rowID := record.UUID("id")
	n := &ChangeNotification{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChangeNotification, table, rowID, tenantID),
		Table:           table,
		Operation:       operation,
		Record:          record,
		OldRecord:       old,
	}
	return n
}

// WithTimestamp overrides the occurrence time with the row's commit time
func (e *ChangeNotification) WithTimestamp(t time.Time) *ChangeNotification {
	if !t.IsZero() {
		e.Timestamp = t
	}
	return e
}
