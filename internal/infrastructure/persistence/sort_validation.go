package persistence

import (
	"strings"

	"github.com/glowpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// TillSessionSortFields contains allowed sort fields for till sessions
var TillSessionSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"session_start":     true,
	"session_end":       true,
	"status":            true,
	"total_sales":       true,
	"transaction_count": true,
	"cash_variance":     true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total_amount": true,
	"completed_at": true,
}

// CommissionPaymentSortFields contains allowed sort fields for commission calculations
var CommissionPaymentSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"period_start":      true,
	"sales_amount":      true,
	"commission_amount": true,
	"is_paid":           true,
	"paid_at":           true,
}

// ReconciliationReportSortFields contains allowed sort fields for reports
var ReconciliationReportSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"report_date":   true,
	"total_sales":   true,
	"cash_variance": true,
	"status":        true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"name":       true,
	"price":      true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"full_name":  true,
	"role_type":  true,
}

// applyFilter orders and paginates a list query. The sort column is checked
// against allowed before it reaches SQL.
func applyFilter(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
