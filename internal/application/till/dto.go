package till

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest opens a drawer for the acting employee
type OpenSessionRequest struct {
	StoreID     uuid.UUID       `json:"store_id" binding:"required"`
	EmployeeID  uuid.UUID       `json:"employee_id"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// CashAmountRequest carries an amount and optional notes for drops, counts and closes
type CashAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes" binding:"max=500"`
}

// NoSaleRequest records a drawer opening without a sale
type NoSaleRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// SessionListFilter is the list query for till sessions
type SessionListFilter struct {
	Page       int                 `form:"page" binding:"omitempty,min=1"`
	PageSize   int                 `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string              `form:"order_by"`
	OrderDir   string              `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	StoreID    *uuid.UUID          `form:"store_id"`
	EmployeeID *uuid.UUID          `form:"employee_id"`
	Status     *till.SessionStatus `form:"status" binding:"omitempty,oneof=active closed"`
	From       *time.Time          `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time          `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// toDomain converts the list query into a repository filter
func (f SessionListFilter) toDomain() till.SessionFilter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	} else {
		filter.OrderBy = "session_start"
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.From = f.From
	filter.To = f.To
	return till.SessionFilter{
		Filter:     filter,
		StoreID:    f.StoreID,
		EmployeeID: f.EmployeeID,
		Status:     f.Status,
	}
}

// SessionResponse is the API view of a till session
type SessionResponse struct {
	ID               uuid.UUID        `json:"id"`
	TenantID         uuid.UUID        `json:"tenant_id"`
	StoreID          uuid.UUID        `json:"store_id"`
	EmployeeID       uuid.UUID        `json:"employee_id"`
	OpeningCash      decimal.Decimal  `json:"opening_cash"`
	ClosingCash      *decimal.Decimal `json:"closing_cash"`
	TotalSales       decimal.Decimal  `json:"total_sales"`
	TotalCashSales   decimal.Decimal  `json:"total_cash_sales"`
	TotalCardSales   decimal.Decimal  `json:"total_card_sales"`
	TotalCashDrops   decimal.Decimal  `json:"total_cash_drops"`
	TransactionCount int              `json:"transaction_count"`
	ExpectedCash     decimal.Decimal  `json:"expected_cash"`
	CashVariance     *decimal.Decimal `json:"cash_variance"`
	Status           string           `json:"status"`
	SessionStart     time.Time        `json:"session_start"`
	SessionEnd       *time.Time       `json:"session_end"`
	Notes            string           `json:"notes"`
	Version          int              `json:"version"`
}

// ToSessionResponse converts a domain session to its API view
func ToSessionResponse(s *till.TillSession) SessionResponse {
	return SessionResponse{
		ID:               s.ID,
		TenantID:         s.TenantID,
		StoreID:          s.StoreID,
		EmployeeID:       s.EmployeeID,
		OpeningCash:      s.OpeningCash,
		ClosingCash:      s.ClosingCash,
		TotalSales:       s.TotalSales,
		TotalCashSales:   s.TotalCashSales,
		TotalCardSales:   s.TotalCardSales,
		TotalCashDrops:   s.TotalCashDrops,
		TransactionCount: s.TransactionCount,
		ExpectedCash:     s.ExpectedCash(),
		CashVariance:     s.CashVariance,
		Status:           s.Status.String(),
		SessionStart:     s.SessionStart,
		SessionEnd:       s.SessionEnd,
		Notes:            s.Notes,
		Version:          s.Version,
	}
}

// ToSessionResponses converts a slice of sessions
func ToSessionResponses(sessions []till.TillSession) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, ToSessionResponse(&sessions[i]))
	}
	return out
}

// OperationResponse is the API view of a drawer operation
type OperationResponse struct {
	ID             uuid.UUID        `json:"id"`
	SessionID      uuid.UUID        `json:"session_id"`
	Type           string           `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
	Variance       *decimal.Decimal `json:"variance,omitempty"`
	Notes          string           `json:"notes"`
	PerformedBy    uuid.UUID        `json:"performed_by"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ToOperationResponse converts a domain operation to its API view
func ToOperationResponse(op *till.CashOperation) OperationResponse {
	return OperationResponse{
		ID:             op.ID,
		SessionID:      op.SessionID,
		Type:           string(op.Type),
		Amount:         op.Amount,
		ExpectedAmount: op.ExpectedAmount,
		Variance:       op.Variance,
		Notes:          op.Notes,
		PerformedBy:    op.PerformedBy,
		CreatedAt:      op.CreatedAt,
	}
}

// SessionOperationResponse is returned by mutations that append an operation
type SessionOperationResponse struct {
	Session   SessionResponse   `json:"session"`
	Operation OperationResponse `json:"operation"`
}

// TillCountResponse is the outcome of a drawer count
type TillCountResponse struct {
	Operation        OperationResponse `json:"operation"`
	ExpectedCash     decimal.Decimal   `json:"expected_cash"`
	Variance         decimal.Decimal   `json:"variance"`
	VarianceDetected bool              `json:"variance_detected"`
}
