package till

import (
	"fmt"
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus represents the lifecycle state of a till session
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusActive || s == SessionStatusClosed
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// DefaultVarianceThreshold is the till-count variance above which a count is
// reported as a variance. Compared strictly against the absolute variance.
var DefaultVarianceThreshold = decimal.NewFromInt(5)

// TillSession is one cash drawer for one employee over one shift.
// Totals are mutated by sales and cash drops while the session is active;
// closing freezes the session.
type TillSession struct {
	shared.TenantAggregateRoot
	StoreID          uuid.UUID        `json:"store_id"`
	EmployeeID       uuid.UUID        `json:"employee_id"`
	OpeningCash      decimal.Decimal  `json:"opening_cash"`
	ClosingCash      *decimal.Decimal `json:"closing_cash"`
	TotalSales       decimal.Decimal  `json:"total_sales"`
	TotalCashSales   decimal.Decimal  `json:"total_cash_sales"`
	TotalCardSales   decimal.Decimal  `json:"total_card_sales"`
	TotalCashDrops   decimal.Decimal  `json:"total_cash_drops"`
	TransactionCount int              `json:"transaction_count"`
	CashVariance     *decimal.Decimal `json:"cash_variance"`
	Status           SessionStatus    `json:"status"`
	SessionStart     time.Time        `json:"session_start"`
	SessionEnd       *time.Time       `json:"session_end"`
	Notes            string           `json:"notes"`
}

// OpenSession creates an active session with the given float and the
// matching open operation.
func OpenSession(tenantID, storeID, employeeID uuid.UUID, openingCash decimal.Decimal, notes string) (*TillSession, *CashOperation, error) {
	if storeID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if employeeID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if openingCash.IsNegative() {
		return nil, nil, shared.NewDomainError("INVALID_AMOUNT", "Opening cash cannot be negative")
	}

	session := &TillSession{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StoreID:             storeID,
		EmployeeID:          employeeID,
		OpeningCash:         openingCash,
		TotalSales:          decimal.Zero,
		TotalCashSales:      decimal.Zero,
		TotalCardSales:      decimal.Zero,
		TotalCashDrops:      decimal.Zero,
		Status:              SessionStatusActive,
		Notes:               notes,
	}
	session.SessionStart = session.CreatedAt

	op := newCashOperation(session, OperationTypeOpen, openingCash, employeeID, notes)

	session.AddDomainEvent(NewTillSessionOpenedEvent(session))

	return session, op, nil
}

// ExpectedCash is the cash the drawer should hold right now
func (s *TillSession) ExpectedCash() decimal.Decimal {
	return s.OpeningCash.Add(s.TotalCashSales).Sub(s.TotalCashDrops)
}

// IsActive returns true while the session accepts mutations
func (s *TillSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

func (s *TillSession) ensureActive(action string) error {
	if !s.IsActive() {
		return shared.NewDomainError("SESSION_NOT_ACTIVE", fmt.Sprintf("Cannot %s on a %s till session", action, s.Status))
	}
	return nil
}

// RecordSale adds a completed sale to the running totals. A split tender
// carries both a cash and a card portion.
func (s *TillSession) RecordSale(cashAmount, cardAmount decimal.Decimal) error {
	if err := s.ensureActive("record a sale"); err != nil {
		return err
	}
	if cashAmount.IsNegative() || cardAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Sale amounts cannot be negative")
	}
	total := cashAmount.Add(cardAmount)
	if !total.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Sale total must be positive")
	}

	s.TotalSales = s.TotalSales.Add(total)
	s.TotalCashSales = s.TotalCashSales.Add(cashAmount)
	s.TotalCardSales = s.TotalCardSales.Add(cardAmount)
	s.TransactionCount++
	s.IncrementVersion()

	return nil
}

// RecordCashDrop removes cash from the drawer into the safe
func (s *TillSession) RecordCashDrop(amount decimal.Decimal, performedBy uuid.UUID, notes string) (*CashOperation, error) {
	if err := s.ensureActive("record a cash drop"); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Cash drop amount must be positive")
	}

	s.TotalCashDrops = s.TotalCashDrops.Add(amount)
	s.IncrementVersion()

	op := newCashOperation(s, OperationTypeCashDrop, amount, performedBy, notes)
	s.AddDomainEvent(NewCashDropRecordedEvent(s, op))

	return op, nil
}

// TillCount is the outcome of a mid-shift drawer count
type TillCount struct {
	Operation        *CashOperation  `json:"operation"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
	Variance         decimal.Decimal `json:"variance"`
	VarianceDetected bool            `json:"variance_detected"`
}

// RecordTillCount compares a physical count against the expected cash.
// The session totals are left untouched; only an operation is produced.
func (s *TillSession) RecordTillCount(amount, threshold decimal.Decimal, performedBy uuid.UUID, notes string) (*TillCount, error) {
	if err := s.ensureActive("count the till"); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Counted amount cannot be negative")
	}

	expected := s.ExpectedCash()
	variance := amount.Sub(expected)

	op := newCashOperation(s, OperationTypeTillCount, amount, performedBy, notes)
	op.ExpectedAmount = &expected
	op.Variance = &variance

	count := &TillCount{
		Operation:        op,
		ExpectedCash:     expected,
		Variance:         variance,
		VarianceDetected: ExceedsThreshold(variance, threshold),
	}
	s.AddDomainEvent(NewTillCountRecordedEvent(s, count))

	return count, nil
}

// RecordNoSale logs a drawer opening that carried no sale
func (s *TillSession) RecordNoSale(performedBy uuid.UUID, notes string) (*CashOperation, error) {
	if err := s.ensureActive("record a no-sale"); err != nil {
		return nil, err
	}
	return newCashOperation(s, OperationTypeNoSale, decimal.Zero, performedBy, notes), nil
}

// Close settles the drawer. It is the only transition out of active and can
// happen once.
func (s *TillSession) Close(closingCash decimal.Decimal, performedBy uuid.UUID, notes string) (*CashOperation, error) {
	if err := s.ensureActive("close"); err != nil {
		return nil, err
	}
	if closingCash.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Closing cash cannot be negative")
	}

	expected := s.ExpectedCash()
	variance := closingCash.Sub(expected)
	now := time.Now()

	s.ClosingCash = &closingCash
	s.CashVariance = &variance
	s.SessionEnd = &now
	s.Status = SessionStatusClosed
	if notes != "" {
		s.Notes = notes
	}
	s.IncrementVersion()

	op := newCashOperation(s, OperationTypeClose, closingCash, performedBy, notes)
	op.ExpectedAmount = &expected
	op.Variance = &variance

	s.AddDomainEvent(NewTillSessionClosedEvent(s))

	return op, nil
}

// ExceedsThreshold reports whether |variance| is strictly above threshold
func ExceedsThreshold(variance, threshold decimal.Decimal) bool {
	return variance.Abs().GreaterThan(threshold)
}
