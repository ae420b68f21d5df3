package till

import (
	"errors"
	"testing"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestSession(t *testing.T, opening string) *TillSession {
	t.Helper()
	session, _, err := OpenSession(uuid.New(), uuid.New(), uuid.New(), dec(opening), "")
	require.NoError(t, err)
	return session
}

func TestOpenSession(t *testing.T) {
	t.Run("non-negative float opens an active session", func(t *testing.T) {
		for _, amount := range []string{"0", "0.01", "100.00", "2500.5"} {
			session, op, err := OpenSession(uuid.New(), uuid.New(), uuid.New(), dec(amount), "morning")
			require.NoError(t, err)
			assert.Equal(t, SessionStatusActive, session.Status)
			assert.True(t, session.TotalCashDrops.IsZero())
			assert.True(t, session.OpeningCash.Equal(dec(amount)))
			assert.Equal(t, 1, session.Version)
			assert.Equal(t, OperationTypeOpen, op.Type)
			assert.Equal(t, session.ID, op.SessionID)
			assert.True(t, op.Amount.Equal(dec(amount)))
			require.Len(t, session.GetDomainEvents(), 1)
			assert.Equal(t, EventTypeTillSessionOpened, session.GetDomainEvents()[0].EventType())
		}
	})

	t.Run("negative float is rejected", func(t *testing.T) {
		_, _, err := OpenSession(uuid.New(), uuid.New(), uuid.New(), dec("-0.01"), "")
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_AMOUNT", de.Code)
	})

	t.Run("store and employee are required", func(t *testing.T) {
		_, _, err := OpenSession(uuid.New(), uuid.Nil, uuid.New(), decimal.Zero, "")
		assert.Error(t, err)
		_, _, err = OpenSession(uuid.New(), uuid.New(), uuid.Nil, decimal.Zero, "")
		assert.Error(t, err)
	})
}

func TestTillSession_ExpectedCashInvariant(t *testing.T) {
	session := newTestSession(t, "100.00")
	check := func() {
		want := session.OpeningCash.Add(session.TotalCashSales).Sub(session.TotalCashDrops)
		assert.True(t, want.Equal(session.ExpectedCash()))
	}

	check()
	require.NoError(t, session.RecordSale(dec("50.00"), decimal.Zero))
	check()
	require.NoError(t, session.RecordSale(decimal.Zero, dec("75.25")))
	check()
	require.NoError(t, session.RecordSale(dec("10.10"), dec("4.90")))
	check()
	_, err := session.RecordCashDrop(dec("20.00"), session.EmployeeID, "")
	require.NoError(t, err)
	check()

	assert.True(t, session.TotalSales.Equal(dec("140.25")))
	assert.True(t, session.TotalCashSales.Equal(dec("60.10")))
	assert.True(t, session.TotalCardSales.Equal(dec("80.15")))
	assert.Equal(t, 3, session.TransactionCount)
	assert.True(t, session.ExpectedCash().Equal(dec("140.10")))
}

func TestTillSession_RecordSale_Validation(t *testing.T) {
	session := newTestSession(t, "0")

	assert.Error(t, session.RecordSale(decimal.Zero, decimal.Zero))
	assert.Error(t, session.RecordSale(dec("-1"), dec("5")))
	assert.Equal(t, 0, session.TransactionCount)
	assert.Equal(t, 1, session.Version)
}

func TestTillSession_RecordCashDrop(t *testing.T) {
	session := newTestSession(t, "200")

	op, err := session.RecordCashDrop(dec("80"), session.EmployeeID, "safe")
	require.NoError(t, err)
	assert.Equal(t, OperationTypeCashDrop, op.Type)
	assert.Equal(t, "safe", op.Notes)
	assert.True(t, session.TotalCashDrops.Equal(dec("80")))
	assert.Equal(t, 2, session.Version)

	for _, bad := range []string{"0", "-5"} {
		_, err := session.RecordCashDrop(dec(bad), session.EmployeeID, "")
		assert.Error(t, err)
	}
	assert.True(t, session.TotalCashDrops.Equal(dec("80")))
}

func TestTillSession_ScenarioCountThenClose(t *testing.T) {
	session := newTestSession(t, "100.00")
	require.NoError(t, session.RecordSale(dec("50.00"), decimal.Zero))
	_, err := session.RecordCashDrop(dec("20.00"), session.EmployeeID, "")
	require.NoError(t, err)

	versionBeforeCount := session.Version
	count, err := session.RecordTillCount(dec("130.00"), DefaultVarianceThreshold, session.EmployeeID, "")
	require.NoError(t, err)
	assert.True(t, count.ExpectedCash.Equal(dec("130")))
	assert.True(t, count.Variance.IsZero())
	assert.False(t, count.VarianceDetected)
	assert.Equal(t, OperationTypeTillCount, count.Operation.Type)
	require.NotNil(t, count.Operation.ExpectedAmount)
	require.NotNil(t, count.Operation.Variance)
	assert.Equal(t, versionBeforeCount, session.Version, "a count does not mutate the session")

	op, err := session.Close(dec("140.00"), session.EmployeeID, "end of day")
	require.NoError(t, err)
	assert.Equal(t, SessionStatusClosed, session.Status)
	require.NotNil(t, session.CashVariance)
	assert.True(t, session.CashVariance.Equal(dec("10.00")))
	assert.True(t, session.ClosingCash.Equal(dec("140.00")))
	assert.NotNil(t, session.SessionEnd)
	assert.Equal(t, OperationTypeClose, op.Type)
	assert.True(t, op.Variance.Equal(dec("10")))
	assert.True(t, op.ExpectedAmount.Equal(dec("130")))
}

func TestTillSession_TillCountVarianceSignal(t *testing.T) {
	tests := []struct {
		name    string
		counted string
		flagged bool
	}{
		{"exact", "100.00", false},
		{"five over", "105.00", false},
		{"five under", "95.00", false},
		{"just over", "105.01", true},
		{"just under", "94.99", true},
		{"far short", "10.00", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := newTestSession(t, "100.00")
			count, err := session.RecordTillCount(dec(tc.counted), DefaultVarianceThreshold, session.EmployeeID, "")
			require.NoError(t, err)
			assert.Equal(t, tc.flagged, count.VarianceDetected)
		})
	}
}

func TestTillSession_CloseIsTerminal(t *testing.T) {
	session := newTestSession(t, "50")
	_, err := session.Close(dec("50"), session.EmployeeID, "")
	require.NoError(t, err)
	version := session.Version

	_, err = session.Close(dec("60"), session.EmployeeID, "")
	require.Error(t, err)
	de, _ := shared.AsDomainError(err)
	assert.Equal(t, "SESSION_NOT_ACTIVE", de.Code)

	assert.Error(t, session.RecordSale(dec("1"), decimal.Zero))
	_, err = session.RecordCashDrop(dec("1"), session.EmployeeID, "")
	assert.Error(t, err)
	_, err = session.RecordTillCount(dec("1"), DefaultVarianceThreshold, session.EmployeeID, "")
	assert.Error(t, err)
	_, err = session.RecordNoSale(session.EmployeeID, "")
	assert.Error(t, err)

	assert.Equal(t, version, session.Version)
	assert.True(t, session.ClosingCash.Equal(dec("50")))
}

func TestTillSession_CloseRejectsNegativeCash(t *testing.T) {
	session := newTestSession(t, "50")
	_, err := session.Close(dec("-1"), session.EmployeeID, "")
	assert.True(t, errors.Is(err, shared.NewDomainError("INVALID_AMOUNT", "")))
	assert.True(t, session.IsActive())
}

func TestTillSession_RecordNoSale(t *testing.T) {
	session := newTestSession(t, "20")
	op, err := session.RecordNoSale(session.EmployeeID, "customer change")
	require.NoError(t, err)
	assert.Equal(t, OperationTypeNoSale, op.Type)
	assert.True(t, op.Amount.IsZero())
	assert.Equal(t, 1, session.Version)
}

func TestExceedsThreshold(t *testing.T) {
	threshold := dec("10.00")
	assert.False(t, ExceedsThreshold(dec("10.00"), threshold))
	assert.False(t, ExceedsThreshold(dec("-10.00"), threshold))
	assert.True(t, ExceedsThreshold(dec("10.01"), threshold))
	assert.True(t, ExceedsThreshold(dec("-10.01"), threshold))
}

func TestOperationType_IsValid(t *testing.T) {
	for _, ot := range []OperationType{OperationTypeOpen, OperationTypeClose, OperationTypeCashDrop, OperationTypeTillCount, OperationTypeNoSale} {
		assert.True(t, ot.IsValid())
	}
	assert.False(t, OperationType("refund").IsValid())
}
