package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/glowpos/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reconciliation.Report, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Report), args.Error(1)
}

func (m *MockReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter reconciliation.ReportFilter) ([]reconciliation.Report, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]reconciliation.Report), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportRepository) Create(ctx context.Context, report *reconciliation.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type MockOrderReader struct {
	mock.Mock
	sales.OrderRepository
}

func (m *MockOrderReader) FindCompletedBetween(ctx context.Context, tenantID, storeID uuid.UUID, from, to time.Time) ([]sales.Order, error) {
	args := m.Called(ctx, tenantID, storeID, from, to)
	return args.Get(0).([]sales.Order), args.Error(1)
}

type MockSessionReader struct {
	mock.Mock
	till.SessionRepository
}

func (m *MockSessionReader) FindLatestStartedBetween(ctx context.Context, tenantID, storeID uuid.UUID, from, to time.Time) (*till.TillSession, error) {
	args := m.Called(ctx, tenantID, storeID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*till.TillSession), args.Error(1)
}

type failingArchiver struct{}

func (failingArchiver) Archive(context.Context, *reconciliation.Report) (string, error) {
	return "", errors.New("bucket unreachable")
}

var (
	reportDay = time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	nextDay   = reportDay.AddDate(0, 0, 1)
)

func completedOrder(t *testing.T, tenantID, storeID uuid.UUID, method sales.PaymentMethod, lines ...sales.OrderItem) sales.Order {
	t.Helper()
	o, err := sales.NewOrder(tenantID, "ORD-20240603-00001", storeID, uuid.New(), nil)
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, o.AddItem(l.ProductID, l.ProductName, l.Quantity, l.UnitPrice))
	}
	require.NoError(t, o.Complete(method, decimal.Zero))
	return *o
}

func closedSession(t *testing.T, tenantID, storeID uuid.UUID, opening, cashSales, closing string) *till.TillSession {
	t.Helper()
	s, _, err := till.OpenSession(tenantID, storeID, uuid.New(), decimal.RequireFromString(opening), "")
	require.NoError(t, err)
	if cashSales != "0" {
		require.NoError(t, s.RecordSale(decimal.RequireFromString(cashSales), decimal.Zero))
	}
	_, err = s.Close(decimal.RequireFromString(closing), s.EmployeeID, "")
	require.NoError(t, err)
	return s
}

func TestReportService_Generate(t *testing.T) {
	ctx := context.Background()
	tenantID, storeID, actorID := uuid.New(), uuid.New(), uuid.New()
	serum := sales.OrderItem{ProductID: uuid.New(), ProductName: "Serum", Quantity: 2, UnitPrice: decimal.NewFromInt(40)}
	balm := sales.OrderItem{ProductID: uuid.New(), ProductName: "Balm", Quantity: 3, UnitPrice: decimal.NewFromInt(5)}

	orders := new(MockOrderReader)
	sessions := new(MockSessionReader)
	svc := NewReportService(new(MockReportRepository), orders, sessions, nil, reconciliation.Thresholds{}, nil)

	orders.On("FindCompletedBetween", ctx, tenantID, storeID, reportDay, nextDay).Return([]sales.Order{
		completedOrder(t, tenantID, storeID, sales.PaymentMethodCash, serum),
		completedOrder(t, tenantID, storeID, sales.PaymentMethodCard, balm, serum),
	}, nil)
	sessions.On("FindLatestStartedBetween", ctx, tenantID, storeID, reportDay, nextDay).
		Return(closedSession(t, tenantID, storeID, "100", "80", "175"), nil)

	report, err := svc.Generate(ctx, tenantID, actorID, storeID, "2024-06-03")
	require.NoError(t, err)

	assert.Equal(t, "2024-06-03", report.ReportDate)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(175)))
	assert.True(t, report.CashSales.Equal(decimal.NewFromInt(80)))
	assert.True(t, report.CardSales.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, 2, report.TransactionCount)
	assert.Equal(t, 7, report.ItemsSold)
	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Serum", report.TopProducts[0].ProductName)
	assert.Equal(t, 4, report.TopProducts[0].Quantity)
	assert.True(t, report.ExpectedCash.Equal(decimal.NewFromInt(180)))
	assert.True(t, report.CashVariance.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, "pending", report.Status)
	assert.Empty(t, report.Discrepancies)
	assert.Equal(t, actorID, report.GeneratedBy)
}

func TestReportService_Generate_NoSessionAndBadDate(t *testing.T) {
	ctx := context.Background()
	tenantID, storeID := uuid.New(), uuid.New()
	orders := new(MockOrderReader)
	sessions := new(MockSessionReader)
	svc := NewReportService(new(MockReportRepository), orders, sessions, nil, reconciliation.Thresholds{}, nil)

	orders.On("FindCompletedBetween", ctx, tenantID, storeID, reportDay, nextDay).Return([]sales.Order{}, nil)
	sessions.On("FindLatestStartedBetween", ctx, tenantID, storeID, reportDay, nextDay).Return(nil, shared.ErrNotFound)

	report, err := svc.Generate(ctx, tenantID, uuid.New(), storeID, "2024-06-03")
	require.NoError(t, err)
	assert.Nil(t, report.TillSessionID)
	assert.True(t, report.CashVariance.IsZero())
	assert.NotNil(t, report.TopProducts)

	_, err = svc.Generate(ctx, tenantID, uuid.New(), storeID, "03/06/2024")
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_DATE", de.Code)
}

func TestReportService_Save(t *testing.T) {
	tenantID, storeID := uuid.New(), uuid.New()

	setup := func(t *testing.T, closing string, archiver reconciliation.Archiver) (*ReportService, *MockReportRepository) {
		t.Helper()
		reports := new(MockReportRepository)
		orders := new(MockOrderReader)
		sessions := new(MockSessionReader)
		svc := NewReportService(reports, orders, sessions, archiver, reconciliation.Thresholds{}, nil)

		orders.On("FindCompletedBetween", mock.Anything, tenantID, storeID, reportDay, nextDay).Return([]sales.Order{}, nil)
		sessions.On("FindLatestStartedBetween", mock.Anything, tenantID, storeID, reportDay, nextDay).
			Return(closedSession(t, tenantID, storeID, "100", "0", closing), nil)
		return svc, reports
	}

	t.Run("flags a large variance regardless of chosen status", func(t *testing.T) {
		stub := storage.NewStubArchiver()
		svc, reports := setup(t, "85", stub)
		reports.On("Create", mock.Anything, mock.AnythingOfType("*reconciliation.Report")).Return(nil)

		report, err := svc.Save(context.Background(), tenantID, uuid.New(), SaveReportRequest{
			StoreID: storeID,
			Date:    "2024-06-03",
			Status:  reconciliation.ReportStatusApproved,
			Notes:   "end of day",
		})
		require.NoError(t, err)
		assert.Equal(t, "flagged", report.Status)
		require.Len(t, report.Discrepancies, 1)
		assert.Equal(t, reconciliation.DiscrepancyCashVariance, report.Discrepancies[0].Type)
		assert.Equal(t, "end of day", report.Notes)
		assert.Equal(t, stub.Keys(), []string{report.ArchiveKey})
	})

	t.Run("keeps the chosen status within threshold", func(t *testing.T) {
		svc, reports := setup(t, "90", nil)
		reports.On("Create", mock.Anything, mock.Anything).Return(nil)

		report, err := svc.Save(context.Background(), tenantID, uuid.New(), SaveReportRequest{
			StoreID: storeID,
			Date:    "2024-06-03",
			Status:  reconciliation.ReportStatusReviewed,
		})
		require.NoError(t, err)
		assert.Equal(t, "reviewed", report.Status)
		assert.Empty(t, report.ArchiveKey)
	})

	t.Run("archive failure does not fail the save", func(t *testing.T) {
		svc, reports := setup(t, "100", failingArchiver{})
		reports.On("Create", mock.Anything, mock.Anything).Return(nil)

		report, err := svc.Save(context.Background(), tenantID, uuid.New(), SaveReportRequest{StoreID: storeID, Date: "2024-06-03"})
		require.NoError(t, err)
		assert.Equal(t, "pending", report.Status)
		assert.Empty(t, report.ArchiveKey)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		svc, reports := setup(t, "100", nil)

		_, err := svc.Save(context.Background(), tenantID, uuid.New(), SaveReportRequest{
			StoreID: storeID,
			Date:    "2024-06-03",
			Status:  "archived",
		})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_STATUS", de.Code)
		reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReportService_ListReports_InclusiveRange(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	reports := new(MockReportRepository)
	svc := NewReportService(reports, new(MockOrderReader), new(MockSessionReader), nil, reconciliation.Thresholds{}, nil)

	reports.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f reconciliation.ReportFilter) bool {
		return f.From != nil && f.From.Equal(reportDay) && f.To != nil && f.To.Equal(nextDay)
	})).Return([]reconciliation.Report{}, int64(0), nil)

	items, total, err := svc.ListReports(ctx, tenantID, ReportListFilter{From: "2024-06-03", To: "2024-06-03"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
