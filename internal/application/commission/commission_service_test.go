package commission

import (
	"context"
	"testing"
	"time"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMocks struct {
	tiers     *MockTierRepository
	calcs     *MockCalculationRepository
	orders    *MockOrderRepository
	employees *MockEmployeeRepository
	publisher *MockEventPublisher
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		tiers:     new(MockTierRepository),
		calcs:     new(MockCalculationRepository),
		orders:    new(MockOrderRepository),
		employees: new(MockEmployeeRepository),
		publisher: new(MockEventPublisher),
	}
	svc := NewService(m.tiers, m.calcs, m.orders, m.employees, "", nil)
	svc.SetEventPublisher(m.publisher)
	return svc, m
}

func tier(t *testing.T, tenantID uuid.UUID, role, name, target, rate string) commission.Tier {
	t.Helper()
	tr, err := commission.NewTier(tenantID, role, name, decimal.RequireFromString(target), decimal.RequireFromString(rate))
	require.NoError(t, err)
	return *tr
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_RunBatchCalculation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Date(2024, time.May, 15, 18, 30, 0, 0, time.UTC) // Wednesday

	stylist := uuid.New()
	cashier := uuid.New()
	newbie := uuid.New()

	svc, m := newTestService()

	tiers := []commission.Tier{
		tier(t, tenantID, "general", "Bronze", "500", "0.02"),
		tier(t, tenantID, "stylist", "Gold", "1000", "0.05"),
	}
	weekStart := time.Date(2024, time.May, 13, 0, 0, 0, 0, time.UTC)

	m.orders.On("SumCompletedByEmployee", mock.Anything, tenantID, (*uuid.UUID)(nil), weekStart, now).Return([]sales.EmployeeSales{
		{EmployeeID: stylist, TotalAmount: d("1200"), OrderCount: 8},
		{EmployeeID: cashier, TotalAmount: d("600"), OrderCount: 5},
		{EmployeeID: newbie, TotalAmount: d("120"), OrderCount: 2},
	}, nil)
	m.tiers.On("FindActive", mock.Anything, tenantID).Return(tiers, nil)
	m.employees.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{stylist, cashier, newbie}).Return(map[uuid.UUID]identity.Employee{
		stylist: {RoleType: "stylist"},
		cashier: {RoleType: "cashier"},
	}, nil)
	m.calcs.On("CreateBatch", mock.Anything, mock.MatchedBy(func(calcs []*commission.Calculation) bool {
		return len(calcs) == 2
	})).Return(nil)
	m.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 2 && events[0].EventType() == commission.EventTypeCommissionCalculated
	})).Return(nil)

	result, err := svc.RunBatchCalculation(ctx, tenantID, commission.PeriodWeekly, now)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, weekStart, result.PeriodStart)
	assert.Equal(t, now, result.PeriodEnd)

	require.Len(t, result.Calculations, 2)
	assert.Equal(t, stylist, result.Calculations[0].EmployeeID)
	assert.Equal(t, "Gold", result.Calculations[0].TierName)
	assert.True(t, result.Calculations[0].CommissionAmount.Equal(d("60")))
	assert.Equal(t, cashier, result.Calculations[1].EmployeeID)
	assert.Equal(t, "Bronze", result.Calculations[1].TierName)
	assert.True(t, result.Calculations[1].CommissionAmount.Equal(d("12")))

	m.calcs.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestService_RunBatchCalculation_NothingToPay(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, m := newTestService()

	m.orders.On("SumCompletedByEmployee", mock.Anything, tenantID, (*uuid.UUID)(nil), mock.Anything, mock.Anything).
		Return([]sales.EmployeeSales{{EmployeeID: uuid.New(), TotalAmount: d("50")}}, nil)
	m.tiers.On("FindActive", mock.Anything, tenantID).Return([]commission.Tier{}, nil)
	m.employees.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return(map[uuid.UUID]identity.Employee{}, nil)

	result, err := svc.RunBatchCalculation(ctx, tenantID, commission.PeriodDaily, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Calculations)
	m.calcs.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_RunBatchCalculation_InvalidPeriod(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RunBatchCalculation(context.Background(), uuid.New(), commission.PeriodType("hourly"), time.Now())
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_PERIOD", de.Code)
}

func TestService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, m := newTestService()

	period, err := commission.PeriodEnding(commission.PeriodMonthly, time.Now())
	require.NoError(t, err)
	calc := commission.NewCalculation(tenantID, uuid.New(), period, d("1000"), tier(t, tenantID, "general", "Silver", "0", "0.03"))
	require.NotNil(t, calc)
	calc.ClearDomainEvents()

	m.calcs.On("FindByIDForTenant", ctx, tenantID, calc.ID).Return(calc, nil)
	m.calcs.On("SaveWithLock", ctx, calc).Return(nil).Once()
	m.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == commission.EventTypeCommissionPaid
	})).Return(nil).Once()

	first, err := svc.MarkPaid(ctx, tenantID, calc.ID)
	require.NoError(t, err)
	assert.True(t, first.IsPaid)
	require.NotNil(t, first.PaidAt)
	paidAt := *first.PaidAt

	second, err := svc.MarkPaid(ctx, tenantID, calc.ID)
	require.NoError(t, err)
	assert.True(t, second.IsPaid)
	assert.Equal(t, paidAt, *second.PaidAt)

	m.calcs.AssertNumberOfCalls(t, "SaveWithLock", 1)
	m.publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestService_MarkPaid_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	tenantID, id := uuid.New(), uuid.New()
	m.calcs.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.MarkPaid(ctx, tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_GetPerformance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employeeID := uuid.New()
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	svc, m := newTestService()
	employee, err := identity.NewEmployee(tenantID, employeeID, uuid.New(), "Ana Lopez", "", "stylist")
	require.NoError(t, err)

	m.employees.On("FindByIDForTenant", ctx, tenantID, employeeID).Return(employee, nil)
	m.orders.On("SumCompletedByEmployee", ctx, tenantID, &employeeID, monthStart, now).
		Return([]sales.EmployeeSales{{EmployeeID: employeeID, TotalAmount: d("750")}}, nil)
	m.orders.On("SumCompletedByEmployee", ctx, tenantID, &employeeID, yearStart, now).
		Return([]sales.EmployeeSales{{EmployeeID: employeeID, TotalAmount: d("4200")}}, nil)
	m.calcs.On("SumCommission", ctx, tenantID, employeeID, yearStart, yearStart.AddDate(1, 0, 0)).Return(d("96.5"), nil)
	m.tiers.On("FindActive", ctx, tenantID).Return([]commission.Tier{
		tier(t, tenantID, "general", "Bronze", "500", "0.02"),
		tier(t, tenantID, "stylist", "Gold", "1000", "0.05"),
		tier(t, tenantID, "cashier", "Cashier Gold", "600", "0.04"),
	}, nil)

	perf, err := svc.GetPerformance(ctx, tenantID, employeeID, now)
	require.NoError(t, err)
	assert.True(t, perf.MonthSales.Equal(d("750")))
	assert.True(t, perf.MonthCommission.Equal(d("15")))
	assert.True(t, perf.YTDSales.Equal(d("4200")))
	assert.True(t, perf.YTDCommission.Equal(d("96.5")))
	assert.Equal(t, "Bronze", perf.CurrentTier.TierName)
	require.NotNil(t, perf.NextTier)
	assert.Equal(t, "Gold", perf.NextTier.TierName)
	assert.True(t, perf.ProgressPercent.Equal(d("75")))
	assert.True(t, perf.AmountToNext.Equal(d("250")))
}

func TestService_GetCommissionRate_UnknownEmployeeUsesDefaultRole(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	employeeID := uuid.New()
	svc, m := newTestService()

	m.employees.On("FindByIDForTenant", ctx, tenantID, employeeID).Return(nil, shared.ErrNotFound)
	m.orders.On("SumCompletedByEmployee", ctx, tenantID, &employeeID, mock.Anything, mock.Anything).
		Return([]sales.EmployeeSales{}, nil)
	m.tiers.On("FindActive", ctx, tenantID).Return([]commission.Tier{
		tier(t, tenantID, "general", "Starter", "0", "0.01"),
	}, nil)

	rate, err := svc.GetCommissionRate(ctx, tenantID, employeeID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "general", rate.RoleType)
	assert.Equal(t, "Starter", rate.TierName)
	assert.True(t, rate.CommissionRate.Equal(d("0.01")))
	assert.True(t, rate.MonthSales.IsZero())
}

func TestService_ResolveTier(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, m := newTestService()
	m.tiers.On("FindActive", ctx, tenantID).Return([]commission.Tier{
		tier(t, tenantID, "general", "Bronze", "500", "0.02"),
		tier(t, tenantID, "general", "Silver", "1500", "0.03"),
	}, nil)

	resp, err := svc.ResolveTier(ctx, tenantID, ResolveTierQuery{SalesAmount: d("400")})
	require.NoError(t, err)
	assert.Equal(t, commission.BaseTierName, resp.Current.TierName)
	assert.Nil(t, resp.Current.ID)
	require.NotNil(t, resp.Next)
	assert.Equal(t, "Bronze", resp.Next.TierName)
	assert.True(t, resp.ProgressPercent.Equal(d("80")))

	_, err = svc.ResolveTier(ctx, tenantID, ResolveTierQuery{SalesAmount: d("-1")})
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_AMOUNT", ""))
}

func TestService_CreateTier_DefaultsRole(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, m := newTestService()
	m.tiers.On("Save", ctx, mock.MatchedBy(func(tr *commission.Tier) bool {
		return tr.RoleType == "general" && tr.TierName == "Platinum"
	})).Return(nil)

	resp, err := svc.CreateTier(ctx, tenantID, CreateTierRequest{
		TierName:       " Platinum ",
		TargetAmount:   d("5000"),
		CommissionRate: d("0.08"),
	})
	require.NoError(t, err)
	assert.Equal(t, "general", resp.RoleType)
	assert.NotNil(t, resp.ID)

	_, err = svc.CreateTier(ctx, tenantID, CreateTierRequest{TierName: "Broken", CommissionRate: d("1.5")})
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_RATE", de.Code)
}
