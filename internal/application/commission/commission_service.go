// Package commission implements tier administration, batch commission runs
// and the derived performance views.
package commission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/glowpos/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles commission operations
type Service struct {
	tierRepo        commission.TierRepository
	calcRepo        commission.CalculationRepository
	orderRepo       sales.OrderRepository
	employeeRepo    identity.EmployeeRepository
	eventPublisher  shared.EventPublisher
	defaultRoleType string
	logger          *zap.Logger
}

// NewService creates a new commission Service. Employees missing from the
// directory are priced with defaultRoleType.
func NewService(
	tierRepo commission.TierRepository,
	calcRepo commission.CalculationRepository,
	orderRepo sales.OrderRepository,
	employeeRepo identity.EmployeeRepository,
	defaultRoleType string,
	logger *zap.Logger,
) *Service {
	if defaultRoleType == "" {
		defaultRoleType = commission.RoleTypeGeneral
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tierRepo:        tierRepo,
		calcRepo:        calcRepo,
		orderRepo:       orderRepo,
		employeeRepo:    employeeRepo,
		defaultRoleType: defaultRoleType,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateTier adds a tier. An empty role applies the tier to every role.
func (s *Service) CreateTier(ctx context.Context, tenantID uuid.UUID, req CreateTierRequest) (*TierResponse, error) {
	role := strings.ToLower(strings.TrimSpace(req.RoleType))
	if role == "" {
		role = commission.RoleTypeGeneral
	}
	tier, err := commission.NewTier(tenantID, role, strings.TrimSpace(req.TierName), req.TargetAmount, req.CommissionRate)
	if err != nil {
		return nil, err
	}
	if err := s.tierRepo.Save(ctx, tier); err != nil {
		return nil, err
	}
	resp := ToTierResponse(tier)
	return &resp, nil
}

// ListTiers returns active tiers ordered by target
func (s *Service) ListTiers(ctx context.Context, tenantID uuid.UUID) ([]TierResponse, error) {
	tiers, err := s.tierRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]TierResponse, 0, len(tiers))
	for i := range tiers {
		out = append(out, ToTierResponse(&tiers[i]))
	}
	return out, nil
}

// DeleteTier removes a tier
func (s *Service) DeleteTier(ctx context.Context, tenantID, tierID uuid.UUID) error {
	return s.tierRepo.DeleteForTenant(ctx, tenantID, tierID)
}

// ResolveTier places a sales amount on a role's ladder
func (s *Service) ResolveTier(ctx context.Context, tenantID uuid.UUID, query ResolveTierQuery) (*TierProgressResponse, error) {
	if query.SalesAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sales amount cannot be negative")
	}
	role := strings.ToLower(strings.TrimSpace(query.RoleType))
	if role == "" {
		role = s.defaultRoleType
	}
	tiers, err := s.tierRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTierProgressResponse(commission.ResolveTier(tiers, query.SalesAmount, role))
	return &resp, nil
}

// RunBatchCalculation prices every employee's completed sales in the period
// ending at now. Employees whose commission comes to zero are skipped.
func (s *Service) RunBatchCalculation(ctx context.Context, tenantID uuid.UUID, periodType commission.PeriodType, now time.Time) (result *BatchResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "commission.run_batch",
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrPeriodType.String(string(periodType)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	period, err := commission.PeriodEnding(periodType, now)
	if err != nil {
		return nil, err
	}

	totals, err := s.orderRepo.SumCompletedByEmployee(ctx, tenantID, nil, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	tiers, err := s.tierRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.EmployeeID)
	}
	employees, err := s.employeeRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	calcs := make([]*commission.Calculation, 0, len(totals))
	skipped := 0
	for _, t := range totals {
		role := s.defaultRoleType
		if e, ok := employees[t.EmployeeID]; ok {
			role = e.RoleType
		}
		progress := commission.ResolveTier(tiers, t.TotalAmount, role)
		calc := commission.NewCalculation(tenantID, t.EmployeeID, period, t.TotalAmount, progress.Current)
		if calc == nil {
			skipped++
			continue
		}
		calcs = append(calcs, calc)
	}

	if len(calcs) > 0 {
		if err = s.calcRepo.CreateBatch(ctx, calcs); err != nil {
			return nil, err
		}
	}

	logger.Enrich(ctx, s.logger).Info("commission batch calculated",
		zap.String("period_type", string(periodType)),
		zap.Time("period_start", period.Start),
		zap.Int("created", len(calcs)),
		zap.Int("skipped", skipped),
	)

	result = &BatchResult{
		PeriodType:   string(period.Type),
		PeriodStart:  period.Start,
		PeriodEnd:    period.End,
		Calculations: make([]CalculationResponse, 0, len(calcs)),
		Created:      len(calcs),
		Skipped:      skipped,
	}
	events := make([]shared.DomainEvent, 0, len(calcs))
	for _, c := range calcs {
		result.Calculations = append(result.Calculations, ToCalculationResponse(c))
		events = append(events, c.GetDomainEvents()...)
		c.ClearDomainEvents()
	}
	s.publish(ctx, events)

	return result, nil
}

// ListCalculations lists recorded calculations
func (s *Service) ListCalculations(ctx context.Context, tenantID uuid.UUID, filter CalculationListFilter) ([]CalculationResponse, int64, error) {
	calcs, total, err := s.calcRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	out := make([]CalculationResponse, 0, len(calcs))
	for i := range calcs {
		out = append(out, ToCalculationResponse(&calcs[i]))
	}
	return out, total, nil
}

// MarkPaid flags a calculation as paid. Paying an already paid calculation
// succeeds and keeps the original payment time.
func (s *Service) MarkPaid(ctx context.Context, tenantID, calculationID uuid.UUID) (*CalculationResponse, error) {
	calc, err := s.calcRepo.FindByIDForTenant(ctx, tenantID, calculationID)
	if err != nil {
		return nil, err
	}
	if !calc.IsPaid {
		calc.MarkPaid()
		if err := s.calcRepo.SaveWithLock(ctx, calc); err != nil {
			return nil, err
		}
		s.publish(ctx, calc.GetDomainEvents())
		calc.ClearDomainEvents()
	}
	resp := ToCalculationResponse(calc)
	return &resp, nil
}

// GetPerformance derives an employee's month and year-to-date standing
func (s *Service) GetPerformance(ctx context.Context, tenantID, employeeID uuid.UUID, now time.Time) (*PerformanceResponse, error) {
	role, err := s.roleOf(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	month, err := commission.PeriodEnding(commission.PeriodMonthly, now)
	if err != nil {
		return nil, err
	}
	year, err := commission.PeriodEnding(commission.PeriodYearly, now)
	if err != nil {
		return nil, err
	}

	monthSales, err := s.employeeSales(ctx, tenantID, employeeID, month)
	if err != nil {
		return nil, err
	}
	ytdSales, err := s.employeeSales(ctx, tenantID, employeeID, year)
	if err != nil {
		return nil, err
	}
	ytdCommission, err := s.calcRepo.SumCommission(ctx, tenantID, employeeID, year.Start, year.Start.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}
	tiers, err := s.tierRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	progress := commission.ResolveTier(tiers, monthSales, role)
	resp := ToPerformanceResponse(commission.NewPerformanceMetric(employeeID, monthSales, ytdSales, ytdCommission, progress))
	return &resp, nil
}

// GetCommissionRate returns the rate of the tier month-to-date sales reach
func (s *Service) GetCommissionRate(ctx context.Context, tenantID, employeeID uuid.UUID, now time.Time) (*CommissionRateResponse, error) {
	role, err := s.roleOf(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	month, err := commission.PeriodEnding(commission.PeriodMonthly, now)
	if err != nil {
		return nil, err
	}
	monthSales, err := s.employeeSales(ctx, tenantID, employeeID, month)
	if err != nil {
		return nil, err
	}
	tiers, err := s.tierRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	progress := commission.ResolveTier(tiers, monthSales, role)
	return &CommissionRateResponse{
		EmployeeID:     employeeID,
		RoleType:       role,
		TierName:       progress.Current.TierName,
		CommissionRate: progress.Current.CommissionRate,
		MonthSales:     monthSales,
	}, nil
}

func (s *Service) roleOf(ctx context.Context, tenantID, employeeID uuid.UUID) (string, error) {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.defaultRoleType, nil
		}
		return "", err
	}
	return e.RoleType, nil
}

func (s *Service) employeeSales(ctx context.Context, tenantID, employeeID uuid.UUID, period commission.Period) (decimal.Decimal, error) {
	totals, err := s.orderRepo.SumCompletedByEmployee(ctx, tenantID, &employeeID, period.Start, period.End)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.TotalAmount)
	}
	return sum, nil
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish commission events", zap.Error(err))
	}
}
