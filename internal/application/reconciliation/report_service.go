// Package reconciliation builds and stores the daily store reports that
// match takings against the till drawer.
package reconciliation

import (
	"context"
	"errors"

	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/glowpos/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService handles reconciliation report operations
type ReportService struct {
	reportRepo     reconciliation.ReportRepository
	orderRepo      sales.OrderRepository
	sessionRepo    till.SessionRepository
	archiver       reconciliation.Archiver
	thresholds     reconciliation.Thresholds
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReportService creates a new ReportService. A nil archiver disables
// archiving; zero thresholds fall back to the defaults.
func NewReportService(
	reportRepo reconciliation.ReportRepository,
	orderRepo sales.OrderRepository,
	sessionRepo till.SessionRepository,
	archiver reconciliation.Archiver,
	thresholds reconciliation.Thresholds,
	logger *zap.Logger,
) *ReportService {
	defaults := reconciliation.DefaultThresholds()
	if thresholds.CashVariance.IsZero() {
		thresholds.CashVariance = defaults.CashVariance
	}
	if thresholds.TopProducts <= 0 {
		thresholds.TopProducts = defaults.TopProducts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reportRepo:  reportRepo,
		orderRepo:   orderRepo,
		sessionRepo: sessionRepo,
		archiver:    archiver,
		thresholds:  thresholds,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Generate builds an unsaved report for a store and day
func (s *ReportService) Generate(ctx context.Context, tenantID, actorID, storeID uuid.UUID, date string) (*ReportResponse, error) {
	report, err := s.build(ctx, tenantID, actorID, storeID, date)
	if err != nil {
		return nil, err
	}
	resp := ToReportResponse(report)
	return &resp, nil
}

// Save regenerates the report and stores a new snapshot. Earlier snapshots
// of the same day are kept.
func (s *ReportService) Save(ctx context.Context, tenantID, actorID uuid.UUID, req SaveReportRequest) (resp *ReportResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "reconciliation.save_report",
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrStoreID.String(req.StoreID.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	report, err := s.build(ctx, tenantID, actorID, req.StoreID, req.Date)
	if err != nil {
		return nil, err
	}
	if err = report.Finalize(req.Status, req.Notes); err != nil {
		return nil, err
	}
	if err = s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	log := logger.Enrich(ctx, s.logger)
	log.Info("reconciliation report saved",
		zap.String("report_id", report.ID.String()),
		zap.String("store_id", report.StoreID.String()),
		zap.String("report_date", report.ReportDate.Format(DateLayout)),
		zap.String("status", string(report.Status)),
		zap.String("cash_variance", report.CashVariance.StringFixed(2)),
	)

	out := ToReportResponse(report)
	if s.archiver != nil {
		key, archiveErr := s.archiver.Archive(ctx, report)
		if archiveErr != nil {
			log.Warn("failed to archive reconciliation report",
				zap.String("report_id", report.ID.String()),
				zap.Error(archiveErr),
			)
		} else {
			out.ArchiveKey = key
		}
	}

	events := report.GetDomainEvents()
	report.ClearDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		if pubErr := s.eventPublisher.Publish(ctx, events...); pubErr != nil {
			log.Warn("failed to publish report events", zap.Error(pubErr))
		}
	}

	return &out, nil
}

// GetReport returns one saved report
func (s *ReportService) GetReport(ctx context.Context, tenantID, reportID uuid.UUID) (*ReportResponse, error) {
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}
	resp := ToReportResponse(report)
	return &resp, nil
}

// ListReports lists saved reports, newest first by default
func (s *ReportService) ListReports(ctx context.Context, tenantID uuid.UUID, filter ReportListFilter) ([]ReportResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	reports, total, err := s.reportRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, ToReportResponse(&reports[i]))
	}
	return out, total, nil
}

// build reads the day's completed orders and the latest till session that
// started that day, then aggregates them.
func (s *ReportService) build(ctx context.Context, tenantID, actorID, storeID uuid.UUID, date string) (*reconciliation.Report, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	from := reconciliation.ReportDay(day)
	to := from.AddDate(0, 0, 1)

	orders, err := s.orderRepo.FindCompletedBetween(ctx, tenantID, storeID, from, to)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindLatestStartedBetween(ctx, tenantID, storeID, from, to)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		session = nil
	}

	return reconciliation.Build(reconciliation.BuildInput{
		TenantID:    tenantID,
		StoreID:     storeID,
		Date:        from,
		Orders:      orders,
		TillSession: session,
		GeneratedBy: actorID,
	}, s.thresholds)
}
