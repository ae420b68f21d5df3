package persistence

import (
	"context"

	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/infrastructure/persistence/models"
	"github.com/glowpos/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReconciliationReportRepository implements reconciliation.ReportRepository using GORM
type GormReconciliationReportRepository struct {
	db *gorm.DB
}

// NewGormReconciliationReportRepository creates a new GormReconciliationReportRepository
func NewGormReconciliationReportRepository(db *gorm.DB) *GormReconciliationReportRepository {
	return &GormReconciliationReportRepository{db: db}
}

// FindByIDForTenant finds a report by ID for a tenant
func (r *GormReconciliationReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reconciliation.Report, error) {
	var model models.ReconciliationReportModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists saved reports, newest report date first by default
func (r *GormReconciliationReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter reconciliation.ReportFilter) ([]reconciliation.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReconciliationReportModel{}).Scopes(tenant.Scope(tenantID))
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("report_date >= ?", reconciliation.ReportDay(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("report_date < ?", reconciliation.ReportDay(*filter.To))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReconciliationReportModel
	if err := applyFilter(query, filter.Filter, ReconciliationReportSortFields, "report_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]reconciliation.Report, 0, len(rows))
	for i := range rows {
		reports = append(reports, *rows[i].ToDomain())
	}
	return reports, total, nil
}

// Create inserts a report snapshot. Saving the same store and day twice
// keeps both snapshots.
func (r *GormReconciliationReportRepository) Create(ctx context.Context, report *reconciliation.Report) error {
	model := &models.ReconciliationReportModel{}
	model.FromDomain(report)
	return r.db.WithContext(ctx).Create(model).Error
}

// Ensure GormReconciliationReportRepository implements reconciliation.ReportRepository
var _ reconciliation.ReportRepository = (*GormReconciliationReportRepository)(nil)
