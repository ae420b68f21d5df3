package persistence

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/infrastructure/persistence/models"
	"github.com/glowpos/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCommissionTierRepository implements commission.TierRepository using GORM
type GormCommissionTierRepository struct {
	db *gorm.DB
}

// NewGormCommissionTierRepository creates a new GormCommissionTierRepository
func NewGormCommissionTierRepository(db *gorm.DB) *GormCommissionTierRepository {
	return &GormCommissionTierRepository{db: db}
}

// FindByIDForTenant finds a tier by ID for a tenant
func (r *GormCommissionTierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.Tier, error) {
	var model models.CommissionTierModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindActive returns active tiers ordered ascending by target amount
func (r *GormCommissionTierRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]commission.Tier, error) {
	var rows []models.CommissionTierModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("is_active = ?", true).
		Order("target_amount ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	tiers := make([]commission.Tier, 0, len(rows))
	for i := range rows {
		tiers = append(tiers, *rows[i].ToDomain())
	}
	return tiers, nil
}

// Save creates or updates a tier
func (r *GormCommissionTierRepository) Save(ctx context.Context, tier *commission.Tier) error {
	model := &models.CommissionTierModel{}
	model.FromDomain(tier)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant removes a tier
func (r *GormCommissionTierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Delete(&models.CommissionTierModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormCommissionCalculationRepository implements commission.CalculationRepository
// on the commission_payments table
type GormCommissionCalculationRepository struct {
	db *gorm.DB
}

// NewGormCommissionCalculationRepository creates a new GormCommissionCalculationRepository
func NewGormCommissionCalculationRepository(db *gorm.DB) *GormCommissionCalculationRepository {
	return &GormCommissionCalculationRepository{db: db}
}

// FindByIDForTenant finds a calculation by ID for a tenant
func (r *GormCommissionCalculationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.Calculation, error) {
	var model models.CommissionPaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists calculations for a tenant
func (r *GormCommissionCalculationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter commission.CalculationFilter) ([]commission.Calculation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionPaymentModel{}).Scopes(tenant.Scope(tenantID))
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.PeriodType != nil {
		query = query.Where("period_type = ?", *filter.PeriodType)
	}
	if filter.IsPaid != nil {
		query = query.Where("is_paid = ?", *filter.IsPaid)
	}
	if filter.From != nil {
		query = query.Where("period_start >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("period_start < ?", filter.To.UTC())
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CommissionPaymentModel
	if err := applyFilter(query, filter.Filter, CommissionPaymentSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	calcs := make([]commission.Calculation, 0, len(rows))
	for i := range rows {
		calcs = append(calcs, *rows[i].ToDomain())
	}
	return calcs, total, nil
}

// CreateBatch inserts all calculations in one transaction
func (r *GormCommissionCalculationRepository) CreateBatch(ctx context.Context, calcs []*commission.Calculation) error {
	if len(calcs) == 0 {
		return nil
	}
	rows := make([]models.CommissionPaymentModel, len(calcs))
	for i, c := range calcs {
		rows[i].FromDomain(c)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, 100).Error
	})
}

// SaveWithLock persists the paid flag with a version check
func (r *GormCommissionCalculationRepository) SaveWithLock(ctx context.Context, calc *commission.Calculation) error {
	model := &models.CommissionPaymentModel{}
	model.FromDomain(calc)

	result := r.db.WithContext(ctx).
		Model(&models.CommissionPaymentModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", calc.ID, calc.TenantID, calc.Version-1).
		Updates(map[string]any{
			"is_paid":    model.IsPaid,
			"paid_at":    model.PaidAt,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SumCommission totals recorded commission of an employee whose period
// starts in [from, to)
func (r *GormCommissionCalculationRepository) SumCommission(ctx context.Context, tenantID, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.CommissionPaymentModel{}).
		Select("SUM(commission_amount)").
		Scopes(tenant.Scope(tenantID), tenant.Between("period_start", from.UTC(), to.UTC())).
		Where("employee_id = ?", employeeID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Ensure the repositories implement their domain interfaces
var (
	_ commission.TierRepository        = (*GormCommissionTierRepository)(nil)
	_ commission.CalculationRepository = (*GormCommissionCalculationRepository)(nil)
)
