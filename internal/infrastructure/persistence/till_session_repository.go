package persistence

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/glowpos/backend/internal/infrastructure/persistence/models"
	"github.com/glowpos/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTillSessionRepository implements till.SessionRepository using GORM
type GormTillSessionRepository struct {
	db *gorm.DB
}

// NewGormTillSessionRepository creates a new GormTillSessionRepository
func NewGormTillSessionRepository(db *gorm.DB) *GormTillSessionRepository {
	return &GormTillSessionRepository{db: db}
}

// FindByIDForTenant finds a session by ID for a specific tenant
func (r *GormTillSessionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*till.TillSession, error) {
	var model models.TillSessionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindActive finds the active session of an employee at a store
func (r *GormTillSessionRepository) FindActive(ctx context.Context, tenantID, storeID, employeeID uuid.UUID) (*till.TillSession, error) {
	var model models.TillSessionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("store_id = ? AND employee_id = ? AND status = ?", storeID, employeeID, till.SessionStatusActive).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindLatestStartedBetween finds the most recently started session of a
// store whose start lies in [from, to)
func (r *GormTillSessionRepository) FindLatestStartedBetween(ctx context.Context, tenantID, storeID uuid.UUID, from, to time.Time) (*till.TillSession, error) {
	var model models.TillSessionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), tenant.Between("session_start", from.UTC(), to.UTC())).
		Where("store_id = ?", storeID).
		Order("session_start DESC").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists sessions for a tenant
func (r *GormTillSessionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter till.SessionFilter) ([]till.TillSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TillSessionModel{}).Scopes(tenant.Scope(tenantID))
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("session_start >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("session_start < ?", filter.To.UTC())
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TillSessionModel
	if err := applyFilter(query, filter.Filter, TillSessionSortFields, "session_start").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	sessions := make([]till.TillSession, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, *rows[i].ToDomain())
	}
	return sessions, total, nil
}

// Create inserts a new session together with its opening operation.
// A second active session for the same employee and store is rejected by
// the partial unique index.
func (r *GormTillSessionRepository) Create(ctx context.Context, session *till.TillSession, op *till.CashOperation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &models.TillSessionModel{}
		model.FromDomain(session)
		if err := tx.Create(model).Error; err != nil {
			return translateDuplicate(err, till.ErrSessionAlreadyActive)
		}
		if op != nil {
			if err := tx.Create(models.CashOperationModelFromDomain(op)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock persists a mutated session. The session's version has already
// been incremented by the domain, so the stored row must hold Version-1.
func (r *GormTillSessionRepository) SaveWithLock(ctx context.Context, session *till.TillSession, op *till.CashOperation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &models.TillSessionModel{}
		model.FromDomain(session)

		result := tx.Model(&models.TillSessionModel{}).
			Where("id = ? AND tenant_id = ? AND version = ?", session.ID, session.TenantID, session.Version-1).
			Updates(map[string]any{
				"closing_cash":      model.ClosingCash,
				"total_sales":       model.TotalSales,
				"total_cash_sales":  model.TotalCashSales,
				"total_card_sales":  model.TotalCardSales,
				"total_cash_drops":  model.TotalCashDrops,
				"transaction_count": model.TransactionCount,
				"cash_variance":     model.CashVariance,
				"status":            model.Status,
				"session_end":       model.SessionEnd,
				"notes":             model.Notes,
				"version":           model.Version,
				"updated_at":        model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if op != nil {
			if err := tx.Create(models.CashOperationModelFromDomain(op)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendOperation appends an operation that leaves the session totals alone.
// The guard update touches only updated_at and matches the loaded version,
// so the insert races neither a close nor a concurrent totals change.
func (r *GormTillSessionRepository) AppendOperation(ctx context.Context, session *till.TillSession, op *till.CashOperation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TillSessionModel{}).
			Where("id = ? AND tenant_id = ? AND version = ? AND status = ?",
				session.ID, session.TenantID, session.Version, string(till.SessionStatusActive)).
			Update("updated_at", time.Now())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.explainStaleSession(tx, session)
		}
		return tx.Create(models.CashOperationModelFromDomain(op)).Error
	})
}

// explainStaleSession tells apart why a guarded write matched no row
func (r *GormTillSessionRepository) explainStaleSession(tx *gorm.DB, session *till.TillSession) error {
	var statuses []string
	if err := tx.Model(&models.TillSessionModel{}).
		Where("id = ? AND tenant_id = ?", session.ID, session.TenantID).
		Pluck("status", &statuses).Error; err != nil {
		return err
	}
	switch {
	case len(statuses) == 0:
		return shared.ErrNotFound
	case statuses[0] != string(till.SessionStatusActive):
		return till.ErrSessionNotActive
	default:
		return shared.ErrConcurrencyConflict
	}
}

// ListOperations returns the operations of a session oldest first
func (r *GormTillSessionRepository) ListOperations(ctx context.Context, tenantID, sessionID uuid.UUID) ([]till.CashOperation, error) {
	var rows []models.CashOperationModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	ops := make([]till.CashOperation, 0, len(rows))
	for i := range rows {
		ops = append(ops, rows[i].ToDomain())
	}
	return ops, nil
}

// Ensure GormTillSessionRepository implements till.SessionRepository
var _ till.SessionRepository = (*GormTillSessionRepository)(nil)
