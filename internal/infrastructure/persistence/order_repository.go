package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/infrastructure/persistence/models"
	"github.com/glowpos/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order with its items
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders without items
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.OrderFilter) ([]sales.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Scopes(tenant.Scope(tenantID))
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
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", filter.To.UTC())
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := applyFilter(query, filter.Filter, OrderSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]sales.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, total, nil
}

// FindCompletedBetween returns a store's completed orders, items included,
// whose completion time lies in [from, to)
func (r *GormOrderRepository) FindCompletedBetween(ctx context.Context, tenantID, storeID uuid.UUID, from, to time.Time) ([]sales.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Scopes(tenant.Scope(tenantID), tenant.Between("completed_at", from.UTC(), to.UTC())).
		Where("store_id = ? AND status = ?", storeID, sales.OrderStatusCompleted).
		Order("completed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]sales.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, nil
}

// SumCompletedByEmployee totals completed orders per employee in [from, to)
func (r *GormOrderRepository) SumCompletedByEmployee(ctx context.Context, tenantID uuid.UUID, employeeID *uuid.UUID, from, to time.Time) ([]sales.EmployeeSales, error) {
	type row struct {
		EmployeeID  uuid.UUID
		TotalAmount decimal.Decimal
		OrderCount  int64
	}

	query := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("employee_id, COALESCE(SUM(total_amount), 0) AS total_amount, COUNT(*) AS order_count").
		Scopes(tenant.Scope(tenantID), tenant.Between("completed_at", from.UTC(), to.UTC())).
		Where("status = ?", sales.OrderStatusCompleted)
	if employeeID != nil {
		query = query.Where("employee_id = ?", *employeeID)
	}

	var rows []row
	if err := query.Group("employee_id").Order("employee_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]sales.EmployeeSales, 0, len(rows))
	for _, s := range rows {
		result = append(result, sales.EmployeeSales{
			EmployeeID:  s.EmployeeID,
			TotalAmount: s.TotalAmount,
			OrderCount:  s.OrderCount,
		})
	}
	return result, nil
}

// Create inserts a new order with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &models.OrderModel{}
		model.FromDomain(order)
		items := model.Items
		model.Items = nil

		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return translateDuplicate(err, shared.NewDomainError("ALREADY_EXISTS", "Order number already in use"))
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock persists a status change with a version check
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	model := &models.OrderModel{}
	model.FromDomain(order)

	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", order.ID, order.TenantID, order.Version-1).
		Updates(map[string]any{
			"total_amount":   model.TotalAmount,
			"payment_method": model.PaymentMethod,
			"cash_amount":    model.CashAmount,
			"card_amount":    model.CardAmount,
			"status":         model.Status,
			"completed_at":   model.CompletedAt,
			"cancelled_at":   model.CancelledAt,
			"cancel_reason":  model.CancelReason,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateOrderNumber returns the next order number for the day.
// Format: ORD-YYYYMMDD-NNNNN (e.g., ORD-20260115-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	prefix := fmt.Sprintf("ORD-%s-", day.Format("20060102"))

	var last models.OrderModel
	err := r.db.WithContext(ctx).
		Select("order_number").
		Scopes(tenant.Scope(tenantID)).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if err == nil {
		var num int64
		if _, scanErr := fmt.Sscanf(strings.TrimPrefix(last.OrderNumber, prefix), "%d", &num); scanErr == nil {
			next = num + 1
		}
	}

	return fmt.Sprintf("%s%05d", prefix, next), nil
}

// Ensure GormOrderRepository implements sales.OrderRepository
var _ sales.OrderRepository = (*GormOrderRepository)(nil)
