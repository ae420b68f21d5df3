package persistence

import (
	"context"

	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/till"
	"gorm.io/gorm"
)

// GormCheckoutScope implements sales.CheckoutScope using GORM transactions.
// Completing an order and posting it to the till commit or roll back together.
type GormCheckoutScope struct {
	db *gorm.DB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *gorm.DB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos sales.CheckoutRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCheckoutRepositories{tx: tx})
	})
}

type gormCheckoutRepositories struct {
	tx *gorm.DB
}

// Orders returns the order repository scoped to the current transaction
func (r *gormCheckoutRepositories) Orders() sales.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Sessions returns the till session repository scoped to the current transaction
func (r *gormCheckoutRepositories) Sessions() till.SessionRepository {
	return NewGormTillSessionRepository(r.tx)
}

var (
	_ sales.CheckoutScope        = (*GormCheckoutScope)(nil)
	_ sales.CheckoutRepositories = (*gormCheckoutRepositories)(nil)
)
