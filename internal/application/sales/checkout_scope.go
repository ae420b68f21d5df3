package sales

import (
	"context"

	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/till"
)

// NoOpCheckoutScope runs checkout writes without a shared transaction.
// Useful in tests backed by mocks.
type NoOpCheckoutScope struct {
	orderRepo   sales.OrderRepository
	sessionRepo till.SessionRepository
}

// NewNoOpCheckoutScope creates a NoOpCheckoutScope over the given repositories
func NewNoOpCheckoutScope(orderRepo sales.OrderRepository, sessionRepo till.SessionRepository) *NoOpCheckoutScope {
	return &NoOpCheckoutScope{
		orderRepo:   orderRepo,
		sessionRepo: sessionRepo,
	}
}

// Execute runs fn directly against the wrapped repositories
func (s *NoOpCheckoutScope) Execute(_ context.Context, fn func(repos sales.CheckoutRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpCheckoutScope) Orders() sales.OrderRepository {
	return s.orderRepo
}

// Sessions returns the till session repository
func (s *NoOpCheckoutScope) Sessions() till.SessionRepository {
	return s.sessionRepo
}

var _ sales.CheckoutScope = (*NoOpCheckoutScope)(nil)
