package till

import (
	"context"
	"errors"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxSaleAttempts bounds the reload-and-retry loop when a concurrent drawer
// operation bumps the session version between read and write.
const maxSaleAttempts = 3

// ApplySale adds a completed sale to an active session's totals through repo.
// Checkout calls it inside the same transaction that completes the order, so
// a failure here leaves the order pending. A closed session yields
// SESSION_NOT_ACTIVE.
func ApplySale(ctx context.Context, repo till.SessionRepository, tenantID, sessionID uuid.UUID, cashAmount, cardAmount decimal.Decimal) (*till.TillSession, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaleAttempts; attempt++ {
		session, err := repo.FindByIDForTenant(ctx, tenantID, sessionID)
		if err != nil {
			return nil, err
		}
		if err := session.RecordSale(cashAmount, cardAmount); err != nil {
			return nil, err
		}
		lastErr = repo.SaveWithLock(ctx, session, nil)
		if lastErr == nil {
			return session, nil
		}
		if !errors.Is(lastErr, shared.ErrConcurrencyConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
