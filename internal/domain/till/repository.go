package till

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrSessionAlreadyActive is returned when an employee already holds an
// active session at the store
var ErrSessionAlreadyActive = shared.NewDomainError("SESSION_ALREADY_ACTIVE", "Employee already has an active till session at this store")

// ErrSessionNotActive is returned when a write targets a session that has
// been closed since it was loaded
var ErrSessionNotActive = shared.NewDomainError("SESSION_NOT_ACTIVE", "Till session is not active")

// SessionFilter defines filtering options for till session queries
type SessionFilter struct {
	shared.Filter
	StoreID    *uuid.UUID
	EmployeeID *uuid.UUID
	Status     *SessionStatus
}

// SessionRepository persists till sessions and their drawer operations
type SessionRepository interface {
	// FindByIDForTenant finds a session by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*TillSession, error)

	// FindActive finds the active session of an employee at a store
	FindActive(ctx context.Context, tenantID, storeID, employeeID uuid.UUID) (*TillSession, error)

	// FindLatestStartedBetween finds the most recently started session of a
	// store whose start lies in [from, to)
	FindLatestStartedBetween(ctx context.Context, tenantID, storeID uuid.UUID, from, to time.Time) (*TillSession, error)

	// FindAllForTenant lists sessions for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SessionFilter) ([]TillSession, int64, error)

	// Create inserts a new session together with its opening operation
	Create(ctx context.Context, session *TillSession, op *CashOperation) error

	// SaveWithLock persists a mutated session with a version check and, when
	// op is not nil, appends the operation in the same transaction
	SaveWithLock(ctx context.Context, session *TillSession, op *CashOperation) error

	// AppendOperation appends an operation that leaves the session totals
	// alone. The session must still be active and at the loaded version.
	AppendOperation(ctx context.Context, session *TillSession, op *CashOperation) error

	// ListOperations returns the operations of a session oldest first
	ListOperations(ctx context.Context, tenantID, sessionID uuid.UUID) ([]CashOperation, error)
}
