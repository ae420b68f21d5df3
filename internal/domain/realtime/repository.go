package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CounterSource recomputes dashboard counters from storage
type CounterSource interface {
	// LoadCounters aggregates counters for the day starting at dayStart
	LoadCounters(ctx context.Context, tenantID uuid.UUID, dayStart time.Time) (Counters, error)
}

// Directory resolves display names for enrichment
type Directory interface {
	EmployeeName(ctx context.Context, tenantID, employeeID uuid.UUID) (string, error)
	ProductName(ctx context.Context, tenantID, productID uuid.UUID) (string, error)
}
