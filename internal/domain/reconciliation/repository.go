package reconciliation

import (
	"context"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportFilter defines filtering options for report queries
type ReportFilter struct {
	shared.Filter
	StoreID *uuid.UUID
	Status  *ReportStatus
}

// ReportRepository stores report snapshots. Reports are insert-only.
type ReportRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Report, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ReportFilter) ([]Report, int64, error)
	Create(ctx context.Context, report *Report) error
}

// Archiver keeps an off-database copy of saved reports
type Archiver interface {
	Archive(ctx context.Context, report *Report) (string, error)
}
