package cache

import (
	"context"
	"time"

	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDirectoryTTL = 10 * time.Minute

// Directory resolves employee and product display names for feed
// enrichment. Lookups go L1 (in-process) -> L2 (Redis, optional) ->
// repository, and populate the tiers on the way back.
type Directory struct {
	l1        *InMemoryNameCache
	l2        NameStore
	employees identity.EmployeeRepository
	products  catalog.ProductRepository
	ttl       time.Duration
	logger    *zap.Logger
}

// DirectoryOption is a functional option for configuring the directory
type DirectoryOption func(*Directory)

// WithL2 sets the shared second-tier store
func WithL2(store NameStore) DirectoryOption {
	return func(d *Directory) {
		d.l2 = store
	}
}

// WithTTL sets how long names stay cached
func WithTTL(ttl time.Duration) DirectoryOption {
	return func(d *Directory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithLogger sets the logger for the directory
func WithLogger(logger *zap.Logger) DirectoryOption {
	return func(d *Directory) {
		d.logger = logger
	}
}

// NewDirectory creates a cached directory over the given repositories
func NewDirectory(employees identity.EmployeeRepository, products catalog.ProductRepository, opts ...DirectoryOption) *Directory {
	d := &Directory{
		l1:        NewInMemoryNameCache(),
		employees: employees,
		products:  products,
		ttl:       defaultDirectoryTTL,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// EmployeeName returns the full name of an employee
func (d *Directory) EmployeeName(ctx context.Context, tenantID, employeeID uuid.UUID) (string, error) {
	return d.lookup(ctx, employeeKey(tenantID, employeeID), func() (string, error) {
		e, err := d.employees.FindByIDForTenant(ctx, tenantID, employeeID)
		if err != nil {
			return "", err
		}
		return e.FullName, nil
	})
}

// ProductName returns the name of a product
func (d *Directory) ProductName(ctx context.Context, tenantID, productID uuid.UUID) (string, error) {
	return d.lookup(ctx, productKey(tenantID, productID), func() (string, error) {
		p, err := d.products.FindByIDForTenant(ctx, tenantID, productID)
		if err != nil {
			return "", err
		}
		return p.Name, nil
	})
}

// InvalidateEmployee drops an employee's cached name from both tiers
func (d *Directory) InvalidateEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) {
	d.invalidate(ctx, employeeKey(tenantID, employeeID))
}

// InvalidateProduct drops a product's cached name from both tiers
func (d *Directory) InvalidateProduct(ctx context.Context, tenantID, productID uuid.UUID) {
	d.invalidate(ctx, productKey(tenantID, productID))
}

func (d *Directory) invalidate(ctx context.Context, key string) {
	_ = d.l1.Delete(ctx, key)
	if d.l2 == nil {
		return
	}
	if err := d.l2.Delete(ctx, key); err != nil {
		d.logger.Warn("Failed to invalidate L2 name cache", zap.String("key", key), zap.Error(err))
	}
}

func employeeKey(tenantID, id uuid.UUID) string {
	return "employee:" + tenantID.String() + ":" + id.String()
}

func productKey(tenantID, id uuid.UUID) string {
	return "product:" + tenantID.String() + ":" + id.String()
}

// Close stops the local tier's cleanup goroutine
func (d *Directory) Close() {
	d.l1.Stop()
}

func (d *Directory) lookup(ctx context.Context, key string, load func() (string, error)) (string, error) {
	if name, ok, _ := d.l1.Get(ctx, key); ok {
		return name, nil
	}

	if d.l2 != nil {
		name, ok, err := d.l2.Get(ctx, key)
		if err != nil {
			d.logger.Warn("L2 name cache error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			_ = d.l1.Set(ctx, key, name, d.ttl)
			return name, nil
		}
	}

	name, err := load()
	if err != nil {
		return "", err
	}

	_ = d.l1.Set(ctx, key, name, d.ttl)
	if d.l2 != nil {
		if err := d.l2.Set(ctx, key, name, d.ttl); err != nil {
			d.logger.Warn("Failed to populate L2 name cache", zap.String("key", key), zap.Error(err))
		}
	}
	return name, nil
}

var _ realtime.Directory = (*Directory)(nil)
