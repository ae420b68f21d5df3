// Package identity manages staff records and the signed-in business context.
package identity

import (
	"context"
	"errors"

	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NameCache drops cached display names after a rename
type NameCache interface {
	InvalidateEmployee(ctx context.Context, tenantID, employeeID uuid.UUID)
}

// EmployeeService handles staff operations
type EmployeeService struct {
	repo      identity.EmployeeRepository
	nameCache NameCache
	logger    *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repo identity.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, logger: logger}
}

// SetNameCache sets the cache invalidated when names change
func (s *EmployeeService) SetNameCache(c NameCache) {
	s.nameCache = c
}

// Create registers a staff member
func (s *EmployeeService) Create(ctx context.Context, tenantID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	id := uuid.Nil
	if req.ID != nil {
		id = *req.ID
		_, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
		if err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee already exists")
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	employee, err := identity.NewEmployee(tenantID, id, req.StoreID, req.FullName, req.Email, req.RoleType)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("role_type", employee.RoleType))

	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// Update changes a staff member's profile
func (s *EmployeeService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := employee.UpdateProfile(req.FullName, req.RoleType); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		employee.SetActive(*req.IsActive)
	}
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, err
	}
	if s.nameCache != nil {
		s.nameCache.InvalidateEmployee(ctx, tenantID, id)
	}

	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// GetByID returns a staff member
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// List returns a page of staff members
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.repo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToEmployeeResponses(employees), total, nil
}

// GetContext returns the business context of the signed-in user. A user
// without an employee record, or a deactivated one, has no context.
func (s *EmployeeService) GetContext(ctx context.Context, tenantID, userID uuid.UUID) (*identity.BusinessContext, error) {
	employee, err := s.repo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "No employee record for this user")
		}
		return nil, err
	}
	if !employee.IsActive {
		return nil, shared.NewDomainError("FORBIDDEN", "Employee is deactivated")
	}
	bc := employee.Context()
	return &bc, nil
}
