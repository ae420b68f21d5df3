package identity

import (
	"strings"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Employee is a staff member. Its ID is the user id carried in access tokens.
type Employee struct {
	shared.TenantAggregateRoot
	StoreID  uuid.UUID `json:"store_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	RoleType string    `json:"role_type"`
	IsActive bool      `json:"is_active"`
}

// NewEmployee creates an active employee. A nil id generates one.
func NewEmployee(tenantID, id, storeID uuid.UUID, fullName, email, roleType string) (*Employee, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if roleType == "" {
		roleType = "general"
	}

	e := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StoreID:             storeID,
		FullName:            strings.TrimSpace(fullName),
		Email:               strings.ToLower(strings.TrimSpace(email)),
		RoleType:            strings.ToLower(roleType),
		IsActive:            true,
	}
	if id != uuid.Nil {
		e.ID = id
	}
	return e, nil
}

// BusinessContext is what a signed-in employee works against
type BusinessContext struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	StoreID    uuid.UUID `json:"store_id"`
	RoleType   string    `json:"role_type"`
	FullName   string    `json:"full_name"`
}

// Context returns the employee's business context
func (e *Employee) Context() BusinessContext {
	return BusinessContext{
		TenantID:   e.TenantID,
		EmployeeID: e.ID,
		StoreID:    e.StoreID,
		RoleType:   e.RoleType,
		FullName:   e.FullName,
	}
}

// UpdateProfile changes the display name and role. Empty values keep the
// current ones.
func (e *Employee) UpdateProfile(fullName, roleType string) error {
	if fullName != "" {
		if strings.TrimSpace(fullName) == "" {
			return shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
		}
		e.FullName = strings.TrimSpace(fullName)
	}
	if roleType != "" {
		e.RoleType = strings.ToLower(strings.TrimSpace(roleType))
	}
	e.IncrementVersion()
	return nil
}

// SetActive enables or disables the employee
func (e *Employee) SetActive(active bool) {
	if e.IsActive == active {
		return
	}
	e.IsActive = active
	e.IncrementVersion()
}
