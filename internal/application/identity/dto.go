package identity

import (
	"time"

	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateEmployeeRequest registers a staff member. ID, when set, must be the
// user id carried in that person's access tokens.
type CreateEmployeeRequest struct {
	ID       *uuid.UUID `json:"id"`
	StoreID  uuid.UUID  `json:"store_id" binding:"required"`
	FullName string     `json:"full_name" binding:"required,max=200"`
	Email    string     `json:"email" binding:"omitempty,email,max=200"`
	RoleType string     `json:"role_type" binding:"omitempty,max=50"`
}

// UpdateEmployeeRequest changes a staff member's profile
type UpdateEmployeeRequest struct {
	FullName string `json:"full_name" binding:"omitempty,max=200"`
	RoleType string `json:"role_type" binding:"omitempty,max=50"`
	IsActive *bool  `json:"is_active"`
}

// EmployeeListFilter is the list query for employees
type EmployeeListFilter struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	StoreID  *uuid.UUID `form:"store_id"`
}

func (f EmployeeListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "full_name"
	filter.OrderDir = "asc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.StoreID != nil {
		filter.Filters = map[string]interface{}{"store_id": *f.StoreID}
	}
	return filter
}

// EmployeeResponse is the API view of an employee
type EmployeeResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	StoreID   uuid.UUID `json:"store_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	RoleType  string    `json:"role_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToEmployeeResponse converts a domain Employee to its response
func ToEmployeeResponse(e *identity.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		TenantID:  e.TenantID,
		StoreID:   e.StoreID,
		FullName:  e.FullName,
		Email:     e.Email,
		RoleType:  e.RoleType,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Version:   e.Version,
	}
}

// ToEmployeeResponses converts a slice of employees
func ToEmployeeResponses(employees []identity.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out
}
