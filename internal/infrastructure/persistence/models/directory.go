package models

import (
	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for a catalog product
type ProductModel struct {
	TenantAggregateModel
	SKU        string          `gorm:"column:sku;type:varchar(50);not null;index"`
	Name       string          `gorm:"type:varchar(200);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LowStockAt int             `gorm:"not null;default:0"`
	IsActive   bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		SKU:                 m.SKU,
		Name:                m.Name,
		Price:               m.Price,
		LowStockAt:          m.LowStockAt,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Price = p.Price
	m.LowStockAt = p.LowStockAt
	m.IsActive = p.IsActive
}

// EmployeeModel is the persistence model for a staff member
type EmployeeModel struct {
	TenantAggregateModel
	StoreID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName string    `gorm:"type:varchar(200);not null"`
	Email    string    `gorm:"type:varchar(200)"`
	RoleType string    `gorm:"type:varchar(50);not null;default:'general'"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee
func (m *EmployeeModel) ToDomain() *identity.Employee {
	return &identity.Employee{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		StoreID:             m.StoreID,
		FullName:            m.FullName,
		Email:               m.Email,
		RoleType:            m.RoleType,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Employee
func (m *EmployeeModel) FromDomain(e *identity.Employee) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.StoreID = e.StoreID
	m.FullName = e.FullName
	m.Email = e.Email
	m.RoleType = e.RoleType
	m.IsActive = e.IsActive
}
