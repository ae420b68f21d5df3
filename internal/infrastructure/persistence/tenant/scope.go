// Package tenant provides tenant scoping for GORM queries.
//
// Every POS table carries a tenant_id column. Repositories chain
// Scopes(tenant.Scope(id)) so no query reaches another tenant's rows.
package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope restricts a query to one tenant
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// Between restricts column to the half-open window [from, to)
func Between(column string, from, to any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", from, to)
	}
}
