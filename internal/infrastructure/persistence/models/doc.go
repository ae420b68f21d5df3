// Package models holds the GORM persistence models. Each model maps to one
// table and converts to and from its domain type with ToDomain/FromDomain;
// domain packages never carry gorm tags.
package models
