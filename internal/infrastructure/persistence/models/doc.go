// Package models contains GORM persistence models for the catalog tables.
// Domain entities carry no ORM tags; each model maps to exactly one table and
// converts to and from its entity with ToDomain and FromDomain.
package models
