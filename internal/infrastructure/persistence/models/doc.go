// Package models contains GORM persistence models that map to database tables.
// Models are separate from domain entities so the domain layer stays free of
// ORM tags. Each model converts with ToDomain and FromDomain.
//
// Structure:
//   - base.go: shared id and timestamp columns
//   - party.go: companies, funds, founders and investors
//   - investment.go: investments and their derived document fields
package models
