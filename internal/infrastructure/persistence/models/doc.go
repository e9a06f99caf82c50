// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities are free of GORM tags and infrastructure concerns
// 2. Persistence models carry the GORM annotations and legacy table names
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - policy.go: polizas, certificados, declaraciones_transporte
// - coverage.go: coverage catalog, certificate coverages, LUC limits, reserve accounts
// - claims.go: siniestros, reserve rows, movements
// - ledger.go: asientos_contables
// - identity.go: usuarios
package models
