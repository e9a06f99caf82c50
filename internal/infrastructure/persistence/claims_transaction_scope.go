package persistence

import (
	"context"

	appclaims "github.com/siniestros/backend/internal/application/claims"
	"github.com/siniestros/backend/internal/domain/claims"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appclaims.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Claims returns the claim repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Claims() claims.ClaimRepository {
	return NewGormClaimRepository(r.tx)
}

// Coverages returns the coverage repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Coverages() claims.CoverageRepository {
	return NewGormCoverageRepository(r.tx)
}

// Reserves returns the reserve repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Reserves() claims.ReserveRepository {
	return NewGormReserveRepository(r.tx)
}

// Movements returns the movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Movements() claims.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Ledger returns the accounting entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledger() claims.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appclaims.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appclaims.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
