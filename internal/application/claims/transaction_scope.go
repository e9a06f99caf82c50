package claims

import (
	"context"

	"github.com/siniestros/backend/internal/domain/claims"
)

// TransactionScope provides transactional access to the claims repositories.
// All repository operations executed inside Execute are committed or rolled
// back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the claims repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	// Claims returns the claim repository scoped to the current transaction
	Claims() claims.ClaimRepository
	// Coverages returns the coverage repository scoped to the current transaction
	Coverages() claims.CoverageRepository
	// Reserves returns the reserve repository scoped to the current transaction
	Reserves() claims.ReserveRepository
	// Movements returns the movement repository scoped to the current transaction
	Movements() claims.MovementRepository
	// Ledger returns the accounting entry repository scoped to the current transaction
	Ledger() claims.LedgerRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	claimRepo    claims.ClaimRepository
	coverageRepo claims.CoverageRepository
	reserveRepo  claims.ReserveRepository
	movementRepo claims.MovementRepository
	ledgerRepo   claims.LedgerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	claimRepo claims.ClaimRepository,
	coverageRepo claims.CoverageRepository,
	reserveRepo claims.ReserveRepository,
	movementRepo claims.MovementRepository,
	ledgerRepo claims.LedgerRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		claimRepo:    claimRepo,
		coverageRepo: coverageRepo,
		reserveRepo:  reserveRepo,
		movementRepo: movementRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Claims returns the claim repository.
func (s *NoOpTransactionScope) Claims() claims.ClaimRepository {
	return s.claimRepo
}

// Coverages returns the coverage repository.
func (s *NoOpTransactionScope) Coverages() claims.CoverageRepository {
	return s.coverageRepo
}

// Reserves returns the reserve repository.
func (s *NoOpTransactionScope) Reserves() claims.ReserveRepository {
	return s.reserveRepo
}

// Movements returns the movement repository.
func (s *NoOpTransactionScope) Movements() claims.MovementRepository {
	return s.movementRepo
}

// Ledger returns the accounting entry repository.
func (s *NoOpTransactionScope) Ledger() claims.LedgerRepository {
	return s.ledgerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
