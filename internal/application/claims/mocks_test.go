package claims

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/stretchr/testify/mock"
)

// MockClaimRepository is a mock implementation of claims.ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) FindByNumber(ctx context.Context, numSiniestro int64) (*claims.Claim, error) {
	args := m.Called(ctx, numSiniestro)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindByNumberForUpdate(ctx context.Context, numSiniestro int64) (*claims.Claim, error) {
	args := m.Called(ctx, numSiniestro)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindAll(ctx context.Context, filter claims.ClaimFilter) ([]claims.Claim, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]claims.Claim), args.Get(1).(int64), args.Error(2)
}

func (m *MockClaimRepository) UpdateReserveTotal(ctx context.Context, claim *claims.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) FindPolicy(ctx context.Context, codRamo string, numPoliza int64) (*claims.Policy, error) {
	args := m.Called(ctx, codRamo, numPoliza)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Policy), args.Error(1)
}

func (m *MockClaimRepository) FindCertificate(ctx context.Context, key claims.CertificateKey) (*claims.Certificate, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Certificate), args.Error(1)
}

func (m *MockClaimRepository) FindDeclaration(ctx context.Context, key claims.CertificateKey, numDeclaracion int64) (*claims.TransportDeclaration, error) {
	args := m.Called(ctx, key, numDeclaracion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.TransportDeclaration), args.Error(1)
}

// MockCoverageRepository is a mock implementation of claims.CoverageRepository
type MockCoverageRepository struct {
	mock.Mock
}

func (m *MockCoverageRepository) FindCatalog(ctx context.Context, codRamo string) ([]claims.Coverage, error) {
	args := m.Called(ctx, codRamo)
	return args.Get(0).([]claims.Coverage), args.Error(1)
}

func (m *MockCoverageRepository) FindCertificateCoverages(ctx context.Context, key claims.CertificateKey) ([]claims.CertificateCoverage, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]claims.CertificateCoverage), args.Error(1)
}

func (m *MockCoverageRepository) FindLucLimits(ctx context.Context, key claims.CertificateKey) ([]claims.LucLimit, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]claims.LucLimit), args.Error(1)
}

func (m *MockCoverageRepository) FindReserveAccounts(ctx context.Context) ([]claims.ReserveAccounts, error) {
	args := m.Called(ctx)
	return args.Get(0).([]claims.ReserveAccounts), args.Error(1)
}

// MockReserveRepository is a mock implementation of claims.ReserveRepository
type MockReserveRepository struct {
	mock.Mock
}

func (m *MockReserveRepository) FindByClaim(ctx context.Context, numSiniestro int64) ([]claims.Reserve, error) {
	args := m.Called(ctx, numSiniestro)
	return args.Get(0).([]claims.Reserve), args.Error(1)
}

func (m *MockReserveRepository) FindOne(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (*claims.Reserve, error) {
	args := m.Called(ctx, numSiniestro, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Reserve), args.Error(1)
}

func (m *MockReserveRepository) Create(ctx context.Context, reserve *claims.Reserve) error {
	args := m.Called(ctx, reserve)
	return args.Error(0)
}

func (m *MockReserveRepository) Update(ctx context.Context, reserve *claims.Reserve) error {
	args := m.Called(ctx, reserve)
	return args.Error(0)
}

func (m *MockReserveRepository) Delete(ctx context.Context, numSiniestro int64, key claims.CoverageKey) error {
	args := m.Called(ctx, numSiniestro, key)
	return args.Error(0)
}

func (m *MockReserveRepository) FindPage(ctx context.Context, afterSiniestro int64, limit int) ([]claims.Reserve, error) {
	args := m.Called(ctx, afterSiniestro, limit)
	return args.Get(0).([]claims.Reserve), args.Error(1)
}

// MockMovementRepository is a mock implementation of claims.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) FindByClaim(ctx context.Context, numSiniestro int64) ([]claims.Movement, error) {
	args := m.Called(ctx, numSiniestro)
	return args.Get(0).([]claims.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindCoverageMovements(ctx context.Context, numSiniestro int64) ([]claims.CoverageMovement, error) {
	args := m.Called(ctx, numSiniestro)
	return args.Get(0).([]claims.CoverageMovement), args.Error(1)
}

func (m *MockMovementRepository) CountCoverageMovements(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (int64, error) {
	args := m.Called(ctx, numSiniestro, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) SumCertificatePayments(ctx context.Context, cert claims.CertificateKey, key claims.CoverageKey) (decimal.Decimal, error) {
	args := m.Called(ctx, cert, key)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMovementRepository) NextNumber(ctx context.Context, numSiniestro int64) (int, error) {
	args := m.Called(ctx, numSiniestro)
	return args.Int(0), args.Error(1)
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *claims.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) Exists(ctx context.Context, numSiniestro int64, numMovimiento int) (bool, error) {
	args := m.Called(ctx, numSiniestro, numMovimiento)
	return args.Bool(0), args.Error(1)
}

// MockLedgerRepository is a mock implementation of claims.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) NextEntryNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) CreateEntries(ctx context.Context, entries []claims.AccountingEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByMovement(ctx context.Context, numSiniestro int64, numMovimiento int) ([]claims.AccountingEntry, error) {
	args := m.Called(ctx, numSiniestro, numMovimiento)
	return args.Get(0).([]claims.AccountingEntry), args.Error(1)
}

// fakeIdempotencyStore remembers keys in a map
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (f *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func (f *fakeIdempotencyStore) Forget(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
	return nil
}

func (f *fakeIdempotencyStore) Close() error { return nil }

// busyLocker always reports the claim as held elsewhere
type busyLocker struct{}

func (busyLocker) Lock(context.Context, int64) (func(context.Context) error, error) {
	return nil, claims.ErrClaimBusy
}
