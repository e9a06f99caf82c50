package claims

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/shared"
)

// ClaimFilter defines filtering options for claim queries
type ClaimFilter struct {
	shared.Filter
	CodRamo        string       // Filter by line of business
	NumPoliza      *int64       // Filter by policy
	NumCertificado *int64       // Filter by certificate
	Estado         *ClaimStatus // Filter by status
	OcurridoDesde  *time.Time   // Occurrence date range start
	OcurridoHasta  *time.Time   // Occurrence date range end
}

// ClaimRepository defines persistence for claims and the policy data they reference
type ClaimRepository interface {
	// FindByNumber finds a claim by number
	FindByNumber(ctx context.Context, numSiniestro int64) (*Claim, error)

	// FindByNumberForUpdate finds a claim and locks its row until the transaction ends
	FindByNumberForUpdate(ctx context.Context, numSiniestro int64) (*Claim, error)

	// FindAll finds claims matching the filter and returns the total count
	FindAll(ctx context.Context, filter ClaimFilter) ([]Claim, int64, error)

	// UpdateReserveTotal stores the claim's total reserve and last movement date
	UpdateReserveTotal(ctx context.Context, claim *Claim) error

	// FindPolicy finds a policy by its natural key
	FindPolicy(ctx context.Context, codRamo string, numPoliza int64) (*Policy, error)

	// FindCertificate finds a certificate by its natural key
	FindCertificate(ctx context.Context, key CertificateKey) (*Certificate, error)

	// FindDeclaration finds a transport declaration of a certificate
	FindDeclaration(ctx context.Context, key CertificateKey, numDeclaracion int64) (*TransportDeclaration, error)
}

// CoverageRepository defines read access to coverage catalog and certificate coverages
type CoverageRepository interface {
	// FindCatalog finds the catalog coverages of a line of business
	FindCatalog(ctx context.Context, codRamo string) ([]Coverage, error)

	// FindCertificateCoverages finds the coverages contracted on a certificate
	FindCertificateCoverages(ctx context.Context, key CertificateKey) ([]CertificateCoverage, error)

	// FindLucLimits finds the combined single limits of a certificate
	FindLucLimits(ctx context.Context, key CertificateKey) ([]LucLimit, error)

	// FindReserveAccounts finds the accounts used for reserve entries
	FindReserveAccounts(ctx context.Context) ([]ReserveAccounts, error)
}

// ReserveRepository defines persistence for reserve rows
type ReserveRepository interface {
	// FindByClaim finds every reserve row of a claim
	FindByClaim(ctx context.Context, numSiniestro int64) ([]Reserve, error)

	// FindOne finds the reserve row of one coverage
	FindOne(ctx context.Context, numSiniestro int64, key CoverageKey) (*Reserve, error)

	// Create inserts a new reserve row
	Create(ctx context.Context, reserve *Reserve) error

	// Update stores the cached balance of a reserve row
	Update(ctx context.Context, reserve *Reserve) error

	// Delete removes the reserve row of one coverage
	Delete(ctx context.Context, numSiniestro int64, key CoverageKey) error

	// FindPage returns reserve rows ordered by key, after the given claim number
	FindPage(ctx context.Context, afterSiniestro int64, limit int) ([]Reserve, error)
}

// MovementRepository defines persistence for claim movements
type MovementRepository interface {
	// FindByClaim finds the movement headers of a claim with their coverage lines
	FindByClaim(ctx context.Context, numSiniestro int64) ([]Movement, error)

	// FindCoverageMovements finds every coverage movement of a claim
	FindCoverageMovements(ctx context.Context, numSiniestro int64) ([]CoverageMovement, error)

	// CountCoverageMovements counts the movements recorded for one coverage of a claim
	CountCoverageMovements(ctx context.Context, numSiniestro int64, key CoverageKey) (int64, error)

	// SumCertificatePayments sums payments of one certificate coverage across all claims
	SumCertificatePayments(ctx context.Context, cert CertificateKey, key CoverageKey) (decimal.Decimal, error)

	// NextNumber returns the next movement number of a claim
	NextNumber(ctx context.Context, numSiniestro int64) (int, error)

	// Create inserts a movement header and its coverage lines
	Create(ctx context.Context, movement *Movement) error

	// Exists reports whether a movement exists
	Exists(ctx context.Context, numSiniestro int64, numMovimiento int) (bool, error)
}

// LedgerRepository defines persistence for accounting entries
type LedgerRepository interface {
	// NextEntryNumber allocates the next accounting entry number
	NextEntryNumber(ctx context.Context) (int64, error)

	// CreateEntries inserts the lines of an accounting entry
	CreateEntries(ctx context.Context, entries []AccountingEntry) error

	// FindByMovement finds the accounting lines written for a movement
	FindByMovement(ctx context.Context, numSiniestro int64, numMovimiento int) ([]AccountingEntry, error)
}
