package claims

import (
	"slices"

	"github.com/shopspring/decimal"
)

// BranchKind groups lines of business that share insured-sum rules
type BranchKind string

const (
	BranchGeneral  BranchKind = "GENERAL"
	BranchMaritime BranchKind = "MARITIMO"
	BranchLand     BranchKind = "TERRESTRE"
	BranchLife     BranchKind = "VIDA"
)

// IsTransport returns true for maritime and land transport lines
func (k BranchKind) IsTransport() bool {
	return k == BranchMaritime || k == BranchLand
}

// InsuredSumSource tells where an insured sum was taken from
type InsuredSumSource string

const (
	SourceCertificate InsuredSumSource = "CERTIFICADO"
	SourceDeclaration InsuredSumSource = "DECLARACION"
	SourceLife        InsuredSumSource = "VIDA"
)

// BranchRules classifies ramo codes into the branch kinds with special rules
type BranchRules struct {
	Maritime []string
	Land     []string
	Life     []string
}

// KindOf returns the branch kind of a ramo code
func (r BranchRules) KindOf(codRamo string) BranchKind {
	switch {
	case slices.Contains(r.Maritime, codRamo):
		return BranchMaritime
	case slices.Contains(r.Land, codRamo):
		return BranchLand
	case slices.Contains(r.Life, codRamo):
		return BranchLife
	default:
		return BranchGeneral
	}
}

// InsuredSum is the result of an insured-sum lookup for one coverage
type InsuredSum struct {
	Amount   decimal.Decimal  `json:"suma_asegurada"`
	Payments decimal.Decimal  `json:"pagos"`
	Source   InsuredSumSource `json:"origen"`
	Branch   BranchKind       `json:"tipo_ramo"`
}

// Available returns the insured sum minus the payments it has absorbed
func (s InsuredSum) Available() decimal.Decimal {
	return s.Amount.Sub(s.Payments)
}

// InsuredSumInput gathers what the lookup needs for one coverage.
// CertificatePayments holds payments across every claim on the same
// certificate coverage and is only read for life lines.
type InsuredSumInput struct {
	Claim               *Claim
	Coverage            *CertificateCoverage
	Declaration         *TransportDeclaration
	ClaimPayments       decimal.Decimal
	CertificatePayments decimal.Decimal
}

// ResolveInsuredSum applies the branch rules to obtain the insured sum of a coverage
func (r BranchRules) ResolveInsuredSum(in InsuredSumInput) (InsuredSum, error) {
	if in.Claim == nil || in.Coverage == nil {
		return InsuredSum{}, ErrCoverageNotFound
	}

	kind := r.KindOf(in.Claim.CodRamo)
	result := InsuredSum{
		Amount:   in.Coverage.SumaAsegurada,
		Payments: in.ClaimPayments,
		Source:   SourceCertificate,
		Branch:   kind,
	}

	switch kind {
	case BranchLife:
		result.Payments = in.CertificatePayments
		result.Source = SourceLife
	case BranchMaritime, BranchLand:
		if in.Declaration == nil {
			return result, nil
		}
		if !declarationMatches(kind, in.Declaration.Medio) {
			return InsuredSum{}, ErrInconsistentDeclaration.
				WithDetail("medio", string(in.Declaration.Medio)).
				WithDetail("tipo_ramo", string(kind))
		}
		amount := in.Declaration.ValorEmbarque
		if in.Coverage.SumaAsegurada.IsPositive() {
			amount = decimal.Min(amount, in.Coverage.SumaAsegurada)
		}
		result.Amount = amount
		result.Source = SourceDeclaration
	}

	return result, nil
}

func declarationMatches(kind BranchKind, mode TransportMode) bool {
	switch kind {
	case BranchMaritime:
		return mode == TransportMaritime
	case BranchLand:
		return mode == TransportLand
	}
	return false
}
