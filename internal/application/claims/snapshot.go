package claims

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
)

// reserveSnapshot is everything the reserve rules read for one claim
type reserveSnapshot struct {
	claim         *claims.Claim
	kind          claims.BranchKind
	reserves      []claims.Reserve
	catalog       map[claims.CoverageKey]claims.Coverage
	certCoverages map[claims.CoverageKey]claims.CertificateCoverage
	lucLimits     map[string]claims.LucLimit
	balances      map[claims.CoverageKey]claims.Balance
	declaration   *claims.TransportDeclaration
}

// loadSnapshot reads the reserve state of an already loaded claim through repos
func loadSnapshot(ctx context.Context, repos TransactionalRepositories, rules claims.BranchRules, claim *claims.Claim) (*reserveSnapshot, error) {
	snap := &reserveSnapshot{
		claim:         claim,
		kind:          rules.KindOf(claim.CodRamo),
		catalog:       make(map[claims.CoverageKey]claims.Coverage),
		certCoverages: make(map[claims.CoverageKey]claims.CertificateCoverage),
		lucLimits:     make(map[string]claims.LucLimit),
	}
	certKey := claim.CertificateKey()

	reserves, err := repos.Reserves().FindByClaim(ctx, claim.NumSiniestro)
	if err != nil {
		return nil, err
	}
	snap.reserves = reserves

	catalog, err := repos.Coverages().FindCatalog(ctx, claim.CodRamo)
	if err != nil {
		return nil, err
	}
	for _, c := range catalog {
		snap.catalog[c.Key()] = c
	}

	certCoverages, err := repos.Coverages().FindCertificateCoverages(ctx, certKey)
	if err != nil {
		return nil, err
	}
	for _, c := range certCoverages {
		snap.certCoverages[c.Key()] = c
	}

	limits, err := repos.Coverages().FindLucLimits(ctx, certKey)
	if err != nil {
		return nil, err
	}
	for _, l := range limits {
		snap.lucLimits[l.CodLuc] = l
	}

	movements, err := repos.Movements().FindCoverageMovements(ctx, claim.NumSiniestro)
	if err != nil {
		return nil, err
	}
	snap.balances = claims.BalancesByCoverage(movements)

	if snap.kind.IsTransport() && claim.NumDeclaracion != nil {
		decl, err := repos.Claims().FindDeclaration(ctx, certKey, *claim.NumDeclaracion)
		if err != nil {
			return nil, err
		}
		snap.declaration = decl
	}
	return snap, nil
}

// balance returns the computed balance of a coverage, zero when it has no movements
func (s *reserveSnapshot) balance(key claims.CoverageKey) claims.Balance {
	if b, ok := s.balances[key]; ok {
		return b
	}
	return claims.ComputeBalance(nil)
}

// coverage returns the catalog entry of a coverage. Coverages missing from the
// catalog sort last and belong to no LUC group.
func (s *reserveSnapshot) coverage(key claims.CoverageKey) claims.Coverage {
	if c, ok := s.catalog[key]; ok {
		return c
	}
	return claims.Coverage{
		CodRamo:         s.claim.CodRamo,
		CodRamoContable: key.CodRamoContable,
		CodCobertura:    key.CodCobertura,
		Prioridad:       math.MaxInt32,
	}
}

// reserve returns the reserve row of a coverage
func (s *reserveSnapshot) reserve(key claims.CoverageKey) (*claims.Reserve, bool) {
	for i := range s.reserves {
		if s.reserves[i].Key() == key {
			return &s.reserves[i], true
		}
	}
	return nil, false
}

// insuredSum resolves the insured sum of a coverage with the branch rules
func (s *reserveSnapshot) insuredSum(ctx context.Context, repos TransactionalRepositories, rules claims.BranchRules, key claims.CoverageKey) (claims.InsuredSum, error) {
	certCoverage, ok := s.certCoverages[key]
	if !ok {
		return claims.InsuredSum{}, claims.ErrCoverageNotFound.WithDetail("cobertura", key.String())
	}

	in := claims.InsuredSumInput{
		Claim:         s.claim,
		Coverage:      &certCoverage,
		Declaration:   s.declaration,
		ClaimPayments: s.balance(key).Payments(),
	}
	if s.kind == claims.BranchLife {
		paid, err := repos.Movements().SumCertificatePayments(ctx, s.claim.CertificateKey(), key)
		if err != nil {
			return claims.InsuredSum{}, err
		}
		in.CertificatePayments = paid
	}
	return rules.ResolveInsuredSum(in)
}

// adjustmentLines enriches the requested lines with balances, insured sums and catalog data
func (s *reserveSnapshot) adjustmentLines(ctx context.Context, repos TransactionalRepositories, rules claims.BranchRules, inputs []AdjustmentLineInput) ([]claims.AdjustmentLine, error) {
	lines := make([]claims.AdjustmentLine, 0, len(inputs))
	for _, in := range inputs {
		key := in.Key()
		if _, ok := s.reserve(key); !ok {
			return nil, claims.ErrReserveNotFound.WithDetail("cobertura", key.String())
		}
		sum, err := s.insuredSum(ctx, repos, rules, key)
		if err != nil {
			return nil, err
		}
		cov := s.coverage(key)
		lines = append(lines, claims.AdjustmentLine{
			Key:        key,
			Prioridad:  cov.Prioridad,
			CodLuc:     cov.CodLuc,
			Balance:    s.balance(key),
			InsuredSum: sum,
			NewAmount:  in.NuevoMonto,
		})
	}
	return lines, nil
}

// lucGroups builds the combined single limits touched by the batch. Consumption
// starts with the payments of every group member plus the current balance of
// members outside the batch.
func (s *reserveSnapshot) lucGroups(lines []claims.AdjustmentLine) map[string]claims.LucGroup {
	inBatch := make(map[claims.CoverageKey]bool, len(lines))
	codes := make(map[string]bool)
	for _, l := range lines {
		inBatch[l.Key] = true
		if l.CodLuc != "" {
			codes[l.CodLuc] = true
		}
	}

	groups := make(map[string]claims.LucGroup, len(codes))
	for code := range codes {
		limit, ok := s.lucLimits[code]
		if !ok {
			continue
		}
		consumed := decimal.Zero
		for key, cov := range s.catalog {
			if cov.CodLuc != code {
				continue
			}
			if _, contracted := s.certCoverages[key]; !contracted {
				continue
			}
			b := s.balance(key)
			consumed = consumed.Add(b.Payments())
			if !inBatch[key] {
				consumed = consumed.Add(b.Current())
			}
		}
		groups[code] = claims.LucGroup{CodLuc: code, Limit: limit.MontoLimite, Consumed: consumed}
	}
	return groups
}

// validate runs the line and LUC rules over the requested lines
func (s *reserveSnapshot) validate(ctx context.Context, repos TransactionalRepositories, rules claims.BranchRules, inputs []AdjustmentLineInput) (claims.BatchResult, error) {
	lines, err := s.adjustmentLines(ctx, repos, rules, inputs)
	if err != nil {
		return claims.BatchResult{}, err
	}
	if err := claims.ValidateLines(lines); err != nil {
		return claims.BatchResult{}, err
	}
	return claims.ValidateBatch(lines, s.lucGroups(lines)), nil
}

// isNotContracted reports a coverage missing from the certificate
func isNotContracted(err error) bool {
	return errors.Is(err, claims.ErrCoverageNotFound)
}
