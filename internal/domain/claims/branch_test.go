package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = BranchRules{
	Maritime: []string{"21"},
	Land:     []string{"22"},
	Life:     []string{"31", "32"},
}

func TestBranchRulesKindOf(t *testing.T) {
	assert.Equal(t, BranchMaritime, testRules.KindOf("21"))
	assert.Equal(t, BranchLand, testRules.KindOf("22"))
	assert.Equal(t, BranchLife, testRules.KindOf("32"))
	assert.Equal(t, BranchGeneral, testRules.KindOf("01"))
	assert.True(t, BranchLand.IsTransport())
	assert.False(t, BranchLife.IsTransport())
}

func TestResolveInsuredSum(t *testing.T) {
	coverage := &CertificateCoverage{SumaAsegurada: dec("10000")}
	declNum := int64(7)

	t.Run("general line uses certificate sum and claim payments", func(t *testing.T) {
		s, err := testRules.ResolveInsuredSum(InsuredSumInput{
			Claim:               &Claim{CodRamo: "01"},
			Coverage:            coverage,
			ClaimPayments:       dec("1500"),
			CertificatePayments: dec("9000"),
		})
		require.NoError(t, err)
		assert.Equal(t, SourceCertificate, s.Source)
		assert.Equal(t, BranchGeneral, s.Branch)
		assert.True(t, dec("8500").Equal(s.Available()))
	})

	t.Run("life line consumes payments from every claim", func(t *testing.T) {
		s, err := testRules.ResolveInsuredSum(InsuredSumInput{
			Claim:               &Claim{CodRamo: "31"},
			Coverage:            coverage,
			ClaimPayments:       dec("1500"),
			CertificatePayments: dec("9000"),
		})
		require.NoError(t, err)
		assert.Equal(t, SourceLife, s.Source)
		assert.True(t, dec("1000").Equal(s.Available()))
	})

	t.Run("maritime line takes the lower of shipment value and sum", func(t *testing.T) {
		s, err := testRules.ResolveInsuredSum(InsuredSumInput{
			Claim:       &Claim{CodRamo: "21", NumDeclaracion: &declNum},
			Coverage:    coverage,
			Declaration: &TransportDeclaration{Medio: TransportMaritime, ValorEmbarque: dec("4000")},
		})
		require.NoError(t, err)
		assert.Equal(t, SourceDeclaration, s.Source)
		assert.True(t, dec("4000").Equal(s.Amount))
	})

	t.Run("land line with open coverage takes shipment value", func(t *testing.T) {
		s, err := testRules.ResolveInsuredSum(InsuredSumInput{
			Claim:       &Claim{CodRamo: "22", NumDeclaracion: &declNum},
			Coverage:    &CertificateCoverage{SumaAsegurada: dec("0")},
			Declaration: &TransportDeclaration{Medio: TransportLand, ValorEmbarque: dec("25000")},
		})
		require.NoError(t, err)
		assert.True(t, dec("25000").Equal(s.Amount))
	})

	t.Run("transport without declaration falls back to certificate", func(t *testing.T) {
		s, err := testRules.ResolveInsuredSum(InsuredSumInput{
			Claim:    &Claim{CodRamo: "22"},
			Coverage: coverage,
		})
		require.NoError(t, err)
		assert.Equal(t, SourceCertificate, s.Source)
		assert.Equal(t, BranchLand, s.Branch)
	})

	t.Run("declaration with the wrong conveyance is rejected", func(t *testing.T) {
		_, err := testRules.ResolveInsuredSum(InsuredSumInput{
			Claim:       &Claim{CodRamo: "21", NumDeclaracion: &declNum},
			Coverage:    coverage,
			Declaration: &TransportDeclaration{Medio: TransportLand, ValorEmbarque: dec("4000")},
		})
		assert.ErrorIs(t, err, ErrInconsistentDeclaration)
	})

	t.Run("missing coverage", func(t *testing.T) {
		_, err := testRules.ResolveInsuredSum(InsuredSumInput{Claim: &Claim{CodRamo: "01"}})
		assert.ErrorIs(t, err, ErrCoverageNotFound)
	})
}
