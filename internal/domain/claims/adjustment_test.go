package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(cob string, prioridad int, luc, current, sum, paid, newAmount string) AdjustmentLine {
	return AdjustmentLine{
		Key:       CoverageKey{CodRamoContable: "10", CodCobertura: cob},
		Prioridad: prioridad,
		CodLuc:    luc,
		Balance: Balance{
			Reserved:    dec(current).Add(dec(paid)),
			Settled:     dec(paid),
			Deductibles: dec("0"),
		},
		InsuredSum: InsuredSum{Amount: dec(sum), Payments: dec(paid), Source: SourceCertificate},
		NewAmount:  dec(newAmount),
	}
}

func TestValidateAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		line    AdjustmentLine
		wantErr error
	}{
		{"valid increase", line("C01", 1, "", "1000", "10000", "0", "2500"), nil},
		{"valid decrease to zero", line("C01", 1, "", "1000", "10000", "0", "0"), nil},
		{"negative amount", line("C01", 1, "", "1000", "10000", "0", "-1"), ErrNegativeAdjustment},
		{"same as current balance", line("C01", 1, "", "1000", "10000", "0", "1000.00"), ErrUnchangedAdjustment},
		{"exceeds insured sum minus payments", line("C01", 1, "", "1000", "10000", "4000", "6000.01"), ErrAdjustmentExceedsSum},
		{"exactly insured sum minus payments", line("C01", 1, "", "1000", "10000", "4000", "6000"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdjustment(tt.line)
			if tt.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "10/C01", err.Details["cobertura"])
		})
	}
}

func TestValidateAdjustmentRuleOrder(t *testing.T) {
	// Negative and over the limit at once reports the negative amount first
	l := line("C01", 1, "", "0", "0", "0", "-5")
	err := ValidateAdjustment(l)
	require.NotNil(t, err)
	assert.Equal(t, ErrNegativeAdjustment.Code, err.Code)
}

func TestOrderAdjustments(t *testing.T) {
	lines := []AdjustmentLine{
		line("C03", 2, "L1", "0", "100", "0", "1"),
		line("C02", 1, "L1", "0", "100", "0", "1"),
		line("C01", 2, "L1", "0", "100", "0", "1"),
	}
	ordered := OrderAdjustments(lines)

	require.Len(t, ordered, 3)
	assert.Equal(t, "C02", ordered[0].Key.CodCobertura)
	assert.Equal(t, "C01", ordered[1].Key.CodCobertura)
	assert.Equal(t, "C03", ordered[2].Key.CodCobertura)
	assert.Equal(t, "C03", lines[0].Key.CodCobertura, "input must not be reordered")
}

func TestValidateLines(t *testing.T) {
	assert.ErrorIs(t, ValidateLines(nil), ErrEmptyAdjustment)
	dup := []AdjustmentLine{line("C01", 1, "", "0", "1", "0", "1"), line("C01", 1, "", "0", "1", "0", "1")}
	assert.ErrorIs(t, ValidateLines(dup), ErrDuplicateLine)
	assert.NoError(t, ValidateLines(dup[:1]))
}

func TestValidateBatchLuc(t *testing.T) {
	groups := map[string]LucGroup{
		"L1": {CodLuc: "L1", Limit: dec("10000"), Consumed: dec("1000")},
	}

	t.Run("higher priority consumes the limit first", func(t *testing.T) {
		res := ValidateBatch([]AdjustmentLine{
			line("C02", 2, "L1", "0", "20000", "0", "3000"),
			line("C01", 1, "L1", "0", "20000", "0", "7000"),
		}, groups)

		require.Len(t, res.Lines, 2)
		assert.Equal(t, "C01", res.Lines[0].Line.Key.CodCobertura)
		assert.True(t, res.Lines[0].OK())
		require.NotNil(t, res.Lines[0].LucAvailable)
		assert.True(t, dec("9000").Equal(*res.Lines[0].LucAvailable))

		assert.False(t, res.Lines[1].OK())
		assert.ErrorIs(t, res.Lines[1].Err, ErrLucExceeded)
		assert.True(t, dec("2000").Equal(*res.Lines[1].LucAvailable))
		assert.False(t, res.OK())
		assert.ErrorIs(t, res.Error(), ErrAdjustmentRejected)
	})

	t.Run("batch within limit passes", func(t *testing.T) {
		res := ValidateBatch([]AdjustmentLine{
			line("C01", 1, "L1", "0", "20000", "0", "5000"),
			line("C02", 2, "L1", "0", "20000", "0", "4000"),
		}, groups)
		assert.True(t, res.OK())
		assert.NoError(t, res.Error())
	})

	t.Run("failed line keeps its current balance in the group", func(t *testing.T) {
		res := ValidateBatch([]AdjustmentLine{
			line("C01", 1, "L1", "2000", "20000", "0", "2000"),
			line("C02", 2, "L1", "0", "20000", "0", "7500"),
		}, groups)
		require.Len(t, res.Lines, 2)
		assert.ErrorIs(t, res.Lines[0].Err, ErrUnchangedAdjustment)
		assert.ErrorIs(t, res.Lines[1].Err, ErrLucExceeded)
		assert.True(t, dec("7000").Equal(*res.Lines[1].LucAvailable))
	})

	t.Run("coverages outside any group skip LUC", func(t *testing.T) {
		res := ValidateBatch([]AdjustmentLine{
			line("C09", 1, "", "0", "50000", "0", "45000"),
			line("C08", 1, "LX", "0", "50000", "0", "45000"),
		}, groups)
		assert.True(t, res.OK())
		assert.Nil(t, res.Lines[0].LucAvailable)
	})
}
