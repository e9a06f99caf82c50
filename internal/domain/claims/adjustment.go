package claims

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/shared"
)

// AdjustmentLine is a requested reserve adjustment for one coverage,
// enriched with everything the validation rules need.
type AdjustmentLine struct {
	Key        CoverageKey
	Prioridad  int
	CodLuc     string
	Balance    Balance
	InsuredSum InsuredSum
	NewAmount  decimal.Decimal
}

// Current returns the current balance of the coverage
func (l AdjustmentLine) Current() decimal.Decimal {
	return l.Balance.Current()
}

// Delta returns the signed change the adjustment produces
func (l AdjustmentLine) Delta() decimal.Decimal {
	return l.NewAmount.Sub(l.Current())
}

// ValidateAdjustment checks the per-line rules in order:
// non-negative, different from the current balance, within insured sum minus payments.
func ValidateAdjustment(l AdjustmentLine) *shared.DomainError {
	if l.NewAmount.IsNegative() {
		return ErrNegativeAdjustment.WithDetail("cobertura", l.Key.String())
	}
	if l.NewAmount.Equal(l.Current()) {
		return ErrUnchangedAdjustment.
			WithDetail("cobertura", l.Key.String()).
			WithDetail("saldo_actual", l.Current().StringFixed(2))
	}
	available := l.InsuredSum.Available()
	if l.NewAmount.GreaterThan(available) {
		return ErrAdjustmentExceedsSum.
			WithDetail("cobertura", l.Key.String()).
			WithDetail("disponible", available.StringFixed(2))
	}
	return nil
}

// OrderAdjustments returns a copy of lines in application order:
// priority ascending, then accounting line, then coverage code.
func OrderAdjustments(lines []AdjustmentLine) []AdjustmentLine {
	ordered := make([]AdjustmentLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Prioridad != ordered[j].Prioridad {
			return ordered[i].Prioridad < ordered[j].Prioridad
		}
		return ordered[i].Key.Less(ordered[j].Key)
	})
	return ordered
}

// LucGroup is the state of one combined single limit before the batch is applied.
// Consumed holds the payments of the whole group plus the balances of
// group coverages that are not part of the batch.
type LucGroup struct {
	CodLuc   string
	Limit    decimal.Decimal
	Consumed decimal.Decimal
}

// LineResult is the validation outcome of one adjustment line
type LineResult struct {
	Line         AdjustmentLine
	Err          *shared.DomainError
	LucAvailable *decimal.Decimal
}

// OK returns true if the line passed every rule
func (r LineResult) OK() bool {
	return r.Err == nil
}

// BatchResult is the validation outcome of a whole adjustment request
type BatchResult struct {
	Lines []LineResult
}

// OK returns true if every line passed
func (b BatchResult) OK() bool {
	for _, l := range b.Lines {
		if !l.OK() {
			return false
		}
	}
	return true
}

// Error returns ErrAdjustmentRejected with the failing lines, or nil when the batch is valid
func (b BatchResult) Error() error {
	if b.OK() {
		return nil
	}
	failures := make([]map[string]string, 0)
	for _, l := range b.Lines {
		if l.OK() {
			continue
		}
		failures = append(failures, map[string]string{
			"cobertura": l.Line.Key.String(),
			"codigo":    l.Err.Code,
			"mensaje":   l.Err.Message,
		})
	}
	return ErrAdjustmentRejected.WithDetail("lineas", failures)
}

// ValidateLines checks for an empty batch and repeated coverages
func ValidateLines(lines []AdjustmentLine) error {
	if len(lines) == 0 {
		return ErrEmptyAdjustment
	}
	seen := make(map[CoverageKey]struct{}, len(lines))
	for _, l := range lines {
		if _, dup := seen[l.Key]; dup {
			return ErrDuplicateLine.WithDetail("cobertura", l.Key.String())
		}
		seen[l.Key] = struct{}{}
	}
	return nil
}

// ValidateBatch orders the lines by priority, applies the per-line rules and
// then the combined single limit of each LUC group. A line that fails its own
// rules keeps its current balance inside the LUC group.
func ValidateBatch(lines []AdjustmentLine, groups map[string]LucGroup) BatchResult {
	ordered := OrderAdjustments(lines)
	consumed := make(map[string]decimal.Decimal, len(groups))
	for code, g := range groups {
		consumed[code] = g.Consumed
	}

	result := BatchResult{Lines: make([]LineResult, 0, len(ordered))}
	for _, line := range ordered {
		lr := LineResult{Line: line, Err: ValidateAdjustment(line)}

		group, inLuc := groups[line.CodLuc]
		if line.CodLuc == "" || !inLuc {
			result.Lines = append(result.Lines, lr)
			continue
		}

		if !lr.OK() {
			consumed[line.CodLuc] = consumed[line.CodLuc].Add(line.Current())
			result.Lines = append(result.Lines, lr)
			continue
		}

		available := group.Limit.Sub(consumed[line.CodLuc])
		lr.LucAvailable = &available
		if line.NewAmount.GreaterThan(available) {
			lr.Err = ErrLucExceeded.
				WithDetail("cobertura", line.Key.String()).
				WithDetail("cod_luc", group.CodLuc).
				WithDetail("disponible", available.StringFixed(2))
			consumed[line.CodLuc] = consumed[line.CodLuc].Add(line.Current())
		} else {
			consumed[line.CodLuc] = consumed[line.CodLuc].Add(line.NewAmount)
		}
		result.Lines = append(result.Lines, lr)
	}
	return result
}
