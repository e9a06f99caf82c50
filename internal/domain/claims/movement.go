package claims

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies claim movements
type MovementType string

const (
	MovementReserve    MovementType = "RES" // Initial reserve
	MovementAdjustment MovementType = "AJU" // Reserve adjustment
	MovementSettlement MovementType = "LIQ" // Settlement
	MovementPayment    MovementType = "PAG" // Payment
	MovementDeductible MovementType = "DED" // Deductible applied
)

// IsValid checks if the type is a known MovementType
func (t MovementType) IsValid() bool {
	switch t {
	case MovementReserve, MovementAdjustment, MovementSettlement, MovementPayment, MovementDeductible:
		return true
	}
	return false
}

// IsReserve returns true for movements that carry a signed reserve delta
func (t MovementType) IsReserve() bool {
	return t == MovementReserve || t == MovementAdjustment
}

// IsPayment returns true for settlements and payments
func (t MovementType) IsPayment() bool {
	return t == MovementSettlement || t == MovementPayment
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// Movement is a claim movement header (movimiento_siniestro)
type Movement struct {
	NumSiniestro  int64              `json:"num_siniestro"`
	NumMovimiento int                `json:"num_movimiento"`
	Tipo          MovementType       `json:"tipo"`
	FecMovimiento time.Time          `json:"fec_movimiento"`
	MontoTotal    decimal.Decimal    `json:"monto_total"`
	Usuario       string             `json:"usuario"`
	Observacion   string             `json:"observacion,omitempty"`
	Lines         []CoverageMovement `json:"lineas"`
}

// CoverageMovement is the per-coverage detail of a movement (movimiento_cobertura).
// Reserve movements store a signed delta in Monto; payments and
// deductibles store the positive amount consumed.
type CoverageMovement struct {
	NumSiniestro    int64           `json:"num_siniestro"`
	NumMovimiento   int             `json:"num_movimiento"`
	CodRamoContable string          `json:"cod_ramo_contable"`
	CodCobertura    string          `json:"cod_cobertura"`
	Tipo            MovementType    `json:"tipo"`
	Monto           decimal.Decimal `json:"monto"`
	SaldoAnterior   decimal.Decimal `json:"saldo_anterior"`
	SaldoNuevo      decimal.Decimal `json:"saldo_nuevo"`
}

// Key returns the coverage key
func (m *CoverageMovement) Key() CoverageKey {
	return CoverageKey{CodRamoContable: m.CodRamoContable, CodCobertura: m.CodCobertura}
}

// Balance is the reserve position of one coverage of a claim
type Balance struct {
	Reserved    decimal.Decimal `json:"reservado"`
	Settled     decimal.Decimal `json:"liquidado"`
	Deductibles decimal.Decimal `json:"deducibles"`
}

// Current returns reserved minus settlements/payments minus deductibles
func (b Balance) Current() decimal.Decimal {
	return b.Reserved.Sub(b.Settled).Sub(b.Deductibles)
}

// Payments returns the settlements and payments made against the coverage
func (b Balance) Payments() decimal.Decimal {
	return b.Settled
}

// Add folds one coverage movement into the balance
func (b Balance) Add(m CoverageMovement) Balance {
	switch {
	case m.Tipo.IsReserve():
		b.Reserved = b.Reserved.Add(m.Monto)
	case m.Tipo.IsPayment():
		b.Settled = b.Settled.Add(m.Monto)
	case m.Tipo == MovementDeductible:
		b.Deductibles = b.Deductibles.Add(m.Monto)
	}
	return b
}

// ComputeBalance folds the coverage movements of a single coverage into a Balance
func ComputeBalance(movements []CoverageMovement) Balance {
	b := Balance{Reserved: decimal.Zero, Settled: decimal.Zero, Deductibles: decimal.Zero}
	for _, m := range movements {
		b = b.Add(m)
	}
	return b
}

// BalancesByCoverage groups movements by coverage and computes each balance
func BalancesByCoverage(movements []CoverageMovement) map[CoverageKey]Balance {
	balances := make(map[CoverageKey]Balance)
	for _, m := range movements {
		b, ok := balances[m.Key()]
		if !ok {
			b = ComputeBalance(nil)
		}
		balances[m.Key()] = b.Add(m)
	}
	return balances
}

// NewAdjustmentMovement builds the AJU movement for validated lines, in the order given
func NewAdjustmentMovement(claim *Claim, numMovimiento int, lines []AdjustmentLine, user, observacion string, at time.Time) *Movement {
	m := &Movement{
		NumSiniestro:  claim.NumSiniestro,
		NumMovimiento: numMovimiento,
		Tipo:          MovementAdjustment,
		FecMovimiento: at,
		MontoTotal:    decimal.Zero,
		Usuario:       user,
		Observacion:   observacion,
		Lines:         make([]CoverageMovement, 0, len(lines)),
	}
	for _, l := range lines {
		delta := l.Delta()
		m.MontoTotal = m.MontoTotal.Add(delta)
		m.Lines = append(m.Lines, CoverageMovement{
			NumSiniestro:    claim.NumSiniestro,
			NumMovimiento:   numMovimiento,
			CodRamoContable: l.Key.CodRamoContable,
			CodCobertura:    l.Key.CodCobertura,
			Tipo:            MovementAdjustment,
			Monto:           delta,
			SaldoAnterior:   l.Current(),
			SaldoNuevo:      l.NewAmount,
		})
	}
	return m
}
