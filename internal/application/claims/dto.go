package claims

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
)

// ClaimDetailResponse is a claim header with its policy and certificate summary
type ClaimDetailResponse struct {
	claims.Claim
	Poliza      *claims.Policy      `json:"poliza"`
	Certificado *claims.Certificate `json:"certificado"`
	TipoRamo    claims.BranchKind   `json:"tipo_ramo"`
}

// ReserveRowResponse is one reserve row as shown on the adjustment screen
type ReserveRowResponse struct {
	CodRamoContable string                  `json:"cod_ramo_contable"`
	CodCobertura    string                  `json:"cod_cobertura"`
	Descripcion     string                  `json:"descripcion"`
	CodLuc          string                  `json:"cod_luc,omitempty"`
	Prioridad       int                     `json:"prioridad"`
	SumaAsegurada   decimal.Decimal         `json:"suma_asegurada"`
	OrigenSuma      claims.InsuredSumSource `json:"origen_suma,omitempty"`
	Reservado       decimal.Decimal         `json:"reservado"`
	Pagos           decimal.Decimal         `json:"pagos"`
	Deducibles      decimal.Decimal         `json:"deducibles"`
	SaldoActual     decimal.Decimal         `json:"saldo_actual"`
	Disponible      decimal.Decimal         `json:"disponible"`
	MontoReserva    decimal.Decimal         `json:"monto_reserva"`
	FecCreacion     time.Time               `json:"fec_creacion"`
	FecUltAjuste    *time.Time              `json:"fec_ult_ajuste,omitempty"`
	Usuario         string                  `json:"usuario"`
}

// BalanceResponse is the balance breakdown of one coverage
type BalanceResponse struct {
	NumSiniestro    int64           `json:"num_siniestro"`
	CodRamoContable string          `json:"cod_ramo_contable"`
	CodCobertura    string          `json:"cod_cobertura"`
	Reservado       decimal.Decimal `json:"reservado"`
	Liquidado       decimal.Decimal `json:"liquidado"`
	Deducibles      decimal.Decimal `json:"deducibles"`
	SaldoActual     decimal.Decimal `json:"saldo_actual"`
}

// InsuredSumResponse is the insured-sum lookup of one coverage
type InsuredSumResponse struct {
	NumSiniestro    int64                   `json:"num_siniestro"`
	CodRamoContable string                  `json:"cod_ramo_contable"`
	CodCobertura    string                  `json:"cod_cobertura"`
	SumaAsegurada   decimal.Decimal         `json:"suma_asegurada"`
	Pagos           decimal.Decimal         `json:"pagos"`
	Disponible      decimal.Decimal         `json:"disponible"`
	Origen          claims.InsuredSumSource `json:"origen"`
	TipoRamo        claims.BranchKind       `json:"tipo_ramo"`
}

// AdjustmentLineInput is one requested reserve change
type AdjustmentLineInput struct {
	CodRamoContable string
	CodCobertura    string
	NuevoMonto      decimal.Decimal
}

// Key returns the coverage key of the line
func (l AdjustmentLineInput) Key() claims.CoverageKey {
	return claims.CoverageKey{CodRamoContable: l.CodRamoContable, CodCobertura: l.CodCobertura}
}

// ApplyAdjustmentsInput carries an apply request
type ApplyAdjustmentsInput struct {
	NumSiniestro   int64
	Lines          []AdjustmentLineInput
	Usuario        string
	Observacion    string
	IdempotencyKey string
}

// LineValidationResponse is the validation outcome of one adjustment line
type LineValidationResponse struct {
	CodRamoContable string           `json:"cod_ramo_contable"`
	CodCobertura    string           `json:"cod_cobertura"`
	Prioridad       int              `json:"prioridad"`
	CodLuc          string           `json:"cod_luc,omitempty"`
	Valido          bool             `json:"valido"`
	Codigo          string           `json:"codigo,omitempty"`
	Mensaje         string           `json:"mensaje,omitempty"`
	SaldoActual     decimal.Decimal  `json:"saldo_actual"`
	NuevoMonto      decimal.Decimal  `json:"nuevo_monto"`
	Diferencia      decimal.Decimal  `json:"diferencia"`
	Disponible      decimal.Decimal  `json:"disponible"`
	DisponibleLuc   *decimal.Decimal `json:"disponible_luc,omitempty"`
}

// ValidationResponse is the outcome of validating an adjustment request
type ValidationResponse struct {
	NumSiniestro int64                    `json:"num_siniestro"`
	Valido       bool                     `json:"valido"`
	Lineas       []LineValidationResponse `json:"lineas"`
}

// AppliedLineResponse is one coverage changed by an applied adjustment
type AppliedLineResponse struct {
	CodRamoContable string          `json:"cod_ramo_contable"`
	CodCobertura    string          `json:"cod_cobertura"`
	SaldoAnterior   decimal.Decimal `json:"saldo_anterior"`
	SaldoNuevo      decimal.Decimal `json:"saldo_nuevo"`
	Diferencia      decimal.Decimal `json:"diferencia"`
}

// ApplyResponse is the outcome of an applied adjustment
type ApplyResponse struct {
	NumSiniestro  int64                 `json:"num_siniestro"`
	NumMovimiento int                   `json:"num_movimiento"`
	NumAsiento    int64                 `json:"num_asiento"`
	MontoTotal    decimal.Decimal       `json:"monto_total"`
	ReservaTotal  decimal.Decimal       `json:"reserva_total"`
	FecMovimiento time.Time             `json:"fec_movimiento"`
	Lineas        []AppliedLineResponse `json:"lineas"`
}

// ReconcileMismatch is a reserve row whose cached balance differs from its movements
type ReconcileMismatch struct {
	NumSiniestro    int64           `json:"num_siniestro"`
	CodRamoContable string          `json:"cod_ramo_contable"`
	CodCobertura    string          `json:"cod_cobertura"`
	MontoReserva    decimal.Decimal `json:"monto_reserva"`
	SaldoCalculado  decimal.Decimal `json:"saldo_calculado"`
}

// ReconcileReport summarizes a reconciliation run
type ReconcileReport struct {
	Siniestros   int                 `json:"siniestros"`
	Reservas     int                 `json:"reservas"`
	Descuadradas []ReconcileMismatch `json:"descuadradas"`
	Duracion     time.Duration       `json:"duracion"`
}
