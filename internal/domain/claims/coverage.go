package claims

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CoverageKey identifies a coverage inside a certificate by accounting line and code
type CoverageKey struct {
	CodRamoContable string `json:"cod_ramo_contable"`
	CodCobertura    string `json:"cod_cobertura"`
}

// String returns "ramoContable/cobertura"
func (k CoverageKey) String() string {
	return fmt.Sprintf("%s/%s", k.CodRamoContable, k.CodCobertura)
}

// Less orders coverage keys by accounting line then coverage code
func (k CoverageKey) Less(o CoverageKey) bool {
	if k.CodRamoContable != o.CodRamoContable {
		return k.CodRamoContable < o.CodRamoContable
	}
	return k.CodCobertura < o.CodCobertura
}

// Coverage is a catalog coverage of a line of business
type Coverage struct {
	CodRamo         string `json:"cod_ramo"`
	CodRamoContable string `json:"cod_ramo_contable"`
	CodCobertura    string `json:"cod_cobertura"`
	Descripcion     string `json:"descripcion"`
	CodLuc          string `json:"cod_luc,omitempty"` // Combined single limit group, empty when none
	Prioridad       int    `json:"prioridad"`         // 1 is consumed first inside a LUC group
}

// Key returns the coverage key
func (c *Coverage) Key() CoverageKey {
	return CoverageKey{CodRamoContable: c.CodRamoContable, CodCobertura: c.CodCobertura}
}

// CertificateCoverage is a coverage contracted on a certificate
type CertificateCoverage struct {
	CertificateKey
	CodRamoContable string          `json:"cod_ramo_contable"`
	CodCobertura    string          `json:"cod_cobertura"`
	SumaAsegurada   decimal.Decimal `json:"suma_asegurada"`
	Deducible       decimal.Decimal `json:"deducible"`
}

// Key returns the coverage key
func (c *CertificateCoverage) Key() CoverageKey {
	return CoverageKey{CodRamoContable: c.CodRamoContable, CodCobertura: c.CodCobertura}
}

// LucLimit is the combined single limit shared by the coverages of a LUC group
type LucLimit struct {
	CertificateKey
	CodLuc      string          `json:"cod_luc"`
	MontoLimite decimal.Decimal `json:"monto_limite"`
}

// Reserve is the reserve held for one certificate coverage of a claim
// (reserva_cobertura_certificado). MontoReserva caches the balance
// computed from coverage movements.
type Reserve struct {
	NumSiniestro    int64           `json:"num_siniestro"`
	CodRamo         string          `json:"cod_ramo"`
	NumPoliza       int64           `json:"num_poliza"`
	NumCertificado  int64           `json:"num_certificado"`
	CodRamoContable string          `json:"cod_ramo_contable"`
	CodCobertura    string          `json:"cod_cobertura"`
	MontoReserva    decimal.Decimal `json:"monto_reserva"`
	FecCreacion     time.Time       `json:"fec_creacion"`
	FecUltAjuste    *time.Time      `json:"fec_ult_ajuste,omitempty"`
	Usuario         string          `json:"usuario"`
}

// NewReserve opens a zero reserve row for a certificate coverage of the claim
func NewReserve(claim *Claim, key CoverageKey, user string, now time.Time) *Reserve {
	return &Reserve{
		NumSiniestro:    claim.NumSiniestro,
		CodRamo:         claim.CodRamo,
		NumPoliza:       claim.NumPoliza,
		NumCertificado:  claim.NumCertificado,
		CodRamoContable: key.CodRamoContable,
		CodCobertura:    key.CodCobertura,
		MontoReserva:    decimal.Zero,
		FecCreacion:     now,
		Usuario:         user,
	}
}

// Key returns the coverage key
func (r *Reserve) Key() CoverageKey {
	return CoverageKey{CodRamoContable: r.CodRamoContable, CodCobertura: r.CodCobertura}
}

// Adjust sets the cached balance after an adjustment
func (r *Reserve) Adjust(amount decimal.Decimal, user string, at time.Time) {
	r.MontoReserva = amount
	r.FecUltAjuste = &at
	r.Usuario = user
}
