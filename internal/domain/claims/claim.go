package claims

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus represents the lifecycle state of a claim
type ClaimStatus string

const (
	ClaimStatusActive    ClaimStatus = "ACT" // Open, accepts movements
	ClaimStatusClosed    ClaimStatus = "CER" // Closed
	ClaimStatusCancelled ClaimStatus = "ANU" // Cancelled
	ClaimStatusReopened  ClaimStatus = "REA" // Reopened after closing
)

// IsValid checks if the status is a known ClaimStatus
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusActive, ClaimStatusClosed, ClaimStatusCancelled, ClaimStatusReopened:
		return true
	}
	return false
}

// IsOpen returns true if reserves of the claim can be modified
func (s ClaimStatus) IsOpen() bool {
	return s == ClaimStatusActive || s == ClaimStatusReopened
}

// String returns the string representation of ClaimStatus
func (s ClaimStatus) String() string {
	return string(s)
}

// PolicyStatus represents the state of a policy
type PolicyStatus string

const (
	PolicyStatusInForce   PolicyStatus = "VIG"
	PolicyStatusCancelled PolicyStatus = "ANU"
	PolicyStatusExpired   PolicyStatus = "VEN"
)

// CertificateKey identifies a certificate within a policy
type CertificateKey struct {
	CodRamo        string `json:"cod_ramo"`
	NumPoliza      int64  `json:"num_poliza"`
	NumCertificado int64  `json:"num_certificado"`
}

// Policy is an insurance policy (poliza)
type Policy struct {
	CodRamo     string       `json:"cod_ramo"`
	NumPoliza   int64        `json:"num_poliza"`
	CodSucursal string       `json:"cod_sucursal"`
	CodMoneda   string       `json:"cod_moneda"`
	FecVigDesde time.Time    `json:"fec_vig_desde"`
	FecVigHasta time.Time    `json:"fec_vig_hasta"`
	Estado      PolicyStatus `json:"estado"`
}

// CoversDate reports whether the date falls inside the policy term
func (p *Policy) CoversDate(t time.Time) bool {
	return !t.Before(p.FecVigDesde) && !t.After(p.FecVigHasta)
}

// Certificate is a certificate (insured item or person) under a policy
type Certificate struct {
	CertificateKey
	Asegurado string `json:"asegurado"`
	Estado    string `json:"estado"`
}

// TransportMode is the conveyance declared for a transport shipment
type TransportMode string

const (
	TransportMaritime TransportMode = "MARITIMO"
	TransportLand     TransportMode = "TERRESTRE"
)

// TransportDeclaration is a shipment declared under a transport policy
type TransportDeclaration struct {
	CertificateKey
	NumDeclaracion int64           `json:"num_declaracion"`
	Medio          TransportMode   `json:"medio"`
	ValorEmbarque  decimal.Decimal `json:"valor_embarque"`
	FecEmbarque    time.Time       `json:"fec_embarque"`
}

// Claim is an insurance claim (siniestro) reported against a certificate
type Claim struct {
	NumSiniestro     int64           `json:"num_siniestro"`
	CodRamo          string          `json:"cod_ramo"`
	NumPoliza        int64           `json:"num_poliza"`
	NumCertificado   int64           `json:"num_certificado"`
	NumDeclaracion   *int64          `json:"num_declaracion,omitempty"`
	FecOcurrencia    time.Time       `json:"fec_ocurrencia"`
	FecNotificacion  time.Time       `json:"fec_notificacion"`
	Estado           ClaimStatus     `json:"estado"`
	CodMoneda        string          `json:"cod_moneda"`
	Descripcion      string          `json:"descripcion"`
	MontoReserva     decimal.Decimal `json:"monto_reserva"`
	FecUltMovimiento *time.Time      `json:"fec_ult_movimiento,omitempty"`
}

// CertificateKey returns the certificate the claim was reported against
func (c *Claim) CertificateKey() CertificateKey {
	return CertificateKey{
		CodRamo:        c.CodRamo,
		NumPoliza:      c.NumPoliza,
		NumCertificado: c.NumCertificado,
	}
}

// EnsureOpen returns ErrClaimNotOpen unless the claim accepts reserve changes
func (c *Claim) EnsureOpen() error {
	if !c.Estado.IsOpen() {
		return ErrClaimNotOpen.WithDetail("estado", c.Estado.String())
	}
	return nil
}

// ApplyReserveTotal records the new total reserve after a movement
func (c *Claim) ApplyReserveTotal(total decimal.Decimal, at time.Time) {
	c.MontoReserva = total
	c.FecUltMovimiento = &at
}
