package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
)

// ClaimModel is the persistence model for siniestros
type ClaimModel struct {
	NumSiniestro     int64              `gorm:"column:num_siniestro;primaryKey;autoIncrement:false"`
	CodRamo          string             `gorm:"column:cod_ramo;type:varchar(10);not null;index:idx_siniestros_certificado"`
	NumPoliza        int64              `gorm:"column:num_poliza;not null;index:idx_siniestros_certificado"`
	NumCertificado   int64              `gorm:"column:num_certificado;not null;index:idx_siniestros_certificado"`
	NumDeclaracion   *int64             `gorm:"column:num_declaracion"`
	FecOcurrencia    time.Time          `gorm:"column:fec_ocurrencia;not null"`
	FecNotificacion  time.Time          `gorm:"column:fec_notificacion;not null"`
	Estado           claims.ClaimStatus `gorm:"column:estado;type:varchar(3);not null"`
	CodMoneda        string             `gorm:"column:cod_moneda;type:varchar(3);not null"`
	Descripcion      string             `gorm:"column:descripcion;type:varchar(500)"`
	MontoReserva     decimal.Decimal    `gorm:"column:monto_reserva;type:decimal(18,2);not null;default:0"`
	FecUltMovimiento *time.Time         `gorm:"column:fec_ult_movimiento"`
}

// TableName returns the table name for GORM
func (ClaimModel) TableName() string {
	return "siniestros"
}

// ToDomain converts the persistence model to a domain Claim
func (m *ClaimModel) ToDomain() *claims.Claim {
	return &claims.Claim{
		NumSiniestro:     m.NumSiniestro,
		CodRamo:          m.CodRamo,
		NumPoliza:        m.NumPoliza,
		NumCertificado:   m.NumCertificado,
		NumDeclaracion:   m.NumDeclaracion,
		FecOcurrencia:    m.FecOcurrencia,
		FecNotificacion:  m.FecNotificacion,
		Estado:           m.Estado,
		CodMoneda:        m.CodMoneda,
		Descripcion:      m.Descripcion,
		MontoReserva:     m.MontoReserva,
		FecUltMovimiento: m.FecUltMovimiento,
	}
}

// ClaimModelFromDomain creates a persistence model from a domain Claim
func ClaimModelFromDomain(c *claims.Claim) *ClaimModel {
	return &ClaimModel{
		NumSiniestro:     c.NumSiniestro,
		CodRamo:          c.CodRamo,
		NumPoliza:        c.NumPoliza,
		NumCertificado:   c.NumCertificado,
		NumDeclaracion:   c.NumDeclaracion,
		FecOcurrencia:    c.FecOcurrencia,
		FecNotificacion:  c.FecNotificacion,
		Estado:           c.Estado,
		CodMoneda:        c.CodMoneda,
		Descripcion:      c.Descripcion,
		MontoReserva:     c.MontoReserva,
		FecUltMovimiento: c.FecUltMovimiento,
	}
}

// ReserveModel is the persistence model for reservas_cobertura_certificado
type ReserveModel struct {
	NumSiniestro    int64           `gorm:"column:num_siniestro;primaryKey;autoIncrement:false"`
	CodRamo         string          `gorm:"column:cod_ramo;type:varchar(10);primaryKey"`
	NumPoliza       int64           `gorm:"column:num_poliza;primaryKey;autoIncrement:false"`
	NumCertificado  int64           `gorm:"column:num_certificado;primaryKey;autoIncrement:false"`
	CodRamoContable string          `gorm:"column:cod_ramo_contable;type:varchar(10);primaryKey"`
	CodCobertura    string          `gorm:"column:cod_cobertura;type:varchar(10);primaryKey"`
	MontoReserva    decimal.Decimal `gorm:"column:monto_reserva;type:decimal(18,2);not null;default:0"`
	FecCreacion     time.Time       `gorm:"column:fec_creacion;not null"`
	FecUltAjuste    *time.Time      `gorm:"column:fec_ult_ajuste"`
	Usuario         string          `gorm:"column:usuario;type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ReserveModel) TableName() string {
	return "reservas_cobertura_certificado"
}

// ToDomain converts the persistence model to a domain Reserve
func (m *ReserveModel) ToDomain() claims.Reserve {
	return claims.Reserve{
		NumSiniestro:    m.NumSiniestro,
		CodRamo:         m.CodRamo,
		NumPoliza:       m.NumPoliza,
		NumCertificado:  m.NumCertificado,
		CodRamoContable: m.CodRamoContable,
		CodCobertura:    m.CodCobertura,
		MontoReserva:    m.MontoReserva,
		FecCreacion:     m.FecCreacion,
		FecUltAjuste:    m.FecUltAjuste,
		Usuario:         m.Usuario,
	}
}

// ReserveModelFromDomain creates a persistence model from a domain Reserve
func ReserveModelFromDomain(r *claims.Reserve) *ReserveModel {
	return &ReserveModel{
		NumSiniestro:    r.NumSiniestro,
		CodRamo:         r.CodRamo,
		NumPoliza:       r.NumPoliza,
		NumCertificado:  r.NumCertificado,
		CodRamoContable: r.CodRamoContable,
		CodCobertura:    r.CodCobertura,
		MontoReserva:    r.MontoReserva,
		FecCreacion:     r.FecCreacion,
		FecUltAjuste:    r.FecUltAjuste,
		Usuario:         r.Usuario,
	}
}

// MovementModel is the persistence model for movimientos_siniestro
type MovementModel struct {
	NumSiniestro  int64               `gorm:"column:num_siniestro;primaryKey;autoIncrement:false"`
	NumMovimiento int                 `gorm:"column:num_movimiento;primaryKey;autoIncrement:false"`
	Tipo          claims.MovementType `gorm:"column:tipo;type:varchar(3);not null"`
	FecMovimiento time.Time           `gorm:"column:fec_movimiento;not null"`
	MontoTotal    decimal.Decimal     `gorm:"column:monto_total;type:decimal(18,2);not null"`
	Usuario       string              `gorm:"column:usuario;type:varchar(100)"`
	Observacion   string              `gorm:"column:observacion;type:varchar(500)"`
}

// TableName returns the table name for GORM
func (MovementModel) TableName() string {
	return "movimientos_siniestro"
}

// ToDomain converts the persistence model to a domain Movement without its lines
func (m *MovementModel) ToDomain() claims.Movement {
	return claims.Movement{
		NumSiniestro:  m.NumSiniestro,
		NumMovimiento: m.NumMovimiento,
		Tipo:          m.Tipo,
		FecMovimiento: m.FecMovimiento,
		MontoTotal:    m.MontoTotal,
		Usuario:       m.Usuario,
		Observacion:   m.Observacion,
	}
}

// MovementModelFromDomain creates a persistence model from a domain Movement header
func MovementModelFromDomain(m *claims.Movement) *MovementModel {
	return &MovementModel{
		NumSiniestro:  m.NumSiniestro,
		NumMovimiento: m.NumMovimiento,
		Tipo:          m.Tipo,
		FecMovimiento: m.FecMovimiento,
		MontoTotal:    m.MontoTotal,
		Usuario:       m.Usuario,
		Observacion:   m.Observacion,
	}
}

// CoverageMovementModel is the persistence model for movimientos_cobertura
type CoverageMovementModel struct {
	NumSiniestro    int64               `gorm:"column:num_siniestro;primaryKey;autoIncrement:false"`
	NumMovimiento   int                 `gorm:"column:num_movimiento;primaryKey;autoIncrement:false"`
	CodRamoContable string              `gorm:"column:cod_ramo_contable;type:varchar(10);primaryKey"`
	CodCobertura    string              `gorm:"column:cod_cobertura;type:varchar(10);primaryKey"`
	Tipo            claims.MovementType `gorm:"column:tipo;type:varchar(3);not null"`
	Monto           decimal.Decimal     `gorm:"column:monto;type:decimal(18,2);not null"`
	SaldoAnterior   decimal.Decimal     `gorm:"column:saldo_anterior;type:decimal(18,2);not null;default:0"`
	SaldoNuevo      decimal.Decimal     `gorm:"column:saldo_nuevo;type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CoverageMovementModel) TableName() string {
	return "movimientos_cobertura"
}

// ToDomain converts the persistence model to a domain CoverageMovement
func (m *CoverageMovementModel) ToDomain() claims.CoverageMovement {
	return claims.CoverageMovement{
		NumSiniestro:    m.NumSiniestro,
		NumMovimiento:   m.NumMovimiento,
		CodRamoContable: m.CodRamoContable,
		CodCobertura:    m.CodCobertura,
		Tipo:            m.Tipo,
		Monto:           m.Monto,
		SaldoAnterior:   m.SaldoAnterior,
		SaldoNuevo:      m.SaldoNuevo,
	}
}

// CoverageMovementModelFromDomain creates a persistence model from a domain CoverageMovement
func CoverageMovementModelFromDomain(m *claims.CoverageMovement) *CoverageMovementModel {
	return &CoverageMovementModel{
		NumSiniestro:    m.NumSiniestro,
		NumMovimiento:   m.NumMovimiento,
		CodRamoContable: m.CodRamoContable,
		CodCobertura:    m.CodCobertura,
		Tipo:            m.Tipo,
		Monto:           m.Monto,
		SaldoAnterior:   m.SaldoAnterior,
		SaldoNuevo:      m.SaldoNuevo,
	}
}
