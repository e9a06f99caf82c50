package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
)

// PolicyModel is the persistence model for polizas
type PolicyModel struct {
	CodRamo     string              `gorm:"column:cod_ramo;type:varchar(10);primaryKey"`
	NumPoliza   int64               `gorm:"column:num_poliza;primaryKey;autoIncrement:false"`
	CodSucursal string              `gorm:"column:cod_sucursal;type:varchar(10)"`
	CodMoneda   string              `gorm:"column:cod_moneda;type:varchar(3);not null"`
	FecVigDesde time.Time           `gorm:"column:fec_vig_desde;not null"`
	FecVigHasta time.Time           `gorm:"column:fec_vig_hasta;not null"`
	Estado      claims.PolicyStatus `gorm:"column:estado;type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (PolicyModel) TableName() string {
	return "polizas"
}

// ToDomain converts the persistence model to a domain Policy
func (m *PolicyModel) ToDomain() *claims.Policy {
	return &claims.Policy{
		CodRamo:     m.CodRamo,
		NumPoliza:   m.NumPoliza,
		CodSucursal: m.CodSucursal,
		CodMoneda:   m.CodMoneda,
		FecVigDesde: m.FecVigDesde,
		FecVigHasta: m.FecVigHasta,
		Estado:      m.Estado,
	}
}

// CertificateModel is the persistence model for certificados
type CertificateModel struct {
	CodRamo        string `gorm:"column:cod_ramo;type:varchar(10);primaryKey"`
	NumPoliza      int64  `gorm:"column:num_poliza;primaryKey;autoIncrement:false"`
	NumCertificado int64  `gorm:"column:num_certificado;primaryKey;autoIncrement:false"`
	Asegurado      string `gorm:"column:asegurado;type:varchar(200)"`
	Estado         string `gorm:"column:estado;type:varchar(3)"`
}

// TableName returns the table name for GORM
func (CertificateModel) TableName() string {
	return "certificados"
}

// ToDomain converts the persistence model to a domain Certificate
func (m *CertificateModel) ToDomain() *claims.Certificate {
	return &claims.Certificate{
		CertificateKey: claims.CertificateKey{
			CodRamo:        m.CodRamo,
			NumPoliza:      m.NumPoliza,
			NumCertificado: m.NumCertificado,
		},
		Asegurado: m.Asegurado,
		Estado:    m.Estado,
	}
}

// DeclarationModel is the persistence model for declaraciones_transporte
type DeclarationModel struct {
	CodRamo        string               `gorm:"column:cod_ramo;type:varchar(10);primaryKey"`
	NumPoliza      int64                `gorm:"column:num_poliza;primaryKey;autoIncrement:false"`
	NumCertificado int64                `gorm:"column:num_certificado;primaryKey;autoIncrement:false"`
	NumDeclaracion int64                `gorm:"column:num_declaracion;primaryKey;autoIncrement:false"`
	Medio          claims.TransportMode `gorm:"column:medio;type:varchar(10);not null"`
	ValorEmbarque  decimal.Decimal      `gorm:"column:valor_embarque;type:decimal(18,2);not null"`
	FecEmbarque    time.Time            `gorm:"column:fec_embarque"`
}

// TableName returns the table name for GORM
func (DeclarationModel) TableName() string {
	return "declaraciones_transporte"
}

// ToDomain converts the persistence model to a domain TransportDeclaration
func (m *DeclarationModel) ToDomain() *claims.TransportDeclaration {
	return &claims.TransportDeclaration{
		CertificateKey: claims.CertificateKey{
			CodRamo:        m.CodRamo,
			NumPoliza:      m.NumPoliza,
			NumCertificado: m.NumCertificado,
		},
		NumDeclaracion: m.NumDeclaracion,
		Medio:          m.Medio,
		ValorEmbarque:  m.ValorEmbarque,
		FecEmbarque:    m.FecEmbarque,
	}
}
