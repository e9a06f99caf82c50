package models

import (
	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
)

// CoverageModel is the persistence model for the coverage catalog (coberturas)
type CoverageModel struct {
	CodRamo         string  `gorm:"column:cod_ramo;type:varchar(10);primaryKey"`
	CodRamoContable string  `gorm:"column:cod_ramo_contable;type:varchar(10);primaryKey"`
	CodCobertura    string  `gorm:"column:cod_cobertura;type:varchar(10);primaryKey"`
	Descripcion     string  `gorm:"column:descripcion;type:varchar(200)"`
	CodLuc          *string `gorm:"column:cod_luc;type:varchar(10)"`
	Prioridad       int     `gorm:"column:prioridad;not null;default:99"`
}

// TableName returns the table name for GORM
func (CoverageModel) TableName() string {
	return "coberturas"
}

// ToDomain converts the persistence model to a domain Coverage
func (m *CoverageModel) ToDomain() claims.Coverage {
	c := claims.Coverage{
		CodRamo:         m.CodRamo,
		CodRamoContable: m.CodRamoContable,
		CodCobertura:    m.CodCobertura,
		Descripcion:     m.Descripcion,
		Prioridad:       m.Prioridad,
	}
	if m.CodLuc != nil {
		c.CodLuc = *m.CodLuc
	}
	return c
}

// CertificateCoverageModel is the persistence model for coberturas_certificado
type CertificateCoverageModel struct {
	CodRamo         string          `gorm:"column:cod_ramo;type:varchar(10);primaryKey"`
	NumPoliza       int64           `gorm:"column:num_poliza;primaryKey;autoIncrement:false"`
	NumCertificado  int64           `gorm:"column:num_certificado;primaryKey;autoIncrement:false"`
	CodRamoContable string          `gorm:"column:cod_ramo_contable;type:varchar(10);primaryKey"`
	CodCobertura    string          `gorm:"column:cod_cobertura;type:varchar(10);primaryKey"`
	SumaAsegurada   decimal.Decimal `gorm:"column:suma_asegurada;type:decimal(18,2);not null"`
	Deducible       decimal.Decimal `gorm:"column:deducible;type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CertificateCoverageModel) TableName() string {
	return "coberturas_certificado"
}

// ToDomain converts the persistence model to a domain CertificateCoverage
func (m *CertificateCoverageModel) ToDomain() claims.CertificateCoverage {
	return claims.CertificateCoverage{
		CertificateKey: claims.CertificateKey{
			CodRamo:        m.CodRamo,
			NumPoliza:      m.NumPoliza,
			NumCertificado: m.NumCertificado,
		},
		CodRamoContable: m.CodRamoContable,
		CodCobertura:    m.CodCobertura,
		SumaAsegurada:   m.SumaAsegurada,
		Deducible:       m.Deducible,
	}
}

// LucLimitModel is the persistence model for limites_luc
type LucLimitModel struct {
	CodRamo        string          `gorm:"column:cod_ramo;type:varchar(10);primaryKey"`
	NumPoliza      int64           `gorm:"column:num_poliza;primaryKey;autoIncrement:false"`
	NumCertificado int64           `gorm:"column:num_certificado;primaryKey;autoIncrement:false"`
	CodLuc         string          `gorm:"column:cod_luc;type:varchar(10);primaryKey"`
	MontoLimite    decimal.Decimal `gorm:"column:monto_limite;type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (LucLimitModel) TableName() string {
	return "limites_luc"
}

// ToDomain converts the persistence model to a domain LucLimit
func (m *LucLimitModel) ToDomain() claims.LucLimit {
	return claims.LucLimit{
		CertificateKey: claims.CertificateKey{
			CodRamo:        m.CodRamo,
			NumPoliza:      m.NumPoliza,
			NumCertificado: m.NumCertificado,
		},
		CodLuc:      m.CodLuc,
		MontoLimite: m.MontoLimite,
	}
}

// ReserveAccountsModel is the persistence model for cuentas_reserva
type ReserveAccountsModel struct {
	CodRamoContable string `gorm:"column:cod_ramo_contable;type:varchar(10);primaryKey"`
	CuentaGasto     string `gorm:"column:cuenta_gasto;type:varchar(20);not null"`
	CuentaReserva   string `gorm:"column:cuenta_reserva;type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ReserveAccountsModel) TableName() string {
	return "cuentas_reserva"
}

// ToDomain converts the persistence model to domain ReserveAccounts
func (m *ReserveAccountsModel) ToDomain() claims.ReserveAccounts {
	return claims.ReserveAccounts{
		CodRamoContable: m.CodRamoContable,
		CuentaGasto:     m.CuentaGasto,
		CuentaReserva:   m.CuentaReserva,
	}
}
