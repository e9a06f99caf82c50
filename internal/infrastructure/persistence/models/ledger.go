package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
)

// AccountingEntryModel is the persistence model for asientos_contables
type AccountingEntryModel struct {
	NumAsiento      int64            `gorm:"column:num_asiento;primaryKey;autoIncrement:false"`
	Linea           int              `gorm:"column:linea;primaryKey;autoIncrement:false"`
	NumSiniestro    int64            `gorm:"column:num_siniestro;not null;index:idx_asientos_movimiento"`
	NumMovimiento   int              `gorm:"column:num_movimiento;not null;index:idx_asientos_movimiento"`
	CodRamoContable string           `gorm:"column:cod_ramo_contable;type:varchar(10);not null"`
	CodCobertura    string           `gorm:"column:cod_cobertura;type:varchar(10);not null"`
	Cuenta          string           `gorm:"column:cuenta;type:varchar(20);not null"`
	Naturaleza      claims.EntrySide `gorm:"column:naturaleza;type:varchar(1);not null"`
	Monto           decimal.Decimal  `gorm:"column:monto;type:decimal(18,2);not null"`
	CodMoneda       string           `gorm:"column:cod_moneda;type:varchar(3);not null"`
	FecAsiento      time.Time        `gorm:"column:fec_asiento;not null"`
	Glosa           string           `gorm:"column:glosa;type:varchar(200)"`
}

// TableName returns the table name for GORM
func (AccountingEntryModel) TableName() string {
	return "asientos_contables"
}

// ToDomain converts the persistence model to a domain AccountingEntry
func (m *AccountingEntryModel) ToDomain() claims.AccountingEntry {
	return claims.AccountingEntry{
		NumAsiento:      m.NumAsiento,
		Linea:           m.Linea,
		NumSiniestro:    m.NumSiniestro,
		NumMovimiento:   m.NumMovimiento,
		CodRamoContable: m.CodRamoContable,
		CodCobertura:    m.CodCobertura,
		Cuenta:          m.Cuenta,
		Naturaleza:      m.Naturaleza,
		Monto:           m.Monto,
		CodMoneda:       m.CodMoneda,
		FecAsiento:      m.FecAsiento,
		Glosa:           m.Glosa,
	}
}

// AccountingEntryModelFromDomain creates a persistence model from a domain AccountingEntry
func AccountingEntryModelFromDomain(e *claims.AccountingEntry) *AccountingEntryModel {
	return &AccountingEntryModel{
		NumAsiento:      e.NumAsiento,
		Linea:           e.Linea,
		NumSiniestro:    e.NumSiniestro,
		NumMovimiento:   e.NumMovimiento,
		CodRamoContable: e.CodRamoContable,
		CodCobertura:    e.CodCobertura,
		Cuenta:          e.Cuenta,
		Naturaleza:      e.Naturaleza,
		Monto:           e.Monto,
		CodMoneda:       e.CodMoneda,
		FecAsiento:      e.FecAsiento,
		Glosa:           e.Glosa,
	}
}
