package claims

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide is the side of an accounting line
type EntrySide string

const (
	SideDebit  EntrySide = "D" // Debe
	SideCredit EntrySide = "H" // Haber
)

// ReserveAccounts maps an accounting line to the accounts moved by reserve changes
type ReserveAccounts struct {
	CodRamoContable string `json:"cod_ramo_contable"`
	CuentaGasto     string `json:"cuenta_gasto"`
	CuentaReserva   string `json:"cuenta_reserva"`
}

// AccountingEntry is one line of an accounting entry (asiento_contable)
type AccountingEntry struct {
	NumAsiento      int64           `json:"num_asiento"`
	Linea           int             `json:"linea"`
	NumSiniestro    int64           `json:"num_siniestro"`
	NumMovimiento   int             `json:"num_movimiento"`
	CodRamoContable string          `json:"cod_ramo_contable"`
	CodCobertura    string          `json:"cod_cobertura"`
	Cuenta          string          `json:"cuenta"`
	Naturaleza      EntrySide       `json:"naturaleza"`
	Monto           decimal.Decimal `json:"monto"`
	CodMoneda       string          `json:"cod_moneda"`
	FecAsiento      time.Time       `json:"fec_asiento"`
	Glosa           string          `json:"glosa"`
}

// AccountResolver returns the reserve accounts of an accounting line
type AccountResolver func(codRamoContable string) (ReserveAccounts, bool)

// BuildAccountingEntries produces the double-entry lines for the reserve deltas of a movement.
// A positive delta debits the claims expense account and credits the reserve
// liability; a negative delta does the reverse. Zero deltas produce no lines.
func BuildAccountingEntries(
	numAsiento int64,
	claim *Claim,
	movement *Movement,
	resolve AccountResolver,
	at time.Time,
) ([]AccountingEntry, error) {
	entries := make([]AccountingEntry, 0, len(movement.Lines)*2)
	linea := 0
	for _, ml := range movement.Lines {
		if ml.Monto.IsZero() {
			continue
		}
		accounts, ok := resolve(ml.CodRamoContable)
		if !ok {
			return nil, ErrMissingAccounts.WithDetail("cod_ramo_contable", ml.CodRamoContable)
		}

		debit, credit := accounts.CuentaGasto, accounts.CuentaReserva
		if ml.Monto.IsNegative() {
			debit, credit = credit, debit
		}
		amount := ml.Monto.Abs()
		glosa := fmt.Sprintf("%s SIN %d MOV %d COB %s", movement.Tipo, claim.NumSiniestro, movement.NumMovimiento, ml.Key())

		for _, side := range []struct {
			cuenta string
			nat    EntrySide
		}{{debit, SideDebit}, {credit, SideCredit}} {
			linea++
			entries = append(entries, AccountingEntry{
				NumAsiento:      numAsiento,
				Linea:           linea,
				NumSiniestro:    claim.NumSiniestro,
				NumMovimiento:   movement.NumMovimiento,
				CodRamoContable: ml.CodRamoContable,
				CodCobertura:    ml.CodCobertura,
				Cuenta:          side.cuenta,
				Naturaleza:      side.nat,
				Monto:           amount,
				CodMoneda:       claim.CodMoneda,
				FecAsiento:      at,
				Glosa:           glosa,
			})
		}
	}

	if err := CheckBalanced(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CheckBalanced verifies that debits equal credits
func CheckBalanced(entries []AccountingEntry) error {
	debe, haber := decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Naturaleza {
		case SideDebit:
			debe = debe.Add(e.Monto)
		case SideCredit:
			haber = haber.Add(e.Monto)
		}
	}
	if !debe.Equal(haber) {
		return ErrUnbalancedEntry.
			WithDetail("debe", debe.StringFixed(2)).
			WithDetail("haber", haber.StringFixed(2))
	}
	return nil
}
