package integration

import (
	"time"
)

// Coverage codes used by the seeded general-branch claim
const (
	generalRamo   = "AUT"
	maritimeRamo  = "TMA"
	lifeRamo      = "VID"
	ramoRC        = "01"
	ramoGM        = "02"
	coberturaRC   = "RC"
	coberturaDP   = "DP"
	coberturaRB   = "RB"
	coberturaGM   = "GM"
	lucRCDP       = "L1"
	cuentaGasto01 = "5101"
	cuentaRes01   = "2101"
	cuentaGasto02 = "5102"
	cuentaRes02   = "2102"
)

var seedDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// policyFixture is a policy with one certificate
type policyFixture struct {
	CodRamo   string
	NumPoliza int64
	NumCert   int64
	Moneda    string
}

// SeedPolicy inserts an active policy and its certificate
func (tdb *TestDB) SeedPolicy(p policyFixture) {
	tdb.t.Helper()
	tdb.Exec(`INSERT INTO polizas (cod_ramo, num_poliza, cod_sucursal, cod_moneda, fec_vig_desde, fec_vig_hasta, estado)
		VALUES (?, ?, '01', ?, ?, ?, 'VIG')`,
		p.CodRamo, p.NumPoliza, p.Moneda, seedDate.AddDate(-1, 0, 0), seedDate.AddDate(1, 0, 0))
	tdb.Exec(`INSERT INTO certificados (cod_ramo, num_poliza, num_certificado, asegurado, estado)
		VALUES (?, ?, ?, 'ASEGURADO DE PRUEBA', 'VIG')`,
		p.CodRamo, p.NumPoliza, p.NumCert)
}

// SeedCoverage inserts a catalog coverage and contracts it on the policy certificate
func (tdb *TestDB) SeedCoverage(p policyFixture, ramoContable, cobertura, codLuc string, prioridad int, suma string) {
	tdb.t.Helper()
	var luc any
	if codLuc != "" {
		luc = codLuc
	}
	tdb.Exec(`INSERT INTO coberturas (cod_ramo, cod_ramo_contable, cod_cobertura, descripcion, cod_luc, prioridad)
		VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		p.CodRamo, ramoContable, cobertura, "COBERTURA "+cobertura, luc, prioridad)
	tdb.Exec(`INSERT INTO coberturas_certificado (cod_ramo, num_poliza, num_certificado, cod_ramo_contable, cod_cobertura, suma_asegurada, deducible)
		VALUES (?, ?, ?, ?, ?, ?, 0)`,
		p.CodRamo, p.NumPoliza, p.NumCert, ramoContable, cobertura, suma)
}

// SeedLuc inserts a combined single limit on the policy certificate
func (tdb *TestDB) SeedLuc(p policyFixture, codLuc, limite string) {
	tdb.t.Helper()
	tdb.Exec(`INSERT INTO limites_luc (cod_ramo, num_poliza, num_certificado, cod_luc, monto_limite)
		VALUES (?, ?, ?, ?, ?)`, p.CodRamo, p.NumPoliza, p.NumCert, codLuc, limite)
}

// SeedAccounts maps an accounting line to its reserve accounts
func (tdb *TestDB) SeedAccounts(ramoContable, gasto, reserva string) {
	tdb.t.Helper()
	tdb.Exec(`INSERT INTO cuentas_reserva (cod_ramo_contable, cuenta_gasto, cuenta_reserva)
		VALUES (?, ?, ?) ON CONFLICT DO NOTHING`, ramoContable, gasto, reserva)
}

// SeedClaim inserts a claim on the policy certificate
func (tdb *TestDB) SeedClaim(p policyFixture, numSiniestro int64, estado string, numDeclaracion *int64) {
	tdb.t.Helper()
	tdb.Exec(`INSERT INTO siniestros (num_siniestro, cod_ramo, num_poliza, num_certificado, num_declaracion,
			fec_ocurrencia, fec_notificacion, estado, cod_moneda, descripcion, monto_reserva)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'SINIESTRO DE PRUEBA', 0)`,
		numSiniestro, p.CodRamo, p.NumPoliza, p.NumCert, numDeclaracion,
		seedDate, seedDate.AddDate(0, 0, 2), estado, p.Moneda)
}

// SeedReserveRow opens an empty reserve row for a coverage of the claim
func (tdb *TestDB) SeedReserveRow(p policyFixture, numSiniestro int64, ramoContable, cobertura string) {
	tdb.t.Helper()
	tdb.Exec(`INSERT INTO reservas_cobertura_certificado (num_siniestro, cod_ramo, num_poliza, num_certificado,
			cod_ramo_contable, cod_cobertura, monto_reserva, fec_creacion, usuario)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, 'carga')`,
		numSiniestro, p.CodRamo, p.NumPoliza, p.NumCert, ramoContable, cobertura, seedDate)
}

// SeedPayment records a paid amount on one coverage of a claim as its own PAG movement
func (tdb *TestDB) SeedPayment(numSiniestro int64, numMovimiento int, ramoContable, cobertura, monto string) {
	tdb.t.Helper()
	tdb.Exec(`INSERT INTO movimientos_siniestro (num_siniestro, num_movimiento, tipo, fec_movimiento, monto_total, usuario)
		VALUES (?, ?, 'PAG', ?, ?, 'carga')`, numSiniestro, numMovimiento, seedDate, monto)
	tdb.Exec(`INSERT INTO movimientos_cobertura (num_siniestro, num_movimiento, cod_ramo_contable, cod_cobertura, tipo, monto)
		VALUES (?, ?, ?, ?, 'PAG', ?)`, numSiniestro, numMovimiento, ramoContable, cobertura, monto)
}

// generalFixture is the policy of the general-branch scenario
var generalFixture = policyFixture{CodRamo: generalRamo, NumPoliza: 1001, NumCert: 1, Moneda: "USD"}

// SeedGeneralClaim builds an active general-branch claim with three reserve rows:
// RC (priority 1) and DP (priority 2) share LUC L1 of 12000, GM has no LUC.
// RB is contracted but has no reserve row.
func (tdb *TestDB) SeedGeneralClaim(numSiniestro int64) {
	tdb.t.Helper()
	p := generalFixture
	tdb.SeedPolicy(p)
	tdb.SeedCoverage(p, ramoRC, coberturaRC, lucRCDP, 1, "10000")
	tdb.SeedCoverage(p, ramoRC, coberturaDP, lucRCDP, 2, "8000")
	tdb.SeedCoverage(p, ramoRC, coberturaRB, "", 4, "3000")
	tdb.SeedCoverage(p, ramoGM, coberturaGM, "", 3, "5000")
	tdb.SeedLuc(p, lucRCDP, "12000")
	tdb.SeedAccounts(ramoRC, cuentaGasto01, cuentaRes01)
	tdb.SeedAccounts(ramoGM, cuentaGasto02, cuentaRes02)
	tdb.SeedClaim(p, numSiniestro, "ACT", nil)
	tdb.SeedReserveRow(p, numSiniestro, ramoRC, coberturaRC)
	tdb.SeedReserveRow(p, numSiniestro, ramoRC, coberturaDP)
	tdb.SeedReserveRow(p, numSiniestro, ramoGM, coberturaGM)
}
