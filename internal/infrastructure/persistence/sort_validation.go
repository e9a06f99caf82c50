package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ClaimSortFields contains allowed sort fields for claims
var ClaimSortFields = map[string]bool{
	"num_siniestro":      true,
	"cod_ramo":           true,
	"num_poliza":         true,
	"num_certificado":    true,
	"fec_ocurrencia":     true,
	"fec_notificacion":   true,
	"estado":             true,
	"monto_reserva":      true,
	"fec_ult_movimiento": true,
}
