package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes; business codes come from the domain errors
const (
	ErrCodeInternal      = "ERR_INTERNAL"
	ErrCodeValidation    = "ERR_VALIDACION"
	ErrCodeBadRequest    = "ERR_SOLICITUD_INVALIDA"
	ErrCodeUnauthorized  = "NO_AUTENTICADO"
	ErrCodeForbidden     = "SIN_PERMISO"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeRateLimited   = "LIMITE_SOLICITUDES"
	ErrCodeBodyTooLarge  = "CUERPO_DEMASIADO_GRANDE"
	ErrCodeUnavailable   = "SERVICIO_NO_DISPONIBLE"
	ErrCodeRouteNotFound = "RUTA_NO_ENCONTRADA"
)

// InternalErrorMessage is returned for any error that is not a business rule
const InternalErrorMessage = "Ocurrió un error inesperado, intente nuevamente"

// ErrorCodeHTTPStatus maps codes that do not follow the default rules
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeRouteNotFound: http.StatusNotFound,
	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeBodyTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:   http.StatusServiceUnavailable,

	// Shared domain errors
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_STATE":        http.StatusBadRequest,

	// Retried or concurrent requests
	"SOLICITUD_DUPLICADA":       http.StatusConflict,
	"SINIESTRO_EN_PROCESO":      http.StatusConflict,
	"BD_REGISTRO_DUPLICADO":     http.StatusConflict,
	"BD_REGISTRO_BLOQUEADO":     http.StatusConflict,
	"BD_CONFLICTO_CONCURRENCIA": http.StatusConflict,

	// Authentication
	"CREDENCIALES_INVALIDAS": http.StatusUnauthorized,
	"USUARIO_BLOQUEADO":      http.StatusUnauthorized,
	"USUARIO_INACTIVO":       http.StatusUnauthorized,

	// Infrastructure failures surfaced as domain errors
	"BD_SIN_CONEXION":          http.StatusServiceUnavailable,
	"BD_OPERACION_CANCELADA":   http.StatusServiceUnavailable,
	"BD_ERROR":                 http.StatusInternalServerError,
	"BD_ERROR_APLICACION":      http.StatusInternalServerError,
	"BD_SECUENCIA_INEXISTENTE": http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR":      http.StatusInternalServerError,
	"CUENTAS_NO_DEFINIDAS":     http.StatusInternalServerError,
	"ASIENTO_DESCUADRADO":      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain or transport error code.
// Codes not listed follow these rules: *_NO_ENCONTRADO/A -> 404, TOKEN_* -> 401,
// anything else is a business rule violation -> 400.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case code == "":
		return http.StatusInternalServerError
	case strings.HasSuffix(code, "_NO_ENCONTRADO"), strings.HasSuffix(code, "_NO_ENCONTRADA"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// IsServerError reports whether the code maps to a 5xx status
func IsServerError(code string) bool {
	return GetHTTPStatus(code) >= http.StatusInternalServerError
}
