package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinels
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error carrying an extra detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// AsDomainError extracts a DomainError from an error chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "El registro solicitado no existe")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "El registro ya existe")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Los datos ingresados no son válidos")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "El registro fue modificado por otro usuario")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "No autorizado para realizar esta acción")
	ErrForbidden           = NewDomainError("FORBIDDEN", "No tiene permisos para acceder a este recurso")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operación no permitida en el estado actual")
	ErrDuplicateRequest    = NewDomainError("SOLICITUD_DUPLICADA", "La solicitud ya fue procesada")
)
