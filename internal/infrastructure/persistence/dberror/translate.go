// Package dberror converts driver and ORM errors into domain errors with
// user-facing Spanish messages.
//
// Three error sources are recognised: PostgreSQL errors raised through pgx
// (pgconn.PgError) or lib/pq (pq.Error), GORM's translated sentinels, and
// Oracle errors carried as "ORA-NNNNN" text by legacy procedures and
// database links. Anything else is returned unchanged.
package dberror

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/siniestros/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Database error codes exposed to clients
var (
	ErrDuplicate       = shared.NewDomainError("BD_REGISTRO_DUPLICADO", "Ya existe un registro con los mismos datos")
	ErrMissingParent   = shared.NewDomainError("BD_REFERENCIA_INEXISTENTE", "El registro referenciado no existe")
	ErrHasDependents   = shared.NewDomainError("BD_REGISTRO_CON_DEPENDENCIAS", "El registro tiene información relacionada y no puede eliminarse")
	ErrRequiredValue   = shared.NewDomainError("BD_CAMPO_OBLIGATORIO", "Falta un dato obligatorio")
	ErrValueTooLarge   = shared.NewDomainError("BD_VALOR_DEMASIADO_GRANDE", "Un valor excede el tamaño permitido")
	ErrCheckViolated   = shared.NewDomainError("BD_VALOR_NO_PERMITIDO", "Un valor no cumple las reglas de la base de datos")
	ErrRowLocked       = shared.NewDomainError("BD_REGISTRO_BLOQUEADO", "El registro está siendo modificado por otro usuario, intente nuevamente")
	ErrDeadlock        = shared.NewDomainError("BD_CONFLICTO_CONCURRENCIA", "Conflicto de concurrencia en la base de datos, intente nuevamente")
	ErrCancelled       = shared.NewDomainError("BD_OPERACION_CANCELADA", "La operación fue cancelada o excedió el tiempo de espera")
	ErrApplication     = shared.NewDomainError("BD_ERROR_APLICACION", "La base de datos rechazó la operación")
	ErrConnectionLost  = shared.NewDomainError("BD_SIN_CONEXION", "No fue posible comunicarse con la base de datos")
	ErrMissingSequence = shared.NewDomainError("BD_SECUENCIA_INEXISTENTE", "La secuencia requerida no existe")
)

var (
	sqlStateCodes = map[string]*shared.DomainError{
		"23505": ErrDuplicate,
		"23503": ErrMissingParent,
		"23502": ErrRequiredValue,
		"23514": ErrCheckViolated,
		"22001": ErrValueTooLarge,
		"22003": ErrValueTooLarge,
		"55P03": ErrRowLocked,
		"40P01": ErrDeadlock,
		"40001": ErrDeadlock,
		"57014": ErrCancelled,
		"42P01": ErrMissingSequence,
		"08000": ErrConnectionLost,
		"08003": ErrConnectionLost,
		"08006": ErrConnectionLost,
	}

	oracleCodes = map[string]*shared.DomainError{
		"00001": ErrDuplicate,
		"02291": ErrMissingParent,
		"02292": ErrHasDependents,
		"01400": ErrRequiredValue,
		"01407": ErrRequiredValue,
		"02290": ErrCheckViolated,
		"12899": ErrValueTooLarge,
		"01438": ErrValueTooLarge,
		"00054": ErrRowLocked,
		"30006": ErrRowLocked,
		"00060": ErrDeadlock,
		"08177": ErrDeadlock,
		"01013": ErrCancelled,
		"02289": ErrMissingSequence,
		"03113": ErrConnectionLost,
		"03114": ErrConnectionLost,
		"12541": ErrConnectionLost,
	}

	oraclePattern = regexp.MustCompile(`ORA-(\d{5}):\s*([^\n]*)`)
)

// Translate converts a database error into a DomainError.
// Domain errors pass through untouched; unknown errors are returned as is.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCancelled
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromSQLState(pgErr.Code, pgErr.Message, pgErr.ConstraintName, pgErr.Detail)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fromSQLState(string(pqErr.Code), pqErr.Message, pqErr.Constraint, pqErr.Detail)
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrMissingParent
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrCheckViolated
	}

	if m := oraclePattern.FindStringSubmatch(err.Error()); m != nil {
		return fromOracle(m[1], strings.TrimSpace(m[2]))
	}
	return err
}

func fromSQLState(code, message, constraint, detail string) error {
	if code == "P0001" {
		return ErrApplication.WithDetail("mensaje", message)
	}
	de, ok := sqlStateCodes[code]
	if !ok {
		return &shared.DomainError{Code: "BD_ERROR", Message: "Error de base de datos (" + code + ")"}
	}
	// PostgreSQL reports both directions of a foreign key violation as 23503
	if code == "23503" && strings.Contains(detail, "is still referenced") {
		de = ErrHasDependents
	}
	if constraint != "" {
		de = de.WithDetail("restriccion", constraint)
	}
	return de.WithDetail("codigo", code)
}

func fromOracle(code, message string) error {
	// ORA-20000..20999 are raised by application procedures with a user message
	if strings.HasPrefix(code, "20") {
		return ErrApplication.WithDetail("mensaje", message).WithDetail("codigo", "ORA-"+code)
	}
	de, ok := oracleCodes[code]
	if !ok {
		return &shared.DomainError{Code: "BD_ERROR", Message: "Error de base de datos (ORA-" + code + ")"}
	}
	return de.WithDetail("codigo", "ORA-"+code)
}

// IsRetryable reports whether the failed operation may succeed if retried
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRowLocked) || errors.Is(err, ErrDeadlock) || errors.Is(err, ErrConnectionLost)
}
