package identity

import (
	"errors"

	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/siniestros/backend/internal/infrastructure/auth"
)

// Token errors returned by refresh and logout
var (
	ErrTokenExpired    = shared.NewDomainError("TOKEN_EXPIRADO", "La sesión ha expirado, ingrese nuevamente")
	ErrTokenInvalid    = shared.NewDomainError("TOKEN_INVALIDO", "El token no es válido")
	ErrTokenRevoked    = shared.NewDomainError("TOKEN_REVOCADO", "La sesión fue cerrada, ingrese nuevamente")
	ErrTokenMaxRefresh = shared.NewDomainError("TOKEN_MAX_RENOVACIONES", "Se alcanzó el máximo de renovaciones, ingrese nuevamente")
)

// tokenError maps JWT validation errors to domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return ErrTokenRevoked
	default:
		return ErrTokenInvalid
	}
}
