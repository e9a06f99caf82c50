package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siniestros/backend/internal/domain/identity"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(cfg PermissionConfig, permission string) gin.HandlerFunc {
	return RequireAnyPermission(cfg, permission)
}

// RequireAnyPermission lets the request through when the user holds at least one of permissions
func RequireAnyPermission(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Debe iniciar sesión para acceder a este recurso")
			return
		}
		if !claims.HasAnyPermission(permissions...) {
			handlePermissionDenied(c, cfg, claims.Username, permissions)
			return
		}
		c.Next()
	}
}

// RequireClaimsAccess maps the HTTP method to the claims permission:
// reads need siniestros:consultar, every write needs siniestros:ajustar.
func RequireClaimsAccess(cfg PermissionConfig) gin.HandlerFunc {
	read := RequirePermission(cfg, identity.PermissionConsultar)
	write := RequirePermission(cfg, identity.PermissionAjustar)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			read(c)
		default:
			write(c)
		}
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, username string, required []string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("username", username),
			zap.Strings("required_any", required),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
	resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
		"No tiene permisos para realizar esta operación", GetRequestID(c),
		map[string]any{"permisos_requeridos": required})
	c.AbortWithStatusJSON(http.StatusForbidden, resp)
}

// HasPermission reports whether the authenticated user holds permission
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	return claims != nil && claims.HasPermission(permission)
}
