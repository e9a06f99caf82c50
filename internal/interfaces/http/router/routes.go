package router

import (
	"github.com/gin-gonic/gin"
	"github.com/siniestros/backend/internal/interfaces/http/handler"
	"github.com/siniestros/backend/internal/interfaces/http/middleware"
)

// ClaimsRoutes builds the /siniestros group. auth runs first so the
// remaining middleware can see the authenticated user.
func ClaimsRoutes(h *handler.ClaimsHandler, perm middleware.PermissionConfig, auth gin.HandlerFunc, extra ...gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("siniestros", "/siniestros").Use(auth)
	g.Use(extra...)
	g.Use(middleware.RequireClaimsAccess(perm))

	g.GET("", h.ListClaims).
		GET("/:num", h.GetClaim)

	g.Group("reservas", "/:num/reservas").
		GET("", h.ListReserves).
		POST("", h.AddReserveRow).
		GET("/export", h.ExportReserves).
		GET("/:ramoContable/:cobertura/saldo", h.GetBalance).
		GET("/:ramoContable/:cobertura/suma-asegurada", h.GetInsuredSum).
		DELETE("/:ramoContable/:cobertura", h.RemoveReserveRow)

	g.Group("ajustes", "/:num/ajustes").
		POST("", h.ApplyAdjustments).
		POST("/validar", h.ValidateAdjustments)

	g.Group("movimientos", "/:num/movimientos").
		GET("", h.ListMovements).
		GET("/:mov/asientos", h.ListAccountingEntries)

	return g
}

// AuthRoutes builds the /auth group. public applies to every route;
// logout and me also require auth.
func AuthRoutes(h *handler.AuthHandler, auth gin.HandlerFunc, public ...gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("auth", "/auth").Use(public...)
	g.POST("/login", h.Login).
		POST("/refresh", h.RefreshToken)

	g.Group("session", "").
		Use(auth).
		POST("/logout", h.Logout).
		GET("/me", h.GetCurrentUser)

	return g
}

// SystemRoutes builds the authenticated /system group
func SystemRoutes(h *handler.SystemHandler, auth gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("system", "/system").
		Use(auth).
		GET("/info", h.GetSystemInfo)
}
