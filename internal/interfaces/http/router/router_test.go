package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appclaims "github.com/siniestros/backend/internal/application/claims"
	appidentity "github.com/siniestros/backend/internal/application/identity"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/domain/identity"
	"github.com/siniestros/backend/internal/infrastructure/auth"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"github.com/siniestros/backend/internal/interfaces/http/handler"
	"github.com/siniestros/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "/api", r.basePath)
	assert.Empty(t, r.registrars)
}

func TestRouterWithBasePath(t *testing.T) {
	r := NewRouter(gin.New(), WithBasePath("/api/v2"))
	assert.Equal(t, "/api/v2", r.basePath)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("siniestros", "/siniestros")
		assert.Equal(t, "siniestros", g.Name())
		assert.Equal(t, "/siniestros", g.Prefix())
	})

	t.Run("registers methods", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("test", "/test").
			GET("/items", ok).
			POST("/items", ok).
			DELETE("/items/:id", ok)
		g.RegisterRoutes(engine.Group("/api"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/test/items"},
			{http.MethodPost, "/api/test/items"},
			{http.MethodDelete, "/api/test/items/1"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("applies middleware to subgroups", func(t *testing.T) {
		engine := gin.New()
		var calls []string
		g := NewDomainGroup("parent", "/parent").Use(func(c *gin.Context) {
			calls = append(calls, "parent")
			c.Next()
		})
		g.Group("child", "/child").
			Use(func(c *gin.Context) {
				calls = append(calls, "child")
				c.Next()
			}).
			GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/parent/child/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"parent", "child"}, calls)
	})
}

// stubReserves answers every lookup with "claim not found" and records applies
type stubReserves struct {
	handler.ReserveUseCases
	applied int
}

func (s *stubReserves) GetClaim(context.Context, int64) (*appclaims.ClaimDetailResponse, error) {
	return nil, claims.ErrClaimNotFound
}

func (s *stubReserves) ApplyAdjustments(_ context.Context, in appclaims.ApplyAdjustmentsInput) (*appclaims.ApplyResponse, error) {
	s.applied++
	return &appclaims.ApplyResponse{NumSiniestro: in.NumSiniestro, NumMovimiento: 1}, nil
}

// fakeAuth authenticates every request with the permissions listed in X-Test-Permisos
func fakeAuth(c *gin.Context) {
	perms := c.GetHeader("X-Test-Permisos")
	if perms == "" {
		c.Next()
		return
	}
	c.Set(middleware.JWTClaimsKey, &auth.Claims{Username: "ajustador1", Permissions: strings.Split(perms, ",")})
	c.Set(middleware.JWTUsernameKey, "ajustador1")
	c.Next()
}

func newClaimsEngine(t *testing.T, svc *stubReserves) *gin.Engine {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())
	engine := gin.New()
	engine.Use(middleware.RequestID())
	NewRouter(engine).
		Register(ClaimsRoutes(handler.NewClaimsHandler(svc), middleware.PermissionConfig{}, fakeAuth)).
		Setup()
	return engine
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestClaimsRoutes_Permissions(t *testing.T) {
	applyBody := `{"lineas":[{"cod_ramo_contable":"01","cod_cobertura":"RC","nuevo_monto":"100"}]}`

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		permisos   string
		wantStatus int
		wantCode   string
	}{
		{name: "anonymous read", method: http.MethodGet, path: "/api/siniestros/10", wantStatus: http.StatusUnauthorized, wantCode: dto.ErrCodeUnauthorized},
		{name: "read with consultar", method: http.MethodGet, path: "/api/siniestros/10", permisos: identity.PermissionConsultar, wantStatus: http.StatusNotFound, wantCode: "SINIESTRO_NO_ENCONTRADO"},
		{name: "read with ajustar only", method: http.MethodGet, path: "/api/siniestros/10", permisos: identity.PermissionAjustar, wantStatus: http.StatusForbidden, wantCode: dto.ErrCodeForbidden},
		{name: "apply with consultar only", method: http.MethodPost, path: "/api/siniestros/10/ajustes", body: applyBody, permisos: identity.PermissionConsultar, wantStatus: http.StatusForbidden, wantCode: dto.ErrCodeForbidden},
		{name: "apply with ajustar", method: http.MethodPost, path: "/api/siniestros/10/ajustes", body: applyBody, permisos: identity.PermissionAjustar, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubReserves{}
			engine := newClaimsEngine(t, svc)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.permisos != "" {
				req.Header.Set("X-Test-Permisos", tt.permisos)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			}
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, 1, svc.applied)
			} else {
				assert.Zero(t, svc.applied)
			}
		})
	}
}

func TestClaimsRoutes_Table(t *testing.T) {
	engine := newClaimsEngine(t, &stubReserves{})

	want := map[string]bool{
		"GET /api/siniestros":                                                      true,
		"GET /api/siniestros/:num":                                                 true,
		"GET /api/siniestros/:num/reservas":                                        true,
		"POST /api/siniestros/:num/reservas":                                       true,
		"GET /api/siniestros/:num/reservas/export":                                 true,
		"GET /api/siniestros/:num/reservas/:ramoContable/:cobertura/saldo":         true,
		"GET /api/siniestros/:num/reservas/:ramoContable/:cobertura/suma-asegurada": true,
		"DELETE /api/siniestros/:num/reservas/:ramoContable/:cobertura":            true,
		"POST /api/siniestros/:num/ajustes":                                        true,
		"POST /api/siniestros/:num/ajustes/validar":                                true,
		"GET /api/siniestros/:num/movimientos":                                     true,
		"GET /api/siniestros/:num/movimientos/:mov/asientos":                       true,
	}

	got := map[string]bool{}
	for _, r := range engine.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	assert.Equal(t, want, got)
}

func TestAuthRoutes(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "siniestros-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authHandler := handler.NewAuthHandler(appidentity.NewAuthService(nil, jwtService, blacklist, zap.NewNop()))
	jwt := middleware.JWTAuth(middleware.DefaultJWTConfig(jwtService, blacklist, zap.NewNop()))

	var publicCalls int
	engine := gin.New()
	NewRouter(engine).
		Register(AuthRoutes(authHandler, jwt, func(c *gin.Context) {
			publicCalls++
			c.Next()
		})).
		Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALIDO", errorCode(t, w))

	assert.Equal(t, 2, publicCalls)
}
