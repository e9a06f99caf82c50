package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appclaims "github.com/siniestros/backend/internal/application/claims"
	appidentity "github.com/siniestros/backend/internal/application/identity"
	"github.com/siniestros/backend/internal/domain/identity"
	"github.com/siniestros/backend/internal/infrastructure/auth"
	"github.com/siniestros/backend/internal/infrastructure/cache"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"github.com/siniestros/backend/internal/infrastructure/persistence"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"github.com/siniestros/backend/internal/interfaces/http/handler"
	"github.com/siniestros/backend/internal/interfaces/http/middleware"
	"github.com/siniestros/backend/internal/interfaces/http/router"
	"github.com/siniestros/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// APITestServer serves the claims and auth routes over a real database
type APITestServer struct {
	*ReserveTestSetup
	Engine *gin.Engine
}

// NewAPITestServer wires handlers, JWT auth and permissions the way the server does
func NewAPITestServer(t *testing.T) *APITestServer {
	t.Helper()

	setup := NewReserveTestSetup(t)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	setup.Service.SetIdempotencyStore(store)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-claims-api-1234567890",
		RefreshSecret:          "test-refresh-secret-key-for-claims-api-12",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "siniestros-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	logger := zap.NewNop()
	authService := appidentity.NewAuthService(persistence.NewGormUserRepository(setup.DB.DB), jwtService, blacklist, logger)
	jwt := middleware.JWTAuth(middleware.DefaultJWTConfig(jwtService, blacklist, logger))

	require.NoError(t, middleware.SetupValidator())
	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine).
		Register(router.AuthRoutes(handler.NewAuthHandler(authService), jwt)).
		Register(router.ClaimsRoutes(handler.NewClaimsHandler(setup.Service), middleware.PermissionConfig{Logger: logger}, jwt)).
		Setup()

	return &APITestServer{ReserveTestSetup: setup, Engine: engine}
}

// SeedUser stores a user through the repository
func (s *APITestServer) SeedUser(t *testing.T, username, password string, permisos ...string) {
	t.Helper()
	user, err := identity.NewUser(username, "Usuario "+username, password, []string{"AJUSTADOR"}, permisos)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(s.DB.DB).Save(testutil.ContextWithTimeout(t, 10*time.Second), user))
}

// Login returns an access token for the user
func (s *APITestServer) Login(t *testing.T, username, password string) string {
	t.Helper()
	w := testutil.Do(t, s.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   map[string]string{"username": username, "password": password},
	})
	result := testutil.DecodeData[appidentity.LoginResult](t, w, http.StatusOK)
	require.NotEmpty(t, result.AccessToken)
	return result.AccessToken
}

func TestClaimsAPI_AdjustmentFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	srv := NewAPITestServer(t)
	srv.DB.SeedGeneralClaim(claimNumber)
	srv.SeedUser(t, "ajustador1", "Clave-Segura-1", identity.PermissionConsultar, identity.PermissionAjustar)
	srv.SeedUser(t, "consulta1", "Clave-Segura-2", identity.PermissionConsultar)

	token := srv.Login(t, "ajustador1", "Clave-Segura-1")
	readOnly := srv.Login(t, "consulta1", "Clave-Segura-2")
	base := fmt.Sprintf("/api/siniestros/%d", claimNumber)
	body := map[string]any{
		"lineas": []map[string]string{
			{"cod_ramo_contable": ramoRC, "cod_cobertura": coberturaRC, "nuevo_monto": "2500.00"},
		},
		"observacion": "Ajuste por peritaje",
	}

	t.Run("claim detail", func(t *testing.T) {
		w := testutil.Do(t, srv.Engine, testutil.Request{Path: base, Token: readOnly})
		detail := testutil.DecodeData[map[string]any](t, w, http.StatusOK)
		assert.EqualValues(t, claimNumber, detail["num_siniestro"])
	})

	t.Run("read-only user cannot apply", func(t *testing.T) {
		w := testutil.Do(t, srv.Engine, testutil.Request{Method: http.MethodPost, Path: base + "/ajustes", Body: body, Token: readOnly})
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
	})

	t.Run("validate then apply", func(t *testing.T) {
		w := testutil.Do(t, srv.Engine, testutil.Request{Method: http.MethodPost, Path: base + "/ajustes/validar", Body: body, Token: token})
		validation := testutil.DecodeData[appclaims.ValidationResponse](t, w, http.StatusOK)
		assert.True(t, validation.Valido)

		w = testutil.Do(t, srv.Engine, testutil.Request{
			Method:  http.MethodPost,
			Path:    base + "/ajustes",
			Body:    body,
			Token:   token,
			Headers: map[string]string{middleware.IdempotencyKeyHeader: "pantalla-42"},
		})
		applied := testutil.DecodeData[appclaims.ApplyResponse](t, w, http.StatusCreated)
		assert.Equal(t, 1, applied.NumMovimiento)
		testutil.RequireDecimal(t, "2500", applied.ReservaTotal)

		movements := testutil.DecodeData[[]map[string]any](t,
			testutil.Do(t, srv.Engine, testutil.Request{Path: base + "/movimientos", Token: readOnly}), http.StatusOK)
		require.Len(t, movements, 1)
		assert.Equal(t, "ajustador1", movements[0]["usuario"])
	})

	t.Run("replayed idempotency key conflicts", func(t *testing.T) {
		w := testutil.Do(t, srv.Engine, testutil.Request{
			Method:  http.MethodPost,
			Path:    base + "/ajustes",
			Body:    body,
			Token:   token,
			Headers: map[string]string{middleware.IdempotencyKeyHeader: "pantalla-42"},
		})
		testutil.AssertErrorResponse(t, w, http.StatusConflict, "SOLICITUD_DUPLICADA")
	})

	t.Run("unchanged amount is rejected per line", func(t *testing.T) {
		w := testutil.Do(t, srv.Engine, testutil.Request{Method: http.MethodPost, Path: base + "/ajustes", Body: body, Token: token})
		errInfo := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "AJUSTE_RECHAZADO")
		assert.NotEmpty(t, errInfo.Details["lineas"])
	})

	t.Run("reserve rows and accounting entries", func(t *testing.T) {
		rows := testutil.DecodeData[[]appclaims.ReserveRowResponse](t,
			testutil.Do(t, srv.Engine, testutil.Request{Path: base + "/reservas", Token: readOnly}), http.StatusOK)
		require.Len(t, rows, 3)
		testutil.RequireDecimal(t, "2500", rows[0].SaldoActual)

		entries := testutil.DecodeData[[]map[string]any](t,
			testutil.Do(t, srv.Engine, testutil.Request{Path: base + "/movimientos/1/asientos", Token: readOnly}), http.StatusOK)
		assert.Len(t, entries, 2)

		w := testutil.Do(t, srv.Engine, testutil.Request{Path: base + "/movimientos/9/asientos", Token: readOnly})
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "MOVIMIENTO_NO_ENCONTRADO")
	})

	t.Run("export", func(t *testing.T) {
		w := testutil.Do(t, srv.Engine, testutil.Request{Path: base + "/reservas/export", Token: readOnly})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
		assert.NotEmpty(t, w.Body.Bytes())
	})
}

func TestAuthAPI_LockoutAfterFailedLogins(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	srv := NewAPITestServer(t)
	srv.SeedUser(t, "ajustador2", "Clave-Segura-3", identity.PermissionConsultar)

	for i := 0; i < identity.MaxFailedAttempts; i++ {
		w := testutil.Do(t, srv.Engine, testutil.Request{
			Method: http.MethodPost,
			Path:   "/api/auth/login",
			Body:   map[string]string{"username": "ajustador2", "password": "incorrecta"},
		})
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, identity.ErrInvalidCredentials.Code)
	}

	w := testutil.Do(t, srv.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   map[string]string{"username": "ajustador2", "password": "Clave-Segura-3"},
	})
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, identity.ErrUserLocked.Code)

	assert.Equal(t, int64(1), srv.DB.Count("usuarios", "username = ? AND bloqueado_hasta > NOW()", "ajustador2"))
}
