package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/siniestros/backend/internal/application/identity"
	"github.com/siniestros/backend/internal/domain/identity"
	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/siniestros/backend/internal/infrastructure/auth"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"github.com/siniestros/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type authFixture struct {
	router    *gin.Engine
	repo      *MockUserRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	user      *identity.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "siniestros-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	repo := new(MockUserRepository)

	user, err := identity.NewUser("ajustador1", "Ana Ajustadora", "Clave-Segura-1",
		[]string{"AJUSTADOR"},
		[]string{identity.PermissionConsultar, identity.PermissionAjustar})
	require.NoError(t, err)

	svc := appidentity.NewAuthService(repo, jwtService, blacklist, zap.NewNop())
	h := NewAuthHandler(svc)

	r := gin.New()
	r.Use(middleware.RequestID())
	public := r.Group("/api/auth")
	public.POST("/login", h.Login)
	public.POST("/refresh", h.RefreshToken)

	protected := r.Group("/api/auth")
	protected.Use(middleware.JWTAuth(middleware.DefaultJWTConfig(jwtService, blacklist, zap.NewNop())))
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.GetCurrentUser)

	return &authFixture{router: r, repo: repo, jwt: jwtService, blacklist: blacklist, user: user}
}

func (f *authFixture) login(t *testing.T) map[string]any {
	t.Helper()
	f.repo.On("FindByUsername", mock.Anything, "ajustador1").Return(f.user, nil)
	f.repo.On("Save", mock.Anything, f.user).Return(nil)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/login",
		`{"username":"ajustador1","password":"Clave-Segura-1"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeResponse(t, rec).Data.(map[string]any)
}

func authorized(req *http.Request, token string) *http.Request {
	req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	return req
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture(t)
	data := f.login(t)

	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
	assert.Equal(t, "Bearer", data["token_type"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "ajustador1", user["username"])
	assert.ElementsMatch(t, []any{identity.PermissionConsultar, identity.PermissionAjustar}, user["permisos"])
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByUsername", mock.Anything, "ajustador1").Return(f.user, nil)
		f.repo.On("Save", mock.Anything, f.user).Return(nil)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/login",
			`{"username":"ajustador1","password":"otra-clave-123"}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "CREDENCIALES_INVALIDAS", decodeResponse(t, rec).Error.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByUsername", mock.Anything, "fantasma").Return(nil, shared.ErrNotFound)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/login",
			`{"username":"fantasma","password":"Clave-Segura-1"}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "CREDENCIALES_INVALIDAS", decodeResponse(t, rec).Error.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		f := newAuthFixture(t)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"ab"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Fields, 2)
		f.repo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	data := f.login(t)
	refresh := data["refresh_token"].(string)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"`+refresh+`"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decodeResponse(t, rec).Data.(map[string]any)["access_token"])

	// A used refresh token cannot be replayed
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"`+refresh+`"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOCADO", decodeResponse(t, rec).Error.Code)
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	f := newAuthFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"not-a-jwt"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALIDO", decodeResponse(t, rec).Error.Code)
}

func TestAuthHandler_LogoutRevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	data := f.login(t)
	access := data["access_token"].(string)
	refresh := data["refresh_token"].(string)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, authorized(jsonRequest(http.MethodPost, "/api/auth/logout",
		`{"refresh_token":"`+refresh+`"}`), access))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, authorized(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), access))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"`+refresh+`"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_LogoutWithoutBody(t *testing.T) {
	f := newAuthFixture(t)
	access := f.login(t)["access_token"].(string)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, authorized(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), access))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	access := f.login(t)["access_token"].(string)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, authorized(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), access))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeResponse(t, rec).Data.(map[string]any)
	assert.Equal(t, "ajustador1", data["username"])
	assert.Equal(t, "Ana Ajustadora", data["nombre"])
}
