package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/siniestros/backend/internal/domain/identity"
	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/siniestros/backend/internal/infrastructure/auth"
	"github.com/siniestros/backend/internal/infrastructure/config"
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

const testPassword = "clave-segura"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-with-enough-length",
		RefreshSecret:          "test-refresh-secret-with-enough-length",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "siniestros-test",
		MaxRefreshCount:        3,
	})
}

func newTestUser(t *testing.T) *identity.User {
	u, err := identity.NewUser("jperez", "Juan Pérez", testPassword,
		[]string{"ANALISTA"}, []string{identity.PermissionConsultar, identity.PermissionAjustar})
	require.NoError(t, err)
	return u
}

func setupAuthService(t *testing.T) (*AuthService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	repo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(repo, newTestJWTService(), blacklist, zap.NewNop())
	return svc, repo, blacklist
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		user := newTestUser(t)
		user.IntentosFallidos = 2
		repo.On("FindByUsername", mock.Anything, "jperez").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil).Once()

		result, err := svc.Login(ctx, LoginInput{Username: "jperez", Password: testPassword, IP: "10.0.0.1"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "jperez", result.User.Username)
		assert.Contains(t, result.User.Permissions, identity.PermissionAjustar)
		assert.Zero(t, user.IntentosFallidos)
		assert.NotNil(t, user.UltimoIngreso)

		claims, err := newTestJWTService().ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.HasPermission(identity.PermissionConsultar))
		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("FindByUsername", mock.Anything, "nadie").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Username: "nadie", Password: testPassword})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("wrong password counts attempt", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		user := newTestUser(t)
		repo.On("FindByUsername", mock.Anything, "jperez").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil).Once()

		_, err := svc.Login(ctx, LoginInput{Username: "jperez", Password: "incorrecta"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		assert.Equal(t, 1, user.IntentosFallidos)
		repo.AssertExpectations(t)
	})

	t.Run("locks after max attempts", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		user := newTestUser(t)
		user.IntentosFallidos = identity.MaxFailedAttempts - 1
		repo.On("FindByUsername", mock.Anything, "jperez").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		_, err := svc.Login(ctx, LoginInput{Username: "jperez", Password: "incorrecta"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		require.NotNil(t, user.BloqueadoHasta)

		_, err = svc.Login(ctx, LoginInput{Username: "jperez", Password: testPassword})
		assert.ErrorIs(t, err, identity.ErrUserLocked)
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		user := newTestUser(t)
		user.Activo = false
		repo.On("FindByUsername", mock.Anything, "jperez").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Username: "jperez", Password: testPassword})
		assert.ErrorIs(t, err, identity.ErrUserInactive)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		boom := errors.New("connection reset")
		repo.On("FindByUsername", mock.Anything, "jperez").Return(nil, boom)

		_, err := svc.Login(ctx, LoginInput{Username: "jperez", Password: testPassword})
		assert.ErrorIs(t, err, boom)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues new pair and revokes the used token", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		user := newTestUser(t)
		repo.On("FindByUsername", mock.Anything, "jperez").Return(user, nil)

		pair, err := newTestJWTService().GenerateTokenPair(auth.GenerateTokenInput{Username: "jperez"})
		require.NoError(t, err)

		result, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)

		claims, err := newTestJWTService().ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.HasPermission(identity.PermissionAjustar), "permissions reloaded from the user")

		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)
		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "not-a-jwt"})
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)
		pair, err := newTestJWTService().GenerateTokenPair(auth.GenerateTokenInput{Username: "jperez"})
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.AccessToken})
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		user := newTestUser(t)
		user.Activo = false
		repo.On("FindByUsername", mock.Anything, "jperez").Return(user, nil)

		pair, err := newTestJWTService().GenerateTokenPair(auth.GenerateTokenInput{Username: "jperez"})
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		assert.ErrorIs(t, err, identity.ErrUserInactive)
	})
}

// unavailableBlacklist fails every lookup, as an unreachable Redis does
type unavailableBlacklist struct {
	added []string
}

func (b *unavailableBlacklist) AddToBlacklist(_ context.Context, jti string, _ time.Duration) error {
	b.added = append(b.added, jti)
	return nil
}

func (b *unavailableBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func TestAuthService_RefreshToken_BlacklistUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	blacklist := &unavailableBlacklist{}
	svc := NewAuthService(repo, newTestJWTService(), blacklist, zap.NewNop())
	repo.On("FindByUsername", mock.Anything, "jperez").Return(newTestUser(t), nil)

	pair, err := newTestJWTService().GenerateTokenPair(auth.GenerateTokenInput{Username: "jperez"})
	require.NoError(t, err)
	refresh, err := newTestJWTService().ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	result, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, []string{refresh.ID}, blacklist.added, "used refresh token is still revoked")
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _, blacklist := setupAuthService(t)

	pair, err := newTestJWTService().GenerateTokenPair(auth.GenerateTokenInput{Username: "jperez"})
	require.NoError(t, err)
	access, err := newTestJWTService().ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := newTestJWTService().ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	err = svc.Logout(ctx, LogoutInput{
		Username:     "jperez",
		TokenJTI:     access.ID,
		TokenTTL:     access.GetRemainingTTL(),
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)

	revoked, err := blacklist.IsBlacklisted(ctx, access.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, refresh.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupAuthService(t)
	repo.On("FindByUsername", mock.Anything, "jperez").Return(newTestUser(t), nil)
	repo.On("FindByUsername", mock.Anything, "nadie").Return(nil, shared.ErrNotFound)

	info, err := svc.GetCurrentUser(ctx, "jperez")
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", info.Nombre)

	_, err = svc.GetCurrentUser(ctx, "nadie")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTokenError(t *testing.T) {
	assert.Equal(t, ErrTokenExpired, tokenError(auth.ErrExpiredToken))
	assert.Equal(t, ErrTokenMaxRefresh, tokenError(auth.ErrMaxRefreshExceeded))
	assert.Equal(t, ErrTokenRevoked, tokenError(auth.ErrTokenBlacklisted))
	assert.Equal(t, ErrTokenInvalid, tokenError(auth.ErrInvalidClaims))
}
