package identity

import (
	"context"
	"errors"
	"time"

	"github.com/siniestros/backend/internal/domain/identity"
	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/siniestros/backend/internal/infrastructure/auth"
	"github.com/siniestros/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates a user and returns tokens.
// Unknown users and bad passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()
	telemetry.SetAttributes(span, "auth.username", input.Username)

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown user", zap.String("username", input.Username))
			return nil, identity.ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	authErr := user.Authenticate(input.Password, s.now())
	if errors.Is(authErr, identity.ErrInvalidCredentials) || authErr == nil {
		// Both paths change the failed-attempt counters
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login attempt", zap.Error(err))
			if authErr == nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
		}
	}
	if authErr != nil {
		s.logger.Warn("Login rejected",
			zap.String("username", user.Username),
			zap.String("ip", input.IP),
			zap.Error(authErr),
		)
		return nil, authErr
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenInput(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("ip", input.IP),
	)
	telemetry.SetOK(span)

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}

// RefreshToken issues a new token pair from a valid refresh token.
// Roles and permissions are reloaded so revocations apply on refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		// Fail open like the JWT middleware
		s.logger.Warn("Failed to check refresh token blacklist",
			zap.String("username", claims.Username),
			zap.Error(err),
		)
		revoked = false
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.userRepo.FindByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.Activo {
		return nil, identity.ErrUserInactive
	}
	if user.IsLocked(s.now()) {
		return nil, identity.ErrUserLocked
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, tokenInput(user))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.String("username", user.Username), zap.Error(err))
		return nil, tokenError(err)
	}

	// The used refresh token cannot be replayed
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}

	s.logger.Info("Token refreshed", zap.String("username", user.Username))

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil && claims.Username == input.Username {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}

	s.logger.Info("User logged out", zap.String("username", input.Username))
	return nil
}

// GetCurrentUser returns the profile of the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, username string) (*UserInfo, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

func tokenInput(u *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		Username:    u.Username,
		Nombre:      u.Nombre,
		Roles:       u.Roles,
		Permissions: u.Permisos,
	}
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		Username:    u.Username,
		Nombre:      u.Nombre,
		Roles:       u.Roles,
		Permissions: u.Permisos,
		LastLogin:   u.UltimoIngreso,
	}
}
