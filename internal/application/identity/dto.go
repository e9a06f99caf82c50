package identity

import (
	"time"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	Username    string     `json:"username"`
	Nombre      string     `json:"nombre"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permisos"`
	LastLogin   *time.Time `json:"ultimo_ingreso,omitempty"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	Username     string
	TokenJTI     string        // JWT ID of the access token being revoked
	TokenTTL     time.Duration // Remaining lifetime of the access token
	RefreshToken string        // Optional; revoked too when present
}
