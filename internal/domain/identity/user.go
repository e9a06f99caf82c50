package identity

import (
	"slices"
	"strings"
	"time"

	"github.com/siniestros/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// MaxFailedAttempts locks the account after this many consecutive bad passwords
const MaxFailedAttempts = 5

// LockDuration is how long an account stays locked
const LockDuration = 15 * time.Minute

// Permissions granted to claims users
const (
	PermissionConsultar = "siniestros:consultar" // Read claims and reserves
	PermissionAjustar   = "siniestros:ajustar"   // Validate/apply adjustments, add/remove reserve rows
)

// Errors raised during authentication
var (
	ErrInvalidCredentials = shared.NewDomainError("CREDENCIALES_INVALIDAS", "Usuario o contraseña incorrectos")
	ErrUserInactive       = shared.NewDomainError("USUARIO_INACTIVO", "El usuario se encuentra inactivo")
	ErrUserLocked         = shared.NewDomainError("USUARIO_BLOQUEADO", "El usuario está bloqueado temporalmente por intentos fallidos")
	ErrWeakPassword       = shared.NewDomainError("CLAVE_INVALIDA", "La contraseña debe tener al menos 8 caracteres")
)

// User is an application user of the claims department
type User struct {
	Username         string
	Nombre           string
	PasswordHash     string
	Roles            []string
	Permisos         []string
	Activo           bool
	IntentosFallidos int
	BloqueadoHasta   *time.Time
	UltimoIngreso    *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(username, nombre, password string, roles, permisos []string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, shared.NewDomainError("USUARIO_INVALIDO", "El usuario no puede estar vacío")
	}
	u := &User{
		Username: username,
		Nombre:   nombre,
		Roles:    roles,
		Permisos: permisos,
		Activo:   true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "No se pudo generar la contraseña")
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsLocked reports whether the account is locked at the given time
func (u *User) IsLocked(now time.Time) bool {
	return u.BloqueadoHasta != nil && now.Before(*u.BloqueadoHasta)
}

// Authenticate checks the password and updates the failed-attempt counters
func (u *User) Authenticate(password string, now time.Time) error {
	if !u.Activo {
		return ErrUserInactive
	}
	if u.IsLocked(now) {
		return ErrUserLocked
	}
	if !u.VerifyPassword(password) {
		u.IntentosFallidos++
		if u.IntentosFallidos >= MaxFailedAttempts {
			until := now.Add(LockDuration)
			u.BloqueadoHasta = &until
			u.IntentosFallidos = 0
		}
		return ErrInvalidCredentials
	}
	u.IntentosFallidos = 0
	u.BloqueadoHasta = nil
	u.UltimoIngreso = &now
	return nil
}

// HasPermission reports whether the user holds a permission
func (u *User) HasPermission(p string) bool {
	return slices.Contains(u.Permisos, p)
}
