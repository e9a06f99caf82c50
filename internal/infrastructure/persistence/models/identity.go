package models

import (
	"strings"
	"time"

	"github.com/siniestros/backend/internal/domain/identity"
)

// UserModel is the persistence model for usuarios.
// Roles and permissions are stored comma separated.
type UserModel struct {
	Username         string     `gorm:"column:username;type:varchar(100);primaryKey"`
	Nombre           string     `gorm:"column:nombre;type:varchar(200)"`
	PasswordHash     string     `gorm:"column:password_hash;type:varchar(255);not null"`
	Roles            string     `gorm:"column:roles;type:varchar(500)"`
	Permisos         string     `gorm:"column:permisos;type:varchar(1000)"`
	Activo           bool       `gorm:"column:activo;not null;default:true"`
	IntentosFallidos int        `gorm:"column:intentos_fallidos;not null;default:0"`
	BloqueadoHasta   *time.Time `gorm:"column:bloqueado_hasta"`
	UltimoIngreso    *time.Time `gorm:"column:ultimo_ingreso"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "usuarios"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		Username:         m.Username,
		Nombre:           m.Nombre,
		PasswordHash:     m.PasswordHash,
		Roles:            splitList(m.Roles),
		Permisos:         splitList(m.Permisos),
		Activo:           m.Activo,
		IntentosFallidos: m.IntentosFallidos,
		BloqueadoHasta:   m.BloqueadoHasta,
		UltimoIngreso:    m.UltimoIngreso,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		Username:         u.Username,
		Nombre:           u.Nombre,
		PasswordHash:     u.PasswordHash,
		Roles:            strings.Join(u.Roles, ","),
		Permisos:         strings.Join(u.Permisos, ","),
		Activo:           u.Activo,
		IntentosFallidos: u.IntentosFallidos,
		BloqueadoHasta:   u.BloqueadoHasta,
		UltimoIngreso:    u.UltimoIngreso,
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AllModels returns every persistence model, used by AutoMigrate in tests
func AllModels() []any {
	return []any{
		&PolicyModel{},
		&CertificateModel{},
		&DeclarationModel{},
		&CoverageModel{},
		&CertificateCoverageModel{},
		&LucLimitModel{},
		&ReserveAccountsModel{},
		&ClaimModel{},
		&ReserveModel{},
		&MovementModel{},
		&CoverageMovementModel{},
		&AccountingEntryModel{},
		&UserModel{},
	}
}
