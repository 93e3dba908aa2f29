package entity

import (
	"fmt"
	"time"
)

// Role rol de un usuario. Conjunto cerrado: ver ParseRole.
type Role string

// Roles válidos para User.
const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

// ParseRole convierte el token persistido en Role; rechaza valores desconocidos.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperadmin, RoleAdmin, RoleUser:
		return r, nil
	}
	return "", fmt.Errorf("rol desconocido %q", s)
}

// IsAdministrative informa si el rol puede ejecutar operaciones administrativas.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthContext identidad explícita del llamador; se pasa a cada operación
// en lugar de leer un "usuario actual" global.
type AuthContext struct {
	UserID    string
	CompanyID string
	Role      Role
}
