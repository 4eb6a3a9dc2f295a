package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User representa un usuario del sistema. Email es único (comparación case-insensitive:
// se normaliza a minúsculas antes de persistir).
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string // bcrypt hash, nunca plano en dominio después de persistir
	Role             string // admin, staff
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
