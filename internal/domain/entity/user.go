package entity

import "time"

// Roles válidos para User. El rol admin lo recibe quien fundó la empresa.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema (pertenece a lo más a una Company).
type User struct {
	ID           string
	CompanyID    string // vacío hasta completar onboarding
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, user
	Status       string // active, inactive, suspended
	Onboarded    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
