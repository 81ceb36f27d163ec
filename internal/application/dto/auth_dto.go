package dto

import "time"

// RegisterRequest entrada de registro. CompanyName y CompanyRFC solo se usan
// cuando el dominio del correo no pertenece a ninguna empresa existente y el
// usuario funda la suya (y recibe rol admin).
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	CompanyRFC  string `json:"company_rfc"`
}

// LoginRequest entrada de login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin hash de password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Onboarded bool      `json:"onboarded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterResponse salida del registro: el usuario más el resultado del
// onboarding por dominio.
type RegisterResponse struct {
	User UserResponse `json:"user"`
	// CompanyCreated true si el registro fundó una empresa nueva.
	CompanyCreated bool   `json:"company_created"`
	CompanyID      string `json:"company_id,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
}

// LoginResponse token JWT más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
