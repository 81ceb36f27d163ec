package entity

// TenantContext identifica al caller ya autorizado: tenant, usuario y rol.
// Los casos de uso lo reciben de forma explícita en lugar de leer estado de
// sesión ambiental; la autorización ocurrió antes, en el middleware.
type TenantContext struct {
	CompanyID string
	UserID    string
	Role      string
}

// IsAdmin informa si el caller tiene rol admin dentro de su tenant.
func (t TenantContext) IsAdmin() bool {
	return t.Role == RoleAdmin
}
