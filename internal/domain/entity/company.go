package entity

import (
	"strings"
	"time"
)

// Planes SaaS disponibles.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Company representa una organización/tenant del sistema (multi-tenant, enfoque México).
// Domain es la llave de auto-inscripción: los empleados con correo corporativo
// @dominio se incorporan automáticamente a la empresa al registrarse.
type Company struct {
	ID            string
	Name          string
	Domain        string // dominio de correo corporativo, único entre empresas
	RFC           string // RFC de la persona moral
	BoardID       string // tablero de gastos en Monday.com
	DriveFolderID string // carpeta de recibos en Google Drive
	Plan          string // free, pro
	Status        string // active, suspended, inactive
	LastSyncAt    *time.Time
	LastSyncItems int
	LastSyncOK    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SyncMetadata resultado resumido de la última sincronización, persistido en Company.
type SyncMetadata struct {
	ItemsSynced int
	Success     bool
	Timestamp   time.Time
}

// Dominios de correo públicos: nunca se usan como llave de auto-inscripción.
var publicEmailDomains = map[string]bool{
	"gmail.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"yahoo.com":      true,
	"yahoo.com.mx":   true,
	"icloud.com":     true,
	"live.com":       true,
	"live.com.mx":    true,
	"prodigy.net.mx": true,
}

// EmailDomain extrae el dominio de un correo, en minúsculas. Vacío si el correo es inválido.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsPublicEmailDomain informa si el dominio pertenece a un proveedor de correo
// personal (gmail, hotmail, ...) y por tanto no identifica a una empresa.
func IsPublicEmailDomain(domain string) bool {
	return publicEmailDomains[strings.ToLower(domain)]
}
