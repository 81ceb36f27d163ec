package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseResponse salida de un gasto. Los campos fiscales conservan sus
// nombres en español, igual que en el tablero de los operadores.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	ExternalID  string          `json:"external_id"`
	UserID      string          `json:"user_id,omitempty"`
	UserName    string          `json:"user_name,omitempty"`
	UserEmail   string          `json:"user_email,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       time.Time       `json:"fecha"`
	Proveedor   string          `json:"proveedor"`
	Categoria   string          `json:"categoria"`
	Estado      string          `json:"estado"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	InvoiceURL  string          `json:"invoice_url,omitempty"`
	InvoiceUUID string          `json:"invoice_uuid,omitempty"`
	Folio       string          `json:"folio,omitempty"`
	VendorRFC   string          `json:"proveedor_rfc,omitempty"`
	Notes       string          `json:"notas,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	SyncedAt    time.Time       `json:"synced_at"`
}

// StatusBreakdown conteo y suma de montos para un estado.
type StatusBreakdown struct {
	Cantidad int             `json:"cantidad"`
	Monto    decimal.Decimal `json:"monto"`
}

// UserBreakdown desglose por usuario (solo visible para admins).
// UserID vacío agrupa los gastos con usuario sin resolver.
type UserBreakdown struct {
	UserID         string          `json:"user_id,omitempty"`
	UserName       string          `json:"user_name"`
	Cantidad       int             `json:"cantidad"`
	MontoTotal     decimal.Decimal `json:"monto_total"`
	MontoFacturado decimal.Decimal `json:"monto_facturado"`
}

// ExpenseSummary agregado derivado, recalculado en cada lectura a partir del
// conjunto vigente de gastos del tenant.
type ExpenseSummary struct {
	TotalGastos  int                        `json:"total_gastos"`
	MontoTotal   decimal.Decimal            `json:"monto_total"`
	PorEstado    map[string]StatusBreakdown `json:"por_estado"`
	PorCategoria map[string]decimal.Decimal `json:"por_categoria"`
	PorUsuario   []UserBreakdown            `json:"por_usuario,omitempty"`
}

// ExpenseListResponse página de gastos. Summary solo viene en la primera
// página de una consulta.
type ExpenseListResponse struct {
	Expenses   []ExpenseResponse `json:"expenses"`
	Summary    *ExpenseSummary   `json:"summary,omitempty"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
