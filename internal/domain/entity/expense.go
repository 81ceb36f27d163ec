package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados canónicos de un gasto (enum cerrado).
const (
	StatusPendiente = "pendiente"
	StatusEnProceso = "en_proceso"
	StatusFacturado = "facturado"
	StatusRechazado = "rechazado"
)

// Statuses lista los estados canónicos en orden de ciclo de vida.
var Statuses = []string{StatusPendiente, StatusEnProceso, StatusFacturado, StatusRechazado}

// Categorías canónicas de gasto (enum cerrado).
const (
	CategoriaAlimentacion = "alimentacion"
	CategoriaTransporte   = "transporte"
	CategoriaHospedaje    = "hospedaje"
	CategoriaServicios    = "servicios"
	CategoriaMateriales   = "materiales"
	CategoriaOtros        = "otros"
)

// Categories lista las categorías canónicas.
var Categories = []string{
	CategoriaAlimentacion, CategoriaTransporte, CategoriaHospedaje,
	CategoriaServicios, CategoriaMateriales, CategoriaOtros,
}

// Expense es la unidad canónica reconciliada desde el tablero externo.
// Invariante: exactamente un Expense por (CompanyID, ExternalID); una
// re-sincronización actualiza en sitio, nunca duplica.
type Expense struct {
	ID          string
	CompanyID   string
	ExternalID  string // id del item en el tablero externo, llave de reconciliación
	UserID      string // vacío = usuario sin resolver (entrada histórica del tablero)
	UserName    string
	UserEmail   string // correo crudo del tablero, se conserva aunque no resuelva
	Name        string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Vendor      string
	Category    string // Categoria*
	Status      string // Status*
	ReceiptURL  string
	InvoiceURL  string
	InvoiceUUID string // folio fiscal del CFDI adjunto
	Folio       string
	VendorRFC   string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SyncedAt    time.Time
}
