package entity

// Nombres canónicos de campo que el resolver asocia a columnas del tablero.
const (
	FieldMonto        = "monto"
	FieldFecha        = "fecha"
	FieldProveedor    = "proveedor"
	FieldEstado       = "estado"
	FieldCategoria    = "categoria"
	FieldNotas        = "notas"
	FieldFactura      = "factura"
	FieldRecibo       = "recibo"
	FieldRFC          = "rfc"
	FieldFolio        = "folio"
	FieldEmailUsuario = "email_usuario"
)

// RequiredFields campos sin los cuales un mapeo no sirve para sincronizar.
var RequiredFields = []string{FieldMonto, FieldFecha, FieldProveedor, FieldEstado}

// ColumnMapping asocia campos canónicos con ids de columna del tablero externo.
// Se deriva del esquema del tablero (o lo suministra el caller) y vive lo que
// dura una llamada de sincronización; no se persiste.
type ColumnMapping struct {
	Amount      string `json:"monto,omitempty"`
	Date        string `json:"fecha,omitempty"`
	Vendor      string `json:"proveedor,omitempty"`
	Status      string `json:"estado,omitempty"`
	Category    string `json:"categoria,omitempty"`
	Notes       string `json:"notas,omitempty"`
	InvoiceLink string `json:"factura,omitempty"`
	ReceiptLink string `json:"recibo,omitempty"`
	TaxID       string `json:"rfc,omitempty"`
	Folio       string `json:"folio,omitempty"`
	UserEmail   string `json:"email_usuario,omitempty"`
}

// Missing devuelve los campos requeridos aún sin columna asignada, en el
// orden de RequiredFields.
func (m ColumnMapping) Missing() []string {
	var missing []string
	for _, f := range RequiredFields {
		if m.columnFor(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsComplete informa si los cuatro campos requeridos están resueltos.
func (m ColumnMapping) IsComplete() bool {
	return len(m.Missing()) == 0
}

func (m ColumnMapping) columnFor(field string) string {
	switch field {
	case FieldMonto:
		return m.Amount
	case FieldFecha:
		return m.Date
	case FieldProveedor:
		return m.Vendor
	case FieldEstado:
		return m.Status
	case FieldCategoria:
		return m.Category
	case FieldNotas:
		return m.Notes
	case FieldFactura:
		return m.InvoiceLink
	case FieldRecibo:
		return m.ReceiptLink
	case FieldRFC:
		return m.TaxID
	case FieldFolio:
		return m.Folio
	case FieldEmailUsuario:
		return m.UserEmail
	}
	return ""
}
