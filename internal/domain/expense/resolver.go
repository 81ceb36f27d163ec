package expense

import (
	"strings"

	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// Resolution resultado de la detección de columnas: un mapeo posiblemente
// parcial más la lista de campos requeridos que quedaron sin resolver.
// La resolución nunca falla; decidir si se puede sincronizar con un mapeo
// incompleto es responsabilidad del orquestador.
type Resolution struct {
	Mapping entity.ColumnMapping
	Missing []string
}

// fieldKeywords diccionario central palabra clave -> campo canónico.
// Mantenerlo como datos (y no como condicionales dispersos) es lo que hace
// testeable la heurística.
var fieldKeywords = []struct {
	field    string
	keywords []string
	// needType restringe el match a un tipo de columna concreto (email_usuario).
	needType string
}{
	{field: entity.FieldMonto, keywords: []string{"monto", "importe", "total"}},
	{field: entity.FieldFecha, keywords: []string{"fecha"}},
	{field: entity.FieldProveedor, keywords: []string{"proveedor", "comercio", "establecimiento"}},
	{field: entity.FieldEstado, keywords: []string{"estado", "status"}},
	{field: entity.FieldCategoria, keywords: []string{"categoria", "tipo"}},
	{field: entity.FieldNotas, keywords: []string{"nota", "comentario"}},
	{field: entity.FieldFactura, keywords: []string{"factura"}},
	{field: entity.FieldRecibo, keywords: []string{"recibo", "comprobante", "ticket"}},
	{field: entity.FieldRFC, keywords: []string{"rfc"}},
	{field: entity.FieldFolio, keywords: []string{"folio"}},
	{field: entity.FieldEmailUsuario, keywords: []string{"email", "correo", "usuario"}, needType: entity.BoardColumnEmail},
}

// typeFallbacks segunda pasada: campos requeridos que pueden inferirse solo
// por el tipo de la columna cuando ninguna palabra clave hizo match.
var typeFallbacks = map[string]string{
	entity.BoardColumnNumbers: entity.FieldMonto,
	entity.BoardColumnDate:    entity.FieldFecha,
	entity.BoardColumnStatus:  entity.FieldEstado,
}

// ResolveColumns inspecciona el esquema del tablero e infiere el mapeo de
// campos canónicos a columnas. Primera coincidencia gana: una columna
// posterior nunca sobreescribe un campo ya resuelto.
func ResolveColumns(columns []entity.BoardColumn) Resolution {
	var mapping entity.ColumnMapping
	used := make(map[string]bool, len(columns))

	// Pasada 1: palabras clave sobre el título (case/acento-insensible).
	for _, col := range columns {
		title := Fold(col.Title)
		for _, fk := range fieldKeywords {
			if *fieldColumn(&mapping, fk.field) != "" {
				continue
			}
			if fk.needType != "" && col.Type != fk.needType {
				continue
			}
			if matchAny(title, fk.keywords) {
				*fieldColumn(&mapping, fk.field) = col.ID
				used[col.ID] = true
				break
			}
		}
	}

	// Pasada 2: para monto/fecha/estado sin resolver, inferir por tipo.
	for _, col := range columns {
		if used[col.ID] {
			continue
		}
		field, ok := typeFallbacks[col.Type]
		if !ok {
			continue
		}
		if ptr := fieldColumn(&mapping, field); *ptr == "" {
			*ptr = col.ID
			used[col.ID] = true
		}
	}

	return Resolution{Mapping: mapping, Missing: mapping.Missing()}
}

func matchAny(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func fieldColumn(m *entity.ColumnMapping, field string) *string {
	switch field {
	case entity.FieldMonto:
		return &m.Amount
	case entity.FieldFecha:
		return &m.Date
	case entity.FieldProveedor:
		return &m.Vendor
	case entity.FieldEstado:
		return &m.Status
	case entity.FieldCategoria:
		return &m.Category
	case entity.FieldNotas:
		return &m.Notes
	case entity.FieldFactura:
		return &m.InvoiceLink
	case entity.FieldRecibo:
		return &m.ReceiptLink
	case entity.FieldRFC:
		return &m.TaxID
	case entity.FieldFolio:
		return &m.Folio
	case entity.FieldEmailUsuario:
		return &m.UserEmail
	}
	panic("campo canónico desconocido: " + field)
}
