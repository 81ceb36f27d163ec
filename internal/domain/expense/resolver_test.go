package expense_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/expense"
)

func col(id, title, tipo string) entity.BoardColumn {
	return entity.BoardColumn{ID: id, Title: title, Type: tipo}
}

// Tablero con los cuatro títulos exactos: los cuatro campos requeridos se
// resuelven y no se reporta ningún faltante.
func TestResolveColumns_CuatroRequeridosExactos(t *testing.T) {
	res := expense.ResolveColumns([]entity.BoardColumn{
		col("c1", "Monto", entity.BoardColumnNumbers),
		col("c2", "Fecha", entity.BoardColumnDate),
		col("c3", "Proveedor", entity.BoardColumnText),
		col("c4", "Estado", entity.BoardColumnStatus),
	})

	assert.Empty(t, res.Missing, "no debe faltar ningún campo requerido")
	assert.True(t, res.Mapping.IsComplete())
	ass := assert.New(t)
	ass.Equal("c1", res.Mapping.Amount)
	ass.Equal("c2", res.Mapping.Date)
	ass.Equal("c3", res.Mapping.Vendor)
	ass.Equal("c4", res.Mapping.Status)
}

// Solo Monto y Fecha: el reporte de faltantes debe ser exactamente
// [proveedor, estado], en ese orden.
func TestResolveColumns_ReportaFaltantes(t *testing.T) {
	res := expense.ResolveColumns([]entity.BoardColumn{
		col("c1", "Monto", entity.BoardColumnNumbers),
		col("c2", "Fecha", entity.BoardColumnDate),
	})

	assert.Equal(t, []string{entity.FieldProveedor, entity.FieldEstado}, res.Missing)
	assert.False(t, res.Mapping.IsComplete())
}

// Títulos con sinónimos, acentos y mayúsculas arbitrarias.
func TestResolveColumns_SinonimosYAcentos(t *testing.T) {
	res := expense.ResolveColumns([]entity.BoardColumn{
		col("c1", "IMPORTE TOTAL", entity.BoardColumnNumbers),
		col("c2", "Fecha del gasto", entity.BoardColumnDate),
		col("c3", "Comercio", entity.BoardColumnText),
		col("c4", "Status", entity.BoardColumnStatus),
		col("c5", "Categoría", entity.BoardColumnStatus),
		col("c6", "Comentarios", entity.BoardColumnText),
		col("c7", "Comprobante", entity.BoardColumnFile),
		col("c8", "RFC", entity.BoardColumnText),
		col("c9", "Folio", entity.BoardColumnText),
	})

	require.Empty(t, res.Missing)
	ass := assert.New(t)
	ass.Equal("c1", res.Mapping.Amount)
	ass.Equal("c3", res.Mapping.Vendor)
	ass.Equal("c5", res.Mapping.Category)
	ass.Equal("c6", res.Mapping.Notes)
	ass.Equal("c7", res.Mapping.ReceiptLink)
	ass.Equal("c8", res.Mapping.TaxID)
	ass.Equal("c9", res.Mapping.Folio)
}

// Primera coincidencia gana: una segunda columna "Monto adicional" no debe
// sobreescribir el campo ya resuelto.
func TestResolveColumns_PrimeraCoincidenciaGana(t *testing.T) {
	res := expense.ResolveColumns([]entity.BoardColumn{
		col("c1", "Monto", entity.BoardColumnNumbers),
		col("c2", "Monto adicional", entity.BoardColumnNumbers),
	})

	assert.Equal(t, "c1", res.Mapping.Amount)
}

// Sin palabras clave para monto/fecha/estado, el tipo de columna decide.
func TestResolveColumns_FallbackPorTipo(t *testing.T) {
	res := expense.ResolveColumns([]entity.BoardColumn{
		col("c1", "Cantidad gastada", entity.BoardColumnNumbers),
		col("c2", "Cuándo", entity.BoardColumnDate),
		col("c3", "Situación", entity.BoardColumnStatus),
	})

	ass := assert.New(t)
	ass.Equal("c1", res.Mapping.Amount)
	ass.Equal("c2", res.Mapping.Date)
	ass.Equal("c3", res.Mapping.Status)
	assert.Equal(t, []string{entity.FieldProveedor}, res.Missing)
}

// La columna de email solo mapea a email_usuario si su tipo es email;
// un texto titulado "Usuario" no debe capturarse.
func TestResolveColumns_EmailRequiereTipo(t *testing.T) {
	conTipo := expense.ResolveColumns([]entity.BoardColumn{
		col("c1", "Correo del empleado", entity.BoardColumnEmail),
	})
	assert.Equal(t, "c1", conTipo.Mapping.UserEmail)

	sinTipo := expense.ResolveColumns([]entity.BoardColumn{
		col("c1", "Usuario", entity.BoardColumnText),
	})
	assert.Empty(t, sinTipo.Mapping.UserEmail)
}

// Resolución sobre un tablero vacío: nunca lanza, reporta los cuatro requeridos.
func TestResolveColumns_TableroVacio(t *testing.T) {
	res := expense.ResolveColumns(nil)
	assert.Equal(t, entity.RequiredFields, res.Missing)
}
