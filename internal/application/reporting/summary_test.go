package reporting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturamx/gastos-api/internal/application/reporting"
	"github.com/facturamx/gastos-api/internal/domain/entity"
)

func gasto(userID, userName, status, category string, amount float64) *entity.Expense {
	return &entity.Expense{
		UserID:   userID,
		UserName: userName,
		Status:   status,
		Category: category,
		Amount:   decimal.NewFromFloat(amount),
	}
}

// Conjunto sintético con conteo manual conocido: el monto total y cada
// partición por estado deben coincidir con la suma a mano.
func TestSummarize_ConteoManual(t *testing.T) {
	expenses := []*entity.Expense{
		gasto("u1", "Ana", entity.StatusFacturado, entity.CategoriaTransporte, 100),
		gasto("u1", "Ana", entity.StatusFacturado, entity.CategoriaAlimentacion, 50.50),
		gasto("u2", "Beto", entity.StatusPendiente, entity.CategoriaTransporte, 200),
		gasto("u2", "Beto", entity.StatusRechazado, entity.CategoriaOtros, 10),
	}

	s := reporting.Summarize(expenses, true)

	assert.Equal(t, 4, s.TotalGastos)
	assert.True(t, s.MontoTotal.Equal(decimal.RequireFromString("360.50")), "monto total = suma de todos los montos: %s", s.MontoTotal)

	facturado := s.PorEstado[entity.StatusFacturado]
	assert.Equal(t, 2, facturado.Cantidad)
	assert.True(t, facturado.Monto.Equal(decimal.RequireFromString("150.50")))

	pendiente := s.PorEstado[entity.StatusPendiente]
	assert.Equal(t, 1, pendiente.Cantidad)
	assert.True(t, pendiente.Monto.Equal(decimal.NewFromInt(200)))

	enProceso := s.PorEstado[entity.StatusEnProceso]
	assert.Equal(t, 0, enProceso.Cantidad, "estado sin gastos debe existir con cero")
	assert.True(t, enProceso.Monto.IsZero())

	assert.True(t, s.PorCategoria[entity.CategoriaTransporte].Equal(decimal.NewFromInt(300)))
	assert.True(t, s.PorCategoria[entity.CategoriaHospedaje].IsZero())
}

func TestSummarize_DesglosePorUsuarioSoloAdmin(t *testing.T) {
	expenses := []*entity.Expense{
		gasto("u1", "Ana", entity.StatusFacturado, entity.CategoriaTransporte, 100),
		gasto("u2", "Beto", entity.StatusPendiente, entity.CategoriaOtros, 40),
	}

	admin := reporting.Summarize(expenses, true)
	require.Len(t, admin.PorUsuario, 2)

	byID := make(map[string]int)
	for i, u := range admin.PorUsuario {
		byID[u.UserID] = i
	}
	require.Contains(t, byID, "u1")
	ana := admin.PorUsuario[byID["u1"]]
	assert.Equal(t, "Ana", ana.UserName)
	assert.Equal(t, 1, ana.Cantidad)
	assert.True(t, ana.MontoTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, ana.MontoFacturado.Equal(decimal.NewFromInt(100)), "monto facturado de Ana")

	noAdmin := reporting.Summarize(expenses, false)
	assert.Empty(t, noAdmin.PorUsuario, "el desglose por usuario es solo para admins")
}

// Los gastos con usuario sin resolver se agrupan en su propia cubeta visible.
func TestSummarize_UsuarioSinResolver(t *testing.T) {
	expenses := []*entity.Expense{
		gasto("", "", entity.StatusPendiente, entity.CategoriaOtros, 75),
	}
	s := reporting.Summarize(expenses, true)
	require.Len(t, s.PorUsuario, 1)
	assert.Empty(t, s.PorUsuario[0].UserID)
	assert.Equal(t, "sin asignar", s.PorUsuario[0].UserName)
	assert.True(t, s.PorUsuario[0].MontoTotal.Equal(decimal.NewFromInt(75)))
}

// Conjunto vacío: todo en cero, sin error.
func TestSummarize_ConjuntoVacio(t *testing.T) {
	s := reporting.Summarize(nil, true)

	assert.Equal(t, 0, s.TotalGastos)
	assert.True(t, s.MontoTotal.IsZero())
	for _, estado := range entity.Statuses {
		assert.Equal(t, 0, s.PorEstado[estado].Cantidad)
		assert.True(t, s.PorEstado[estado].Monto.IsZero())
	}
	for _, cat := range entity.Categories {
		assert.True(t, s.PorCategoria[cat].IsZero())
	}
	assert.Empty(t, s.PorUsuario)
}
