// Package reporting expone el listado de gastos del dashboard y el agregado
// derivado que lo acompaña.
package reporting

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// Summarize recalcula el roll-up del conjunto de gastos recibido: conteos y
// sumas por estado, sumas por categoría y, si includeUsers, el desglose por
// usuario. Fold puro y sin estado: tolera el conjunto vacío devolviendo todo
// en cero.
func Summarize(expenses []*entity.Expense, includeUsers bool) *dto.ExpenseSummary {
	summary := &dto.ExpenseSummary{
		MontoTotal:   decimal.Zero,
		PorEstado:    make(map[string]dto.StatusBreakdown, len(entity.Statuses)),
		PorCategoria: make(map[string]decimal.Decimal, len(entity.Categories)),
	}
	for _, s := range entity.Statuses {
		summary.PorEstado[s] = dto.StatusBreakdown{Monto: decimal.Zero}
	}
	for _, c := range entity.Categories {
		summary.PorCategoria[c] = decimal.Zero
	}

	type userAccum struct {
		name      string
		count     int
		total     decimal.Decimal
		facturado decimal.Decimal
	}
	byUser := make(map[string]*userAccum)

	for _, e := range expenses {
		summary.TotalGastos++
		summary.MontoTotal = summary.MontoTotal.Add(e.Amount)

		st := summary.PorEstado[e.Status]
		st.Cantidad++
		st.Monto = st.Monto.Add(e.Amount)
		summary.PorEstado[e.Status] = st

		summary.PorCategoria[e.Category] = summary.PorCategoria[e.Category].Add(e.Amount)

		if includeUsers {
			acc, ok := byUser[e.UserID]
			if !ok {
				acc = &userAccum{name: userDisplayName(e), total: decimal.Zero, facturado: decimal.Zero}
				byUser[e.UserID] = acc
			}
			acc.count++
			acc.total = acc.total.Add(e.Amount)
			if e.Status == entity.StatusFacturado {
				acc.facturado = acc.facturado.Add(e.Amount)
			}
		}
	}

	if includeUsers {
		ids := make([]string, 0, len(byUser))
		for id := range byUser {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			acc := byUser[id]
			summary.PorUsuario = append(summary.PorUsuario, dto.UserBreakdown{
				UserID:         id,
				UserName:       acc.name,
				Cantidad:       acc.count,
				MontoTotal:     acc.total,
				MontoFacturado: acc.facturado,
			})
		}
	}

	return summary
}

// userDisplayName agrupa los gastos con usuario sin resolver en una cubeta
// visible propia: se muestran aparte, no se imputan a ningún empleado.
func userDisplayName(e *entity.Expense) string {
	if e.UserID == "" {
		return "sin asignar"
	}
	return e.UserName
}
