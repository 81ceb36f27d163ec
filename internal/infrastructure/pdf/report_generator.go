// Package pdf genera el reporte de gastos de la empresa en PDF para la
// contadora o el cierre de mes.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RFC  │  "Reporte de gastos" + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Concepto | Proveedor | Categoría | Estado | Monto │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: por estado / TOTAL                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/facturamx/gastos-api/internal/application/dto"
	"github.com/facturamx/gastos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 94, Blue: 74}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReportGenerator genera el reporte de gastos usando Maroto v2.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

// GenerateExpenseReport genera el PDF y devuelve sus bytes. Los gastos
// llegan ya filtrados y ordenados; el resumen corresponde al mismo conjunto.
func (g *ReportGenerator) GenerateExpenseReport(
	company *entity.Company,
	expenses []*entity.Expense,
	summary *dto.ExpenseSummary,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de gastos", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, e := range expenses {
		m.AddRows(expenseRow(e))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(summary) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + RFC (izq) y título + fecha de corte (der).
func headerRow(company *entity.Company, generatedAt time.Time) core.Row {
	rfcLine := "RFC: " + nonEmpty(company.RFC, "-")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(rfcLine, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE GASTOS", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de gastos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 1, align.Left),
		h("Concepto", 4, align.Left),
		h("Proveedor", 2, align.Left),
		h("Categoría", 2, align.Left),
		h("Estado", 1, align.Center),
		h("Monto", 2, align.Right),
	)
}

// expenseRow: una fila por gasto.
func expenseRow(e *entity.Expense) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		cell(e.Date.Format("02/01/06"), 1, align.Left),
		cell(e.Name, 4, align.Left),
		cell(e.Vendor, 2, align.Left),
		cell(e.Category, 2, align.Left),
		cell(e.Status, 1, align.Center),
		cell("$"+e.Amount.StringFixed(2), 2, align.Right),
	)
}

// totalsRows: conteo y monto por estado más el total general.
func totalsRows(summary *dto.ExpenseSummary) []core.Row {
	var rows []core.Row

	for _, status := range entity.Statuses {
		breakdown, ok := summary.PorEstado[status]
		if !ok || breakdown.Cantidad == 0 {
			continue
		}
		rows = append(rows, row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(
				fmt.Sprintf("%s (%d):", status, breakdown.Cantidad),
				props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2},
			)),
			col.New(3).Add(text.New(
				"$"+breakdown.Monto.StringFixed(2),
				props.Text{Size: 9, Align: align.Right, Right: 1},
			)),
		))
	}

	rows = append(rows, row.New(9).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 1,
		})),
		col.New(3).Add(text.New("$"+summary.MontoTotal.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 1,
		})),
	))

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("%d gastos en el periodo. Documento informativo, no sustituye los CFDI.", summary.TotalGastos),
			props.Text{Size: 6.5, Color: colorGray, Top: 3},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
