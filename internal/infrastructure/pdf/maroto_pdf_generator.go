// Package pdf genera la representación PDF del reporte de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + rango          │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos / agotados / stock bajo / valor          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CATEGORÍAS: una fila por categoría                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Stock | Umbral | Rotación | Valor   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ report.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator construye el generador. title encabeza cada documento.
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	if title == "" {
		title = "Reporte de stock"
	}
	return &MarotoPDFGenerator{title: title}
}

// GenerateStockReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockReportPDF(_ context.Context, r *report.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("POR CATEGORÍA"))
	m.AddRows(categoryRows(r.Categories)...)
	m.AddRows(line.NewRow(3))

	m.AddRows(sectionTitle("PRODUCTOS"))
	m.AddRows(tableHeaderRow())
	m.AddRows(productRows(r.Products)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, r *report.StockReport) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Del %s al %s",
				r.Range.From.Format("02/01/2006"), r.Range.To.Format("02/01/2006")),
				props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s report.Summary) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 5}),
		)
	}
	return row.New(16).Add(
		cell("PRODUCTOS", strconv.Itoa(s.TotalProducts)),
		cell("AGOTADOS / STOCK BAJO", fmt.Sprintf("%d / %d", s.OutOfStockCount, s.LowStockCount)),
		cell("MOVIMIENTOS EN RANGO", strconv.Itoa(s.TotalStockChangeEvents)),
		cell("VALOR INVENTARIO", "$"+formatMoney(s.InventoryValue)),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// categoryRows una fila por categoría, en orden alfabético.
func categoryRows(cats map[string]*report.CategorySummary) []core.Row {
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]core.Row, 0, len(names))
	for _, name := range names {
		c := cats[name]
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(nonEmpty(name, "Sin categoría"), props.Text{Size: 8, Left: 1})),
			col.New(8).Add(text.New(
				fmt.Sprintf("%d productos  |  %d unidades  |  %d agotados  |  %d con stock bajo",
					c.Count, c.TotalStock, c.OutOfStockCount, c.LowStockCount),
				props.Text{Size: 8, Color: colorGray},
			)),
		))
	}
	return rows
}

// tableHeaderRow cabecera con fondo del color primario.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Stock", 1, align.Center),
		h("Umbral", 1, align.Center),
		h("Rotación", 2, align.Right),
		h("Valor", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func productRows(lines []report.ProductLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		stockStyle := props.Text{Size: 8, Align: align.Center, Top: 1}
		if l.Product.Stock < l.Threshold {
			stockStyle.Style = fontstyle.Bold
			stockStyle.Color = colorAlert
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(l.Product.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.Product.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(l.Product.Stock), stockStyle)),
			col.New(1).Add(text.New(strconv.Itoa(l.Threshold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(
				strconv.FormatFloat(l.Statistics.StockTurnover, 'f', 2, 64),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(l.InventoryValue),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a 2 decimales y separa miles con punto y decimales con coma.
// Ej: 25000.5 → "25.000,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
