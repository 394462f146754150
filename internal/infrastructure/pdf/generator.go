// Package pdf genera los documentos impresos del balcão con Maroto v2:
// la nota de pedido (200×290 mm) y el cierre diario (A4).
package pdf

import (
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
)

var (
	_ ports.OrderInvoicePDF = (*MarotoPDFGenerator)(nil)
	_ ports.DailyReportPDF  = (*MarotoPDFGenerator)(nil)
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 194, Green: 65, Blue: 12}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoPDFGenerator implementa los puertos de documentos PDF.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// ── helpers ───────────────────────────────────────────────────────────────────

// labelValueRow fila "Etiqueta: valor" a lo ancho de la página.
func labelValueRow(label, value string) core.Row {
	return row.New(6).Add(
		col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
		col.New(8).Add(text.New(value, props.Text{Size: 9, Top: 1})),
	)
}

// headerCells cabecera de tabla en blanco sobre color primario.
func headerCells(labels []string, sizes []int, aligns []align.Type) core.Row {
	r := row.New(7)
	for i, l := range labels {
		r.Add(col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: aligns[i], Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	return r
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
