package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/pkg/money"
)

// GenerateDailyReport genera el cierre diario en A4: resumen, desglose por pago y pedidos.
func (g *MarotoPDFGenerator) GenerateDailyReport(_ context.Context, r *dto.DailyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório diário "+r.Date, true).
		WithAuthor(nonEmpty(r.Owner, "Balcão Digital"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(16).Add(
		col.New(8).Add(
			text.New("RELATÓRIO DIÁRIO", props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(r.Owner, "Balcão Digital"), props.Text{Size: 9, Color: colorGray, Top: 9}),
		),
		col.New(4).Add(
			text.New(r.Date, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New("Gerado em "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 9,
			}),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(
		labelValueRow("Faturamento finalizado:", money.FormatBRL(r.FinalizedRevenue)),
		labelValueRow("Pedidos finalizados:", strconv.Itoa(r.FinalizedOrders)),
		labelValueRow("Ticket médio:", money.FormatBRL(r.AverageTicket)),
		labelValueRow("Tempo médio de preparo:", r.AverageProcessing),
		labelValueRow("Caixa inicial:", money.FormatBRL(r.CashInitial)),
		labelValueRow("Caixa atual:", money.FormatBRL(r.CashCurrent)),
	)

	if len(r.Payments) > 0 {
		m.AddRows(row.New(6))
		m.AddRows(headerCells(
			[]string{"Forma de pagamento", "Pedidos", "Faturamento"},
			[]int{6, 2, 4},
			[]align.Type{align.Left, align.Center, align.Right},
		))
		for _, p := range r.Payments {
			m.AddRows(row.New(6).Add(
				col.New(6).Add(text.New(p.Label, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(2).Add(text.New(strconv.Itoa(p.Count), props.Text{Size: 8, Top: 1, Align: align.Center})),
				col.New(4).Add(text.New(money.FormatBRL(p.Revenue), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
			))
		}
	}

	m.AddRows(row.New(6))
	m.AddRows(headerCells(
		[]string{"#", "Cliente", "Pagamento", "Tempo", "Total"},
		[]int{1, 4, 3, 2, 2},
		[]align.Type{align.Center, align.Left, align.Left, align.Center, align.Right},
	))
	m.AddRows(orderRows(r.Orders)...)
	if len(r.Orders) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Nenhum pedido finalizado hoje.", props.Text{
			Size: 9, Align: align.Center, Color: colorGray, Top: 2,
		}))))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar relatório diário: %w", err)
	}
	return doc.GetBytes(), nil
}

func orderRows(orders []dto.OrderResponse) []core.Row {
	rows := make([]core.Row, 0, len(orders))
	for _, o := range orders {
		elapsed := "—"
		if o.CompletedAt != nil {
			elapsed = money.FormatDuration(o.CompletedAt.Sub(o.CreatedAt))
		}
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(o.OrderNumber), props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(4).Add(text.New(o.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(o.PaymentLabel, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(elapsed, props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(2).Add(text.New(money.FormatBRL(o.Total), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return rows
}
