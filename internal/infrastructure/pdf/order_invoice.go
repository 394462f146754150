package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/kanban"
	"github.com/jhoicas/balcao-digital-api/pkg/money"
	"github.com/jhoicas/balcao-digital-api/pkg/whatsapp"
)

// GenerateOrderInvoice genera la "NOTA DE PEDIDO" en hoja de 200×290 mm.
//
//	┌──────────────────────────────────────┐
//	│ NOTA DE PEDIDO          Pedido #N    │
//	│ Cliente / Telefone / Pagamento / Mesa │
//	│ Endereço de entrega                   │
//	│ Descrição                             │
//	│ Total / Recebido / Troco       [QR]  │
//	└──────────────────────────────────────┘
func (g *MarotoPDFGenerator) GenerateOrderInvoice(_ context.Context, o *entity.Order, issuer string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(200, 290).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(fmt.Sprintf("Nota de pedido #%d", o.OrderNumber), true).
		WithAuthor(nonEmpty(issuer, "Balcão Digital"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(invoiceHeaderRow(o, issuer))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.6}))

	m.AddRows(labelValueRow("Cliente:", o.Name))
	if o.HasPhone() {
		m.AddRows(labelValueRow("Telefone:", whatsapp.Format(o.Phone)))
	}
	if label := o.PaymentMethod.Label(); label != "" {
		m.AddRows(labelValueRow("Pagamento:", label))
	}
	if o.HasTable() {
		m.AddRows(labelValueRow("Mesa:", strconv.Itoa(*o.TableNumber)))
	}
	if o.HasAddress() {
		m.AddRows(row.New(4))
		m.AddRows(addressRows(o.Address)...)
	}

	m.AddRows(row.New(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(row.New(7).Add(col.New(12).Add(text.New("Descrição", props.Text{
		Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1,
	}))))
	m.AddAutoRow(col.New(12).Add(text.New(o.Description, props.Text{Size: 10, Top: 1, Bottom: 2})))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))

	m.AddRows(invoiceTotalsRow(o))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar nota de pedido: %w", err)
	}
	return doc.GetBytes(), nil
}

func invoiceHeaderRow(o *entity.Order, issuer string) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New("NOTA DE PEDIDO", props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 2}),
			text.New(nonEmpty(issuer, "Balcão Digital"), props.Text{Size: 9, Color: colorGray, Top: 11}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Pedido #%d", o.OrderNumber), props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Top: 2,
			}),
			text.New(o.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Color: colorGray, Top: 11,
			}),
		),
	)
}

func addressRows(a *entity.Address) []core.Row {
	street := a.Street
	if a.Number != "" {
		street += ", " + a.Number
	}
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("Endereço de entrega", props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1,
		}))),
		labelValueRow("Rua:", nonEmpty(street, "—")),
	}
	if a.CEP != "" {
		rows = append(rows, labelValueRow("CEP:", a.CEP))
	}
	if a.Reference != "" {
		rows = append(rows, labelValueRow("Referência:", a.Reference))
	}
	return rows
}

// invoiceTotalsRow totales a la izquierda y QR de WhatsApp a la derecha cuando hay teléfono.
func invoiceTotalsRow(o *entity.Order) core.Row {
	amount := func(label, v string, top float64, bold bool) core.Component {
		p := props.Text{Size: 11, Top: top}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
			p.Size = 13
		}
		return text.New(label+" "+v, p)
	}
	left := col.New(8).Add(amount("Total:", money.FormatBRL(o.Total), 3, true))
	if o.ReceivedAmount != nil {
		left.Add(amount("Valor recebido:", money.FormatBRL(*o.ReceivedAmount), 12, false))
	}
	if o.Change != nil {
		left.Add(amount("Troco:", money.FormatBRL(*o.Change), 19, false))
	}

	right := col.New(4)
	if link := whatsapp.Link(o.Phone, kanban.StatusMessage(o.Column)); link != "" {
		right.Add(code.NewQr(link, props.Rect{Percent: 90, Center: true}))
	}
	return row.New(34).Add(left, right)
}
