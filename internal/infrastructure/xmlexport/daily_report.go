// Package xmlexport exporta el cierre diario como XML para contabilidad.
package xmlexport

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
)

var _ ports.DailyReportXML = (*DailyReportExporter)(nil)

// Namespace del documento de cierre.
const Namespace = "urn:balcao-digital:fechamento-diario:v1"

// DailyReportExporter arma el XML con etree.
type DailyReportExporter struct{}

// NewDailyReportExporter crea el exportador.
func NewDailyReportExporter() *DailyReportExporter { return &DailyReportExporter{} }

// ExportDailyReport serializa el reporte. Montos con 2 decimales y punto.
func (e *DailyReportExporter) ExportDailyReport(r *dto.DailyReport) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("xmlexport: reporte nil")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("FechamentoDiario")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("data", r.Date)
	root.CreateAttr("geradoEm", r.GeneratedAt.Format(time.RFC3339))
	if r.Owner != "" {
		root.CreateElement("Responsavel").SetText(r.Owner)
	}

	sum := root.CreateElement("Resumo")
	sum.CreateElement("FaturamentoFinalizado").SetText(r.FinalizedRevenue.StringFixed(2))
	sum.CreateElement("PedidosFinalizados").SetText(strconv.Itoa(r.FinalizedOrders))
	sum.CreateElement("TicketMedio").SetText(r.AverageTicket.StringFixed(2))
	sum.CreateElement("CaixaInicial").SetText(r.CashInitial.StringFixed(2))
	sum.CreateElement("CaixaAtual").SetText(r.CashCurrent.StringFixed(2))
	tm := sum.CreateElement("TempoMedioPreparo")
	tm.CreateAttr("segundos", strconv.FormatInt(r.AverageProcessingSecs, 10))
	tm.SetText(r.AverageProcessing)

	pays := root.CreateElement("Pagamentos")
	for _, p := range r.Payments {
		el := pays.CreateElement("Pagamento")
		el.CreateAttr("forma", p.Method)
		el.CreateAttr("pedidos", strconv.Itoa(p.Count))
		el.CreateAttr("descricao", p.Label)
		el.SetText(p.Revenue.StringFixed(2))
	}

	orders := root.CreateElement("Pedidos")
	for _, o := range r.Orders {
		el := orders.CreateElement("Pedido")
		el.CreateAttr("numero", strconv.Itoa(o.OrderNumber))
		el.CreateAttr("id", o.ID)
		el.CreateElement("Cliente").SetText(o.Name)
		el.CreateElement("Descricao").SetText(o.Description)
		el.CreateElement("Total").SetText(o.Total.StringFixed(2))
		if o.PaymentMethod != "" {
			el.CreateElement("FormaPagamento").SetText(o.PaymentMethod)
		}
		if o.TableNumber != nil {
			el.CreateElement("Mesa").SetText(strconv.Itoa(*o.TableNumber))
		}
		el.CreateElement("CriadoEm").SetText(o.CreatedAt.Format(time.RFC3339))
		if o.CompletedAt != nil {
			el.CreateElement("FinalizadoEm").SetText(o.CompletedAt.Format(time.RFC3339))
		}
	}

	doc.Indent(2)
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlexport: serializar: %w", err)
	}
	return b, nil
}
