package xmlexport_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/xmlexport"
)

func TestExportDailyReport(t *testing.T) {
	done := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	table := 4
	pays := []dto.PaymentBreakdown{
		{Method: "pix", Label: "PIX", Count: 1, Revenue: decimal.RequireFromString("30.5")},
	}
	orders := []dto.OrderResponse{{
		ID:            "o-1",
		OrderNumber:   7,
		Name:          "João",
		Description:   "Açaí <500ml>",
		Total:         decimal.RequireFromString("30.5"),
		PaymentMethod: "pix",
		TableNumber:   &table,
		CreatedAt:     done.Add(-20 * time.Minute),
		CompletedAt:   &done,
	}}
	r := &dto.DailyReport{
		Date:              "2026-03-10",
		GeneratedAt:       done,
		Owner:             "Ana & Filhos",
		FinalizedRevenue:  decimal.RequireFromString("30.5"),
		FinalizedOrders:   1,
		AverageTicket:     decimal.RequireFromString("30.5"),
		CashInitial:       decimal.NewFromInt(100),
		CashCurrent:       decimal.RequireFromString("130.5"),
		AverageProcessing: "20min",
		Payments:          pays,
		Orders:            orders,
	}

	b, err := xmlexport.NewDailyReportExporter().ExportDailyReport(r)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	root := doc.SelectElement("FechamentoDiario")
	require.NotNil(t, root)
	assert.Equal(t, "2026-03-10", root.SelectAttrValue("data", ""))
	assert.Equal(t, "Ana & Filhos", root.SelectElement("Responsavel").Text())
	assert.Equal(t, "30.50", root.FindElement("Resumo/FaturamentoFinalizado").Text())
	assert.Equal(t, "130.50", root.FindElement("Resumo/CaixaAtual").Text())

	pedido := root.FindElement("Pedidos/Pedido")
	require.NotNil(t, pedido)
	assert.Equal(t, "7", pedido.SelectAttrValue("numero", ""))
	assert.Equal(t, "Açaí <500ml>", pedido.SelectElement("Descricao").Text())
	assert.Equal(t, "4", pedido.SelectElement("Mesa").Text())

	_, err = xmlexport.NewDailyReportExporter().ExportDailyReport(nil)
	assert.Error(t, err)
}
