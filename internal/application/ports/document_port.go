package ports

import (
	"context"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// OrderInvoicePDF genera la "NOTA DE PEDIDO" de un pedido.
type OrderInvoicePDF interface {
	GenerateOrderInvoice(ctx context.Context, order *entity.Order, issuer string) ([]byte, error)
}

// DailyReportPDF genera el PDF del cierre diario.
type DailyReportPDF interface {
	GenerateDailyReport(ctx context.Context, report *dto.DailyReport) ([]byte, error)
}

// DailyReportXML exporta el cierre diario como XML.
type DailyReportXML interface {
	ExportDailyReport(report *dto.DailyReport) ([]byte, error)
}
