package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentBreakdown facturación por forma de pago.
type PaymentBreakdown struct {
	Method  string          `json:"method"`
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyReport cierre del día: pedidos finalizados dentro de la ventana del día.
type DailyReport struct {
	Date                  string             `json:"date"`
	GeneratedAt           time.Time          `json:"generated_at"`
	Owner                 string             `json:"owner"`
	FinalizedRevenue      decimal.Decimal    `json:"finalized_revenue"`
	FinalizedOrders       int                `json:"finalized_orders"`
	AverageTicket         decimal.Decimal    `json:"average_ticket"`
	CashInitial           decimal.Decimal    `json:"cash_initial"`
	CashCurrent           decimal.Decimal    `json:"cash_current"`
	AverageProcessing     string             `json:"average_processing"`
	AverageProcessingSecs int64              `json:"average_processing_seconds"`
	Payments              []PaymentBreakdown `json:"payments"`
	Orders                []OrderResponse    `json:"orders"`
}
