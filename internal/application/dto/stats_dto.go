package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// OpenCashRegisterRequest apertura de caja del día.
type OpenCashRegisterRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// DailyStatsResponse estadísticas del día. FinalizedRevenue es lo facturado en pedidos finalizados del día.
type DailyStatsResponse struct {
	Date             string          `json:"date"`
	FinalizedRevenue decimal.Decimal `json:"finalized_revenue"`
	TotalOrders      int             `json:"total_orders"`
	CashInitial      decimal.Decimal `json:"cash_initial"`
	CashCurrent      decimal.Decimal `json:"cash_current"`
	LastResetAt      *time.Time      `json:"last_reset_at,omitempty"`
}

// ResetCheckResponse resultado de la verificación del cierre diario.
type ResetCheckResponse struct {
	Reset bool `json:"reset"`
}

// FromDailyStats mapea la entidad; nil si no hay fila.
func FromDailyStats(s *entity.DailyStats) *DailyStatsResponse {
	if s == nil {
		return nil
	}
	return &DailyStatsResponse{
		Date:             s.Date,
		FinalizedRevenue: s.DailyRevenue,
		TotalOrders:      s.TotalOrders,
		CashInitial:      s.CashInitial,
		CashCurrent:      s.CashCurrent,
		LastResetAt:      s.LastResetAt,
	}
}
