package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyStats estadísticas de caja y ventas de un usuario para una fecha local.
type DailyStats struct {
	ID           string
	UserID       string
	Date         string // YYYY-MM-DD en la zona horaria del restaurante
	DailyRevenue decimal.Decimal
	TotalOrders  int
	CashInitial  decimal.Decimal
	CashCurrent  decimal.Decimal
	LastResetAt  *time.Time // nil = todavía sin reset en el día
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResetReference instante a comparar con el horario de cierre: el último reset o,
// si nunca hubo, la apertura de la fila.
func (s *DailyStats) ResetReference() time.Time {
	if s.LastResetAt != nil {
		return *s.LastResetAt
	}
	return s.CreatedAt
}
