// Package daily concentra las reglas de calendario del cierre diario:
// ventana del día local, elegibilidad del reset y ventana de facturación.
package daily

import (
	"time"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// DefaultResetHour hora local del cierre diario.
const DefaultResetHour = 17

// Window intervalo semiabierto [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains indica si t cae dentro de la ventana.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Day ventana del día calendario de now en su propia zona horaria.
func Day(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// DateKey fecha local en formato YYYY-MM-DD (clave de user_daily_stats).
func DateKey(now time.Time) string {
	return now.Format("2006-01-02")
}

// ResetBoundary instante del cierre de hoy (hoy a las resetHour:00 locales).
func ResetBoundary(now time.Time, resetHour int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, now.Location())
}

// ShouldReset es elegible cuando ya pasó la hora de cierre, existe la fila del día
// y su último reset (o apertura) es anterior al cierre de hoy.
func ShouldReset(now time.Time, stats *entity.DailyStats, resetHour int) bool {
	if now.Hour() < resetHour {
		return false
	}
	if stats == nil {
		return false
	}
	return stats.ResetReference().Before(ResetBoundary(now, resetHour))
}

// RevenueWindow ventana de pedidos finalizados que cuentan para la facturación del día:
// desde el inicio del día o desde el último reset, lo que sea posterior.
func RevenueWindow(now time.Time, stats *entity.DailyStats) Window {
	w := Day(now)
	if stats != nil && stats.LastResetAt != nil && stats.LastResetAt.After(w.Start) {
		w.Start = *stats.LastResetAt
	}
	return w
}
