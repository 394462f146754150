// Package stats maneja la caja del día, la sincronización de estadísticas y el cierre diario.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/daily"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

// Config reglas de calendario del restaurante.
type Config struct {
	Location  *time.Location
	ResetHour int
}

// UseCase casos de uso de estadísticas diarias.
type UseCase struct {
	tx     ports.TxRunner
	stats  repository.DailyStatsRepository
	orders repository.OrderRepository
	cfg    Config
	now    func() time.Time
	log    *logger.Logger
}

// NewUseCase construye el caso de uso. Location nil usa time.Local.
func NewUseCase(tx ports.TxRunner, stats repository.DailyStatsRepository, orders repository.OrderRepository, cfg Config, log *logger.Logger) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{tx: tx, stats: stats, orders: orders, cfg: cfg, now: time.Now, log: log.Component("stats")}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Now hora actual en la zona del restaurante.
func (uc *UseCase) Now() time.Time {
	return uc.now().In(uc.cfg.Location)
}

// Today fila de estadísticas de hoy; nil si todavía no se abrió la caja.
func (uc *UseCase) Today(ctx context.Context, userID string) (*entity.DailyStats, error) {
	return uc.stats.GetByDate(ctx, userID, daily.DateKey(uc.Now()))
}

// OpenCashRegister abre la caja del día con el monto inicial. Segunda apertura -> ErrDuplicate.
func (uc *UseCase) OpenCashRegister(ctx context.Context, userID string, initial decimal.Decimal) (*entity.DailyStats, error) {
	if initial.IsNegative() {
		return nil, fmt.Errorf("monto inicial negativo: %w", domain.ErrInvalidInput)
	}
	now := uc.Now()
	s := newDay(userID, now, initial)
	if err := uc.stats.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("cash_initial", initial.StringFixed(2)).Msg("caja abierta")
	if err := uc.SyncStats(ctx, userID); err != nil {
		return nil, err
	}
	return uc.Today(ctx, userID)
}

// SyncStats recalcula facturación y cantidad con los pedidos finalizados desde el inicio del día
// (o desde el último reset) y actualiza la caja. Crea la fila del día con caja 0 si falta.
func (uc *UseCase) SyncStats(ctx context.Context, userID string) error {
	now := uc.Now()
	s, err := uc.stats.GetByDate(ctx, userID, daily.DateKey(now))
	if err != nil {
		return err
	}
	if s == nil {
		s = newDay(userID, now, decimal.Zero)
		if err := uc.stats.Create(ctx, s); err != nil {
			return err
		}
	}

	w := daily.RevenueWindow(now, s)
	revenue, count, err := uc.orders.SumFinalized(ctx, userID, w.Start, w.End)
	if err != nil {
		return err
	}
	s.DailyRevenue = revenue
	s.TotalOrders = count
	s.CashCurrent = s.CashInitial.Add(revenue)
	s.UpdatedAt = now
	if err := uc.stats.Save(ctx, s); err != nil {
		return err
	}
	uc.log.Debug().Str("user_id", userID).Str("revenue", revenue.StringFixed(2)).Int("orders", count).Msg("estadísticas sincronizadas")
	return nil
}

// ShouldReset indica si corresponde el cierre diario del usuario ahora.
func (uc *UseCase) ShouldReset(ctx context.Context, userID string) (bool, error) {
	s, err := uc.Today(ctx, userID)
	if err != nil {
		return false, err
	}
	return daily.ShouldReset(uc.Now(), s, uc.cfg.ResetHour), nil
}

// CheckAndReset ejecuta el cierre si corresponde. Devuelve true si se aplicó.
func (uc *UseCase) CheckAndReset(ctx context.Context, userID string) (bool, error) {
	ok, err := uc.ShouldReset(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	if err := uc.PerformReset(ctx, userID); err != nil {
		return false, err
	}
	return true, nil
}

// PerformReset en una transacción: borra los pedidos no finalizados creados hoy, libera las
// mesas que ocupaban, pone en cero facturación, cantidad y caja actual y sella last_reset_at.
// Los finalizados se conservan.
func (uc *UseCase) PerformReset(ctx context.Context, userID string) error {
	now := uc.Now()
	day := daily.Day(now)
	var deleted int64
	var freed []int
	err := uc.tx.Run(ctx, func(orders repository.OrderRepository, tables repository.TableRepository, stats repository.DailyStatsRepository) error {
		s, err := stats.GetByDate(ctx, userID, daily.DateKey(now))
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("estadísticas de hoy: %w", domain.ErrNotFound)
		}
		deleted, freed, err = orders.DeleteUnfinished(ctx, userID, day.Start, day.End)
		if err != nil {
			return err
		}
		for _, n := range freed {
			t, err := tables.GetByNumber(ctx, userID, n)
			if err != nil {
				return err
			}
			if t == nil || t.Status != entity.TableOccupied {
				continue
			}
			t.Release()
			t.UpdatedAt = now
			if err := tables.UpdateStatus(ctx, t); err != nil {
				return err
			}
		}
		resetAt := now
		s.DailyRevenue = decimal.Zero
		s.TotalOrders = 0
		s.CashCurrent = decimal.Zero
		s.LastResetAt = &resetAt
		s.UpdatedAt = now
		return stats.Save(ctx, s)
	})
	if err != nil {
		return fmt.Errorf("reset diario: %w", err)
	}
	uc.log.Info().Str("user_id", userID).Int64("deleted_orders", deleted).Ints("freed_tables", freed).Msg("reset diario aplicado")
	return nil
}

// SyncAll sincroniza a todos los usuarios con caja abierta hoy (job periódico).
// Un error por usuario se registra y no corta el resto.
func (uc *UseCase) SyncAll(ctx context.Context) error {
	ids, err := uc.stats.ListUserIDs(ctx, daily.DateKey(uc.Now()))
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := uc.SyncStats(ctx, id); err != nil {
			uc.log.Error().Err(err).Str("user_id", id).Msg("sincronización periódica falló")
		}
	}
	return nil
}

// CheckAndResetAll verifica el cierre diario de todos los usuarios con caja abierta hoy
// y devuelve los usuarios reseteados.
func (uc *UseCase) CheckAndResetAll(ctx context.Context) ([]string, error) {
	if uc.Now().Hour() < uc.cfg.ResetHour {
		return nil, nil
	}
	ids, err := uc.stats.ListUserIDs(ctx, daily.DateKey(uc.Now()))
	if err != nil {
		return nil, err
	}
	var reset []string
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return reset, err
		}
		ok, err := uc.CheckAndReset(ctx, id)
		if err != nil {
			uc.log.Error().Err(err).Str("user_id", id).Msg("verificación de reset falló")
			continue
		}
		if ok {
			reset = append(reset, id)
		}
	}
	return reset, nil
}

func newDay(userID string, now time.Time, initial decimal.Decimal) *entity.DailyStats {
	return &entity.DailyStats{
		ID:           uuid.New().String(),
		UserID:       userID,
		Date:         daily.DateKey(now),
		DailyRevenue: decimal.Zero,
		CashInitial:  initial,
		CashCurrent:  initial,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
