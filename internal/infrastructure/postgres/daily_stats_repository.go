package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
)

var _ repository.DailyStatsRepository = (*DailyStatsRepo)(nil)

// date se lee como texto para no depender de la zona de la conexión.
const statsColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), daily_revenue, total_orders,
	cash_initial, cash_current, last_reset_at, created_at, updated_at`

// DailyStatsRepo implementación de DailyStatsRepository sobre user_daily_stats.
type DailyStatsRepo struct {
	q Querier
}

// NewDailyStatsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDailyStatsRepository(q Querier) *DailyStatsRepo {
	return &DailyStatsRepo{q: q}
}

// GetByDate fila del usuario para la fecha YYYY-MM-DD.
func (r *DailyStatsRepo) GetByDate(ctx context.Context, userID, date string) (*entity.DailyStats, error) {
	query := `SELECT ` + statsColumns + ` FROM user_daily_stats WHERE user_id = $1 AND date = $2::date`
	var s entity.DailyStats
	err := r.q.QueryRow(ctx, query, userID, date).Scan(
		&s.ID, &s.UserID, &s.Date, &s.DailyRevenue, &s.TotalOrders,
		&s.CashInitial, &s.CashCurrent, &s.LastResetAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily stats: %w", err)
	}
	return &s, nil
}

// Create abre la fila del día. UNIQUE(user_id, date) -> ErrDuplicate.
func (r *DailyStatsRepo) Create(ctx context.Context, s *entity.DailyStats) error {
	query := `
		INSERT INTO user_daily_stats
			(id, user_id, date, daily_revenue, total_orders, cash_initial, cash_current, last_reset_at, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.Date, s.DailyRevenue, s.TotalOrders,
		s.CashInitial, s.CashCurrent, s.LastResetAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("estadísticas %s: %w", s.Date, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert daily stats: %w", err)
	}
	return nil
}

// Save actualiza contadores, caja y last_reset_at.
func (r *DailyStatsRepo) Save(ctx context.Context, s *entity.DailyStats) error {
	query := `
		UPDATE user_daily_stats
		SET daily_revenue = $3, total_orders = $4, cash_initial = $5, cash_current = $6,
		    last_reset_at = $7, updated_at = $8
		WHERE user_id = $1 AND date = $2::date`
	tag, err := r.q.Exec(ctx, query,
		s.UserID, s.Date, s.DailyRevenue, s.TotalOrders, s.CashInitial, s.CashCurrent,
		s.LastResetAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update daily stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("estadísticas %s: %w", s.Date, domain.ErrNotFound)
	}
	return nil
}

// ListUserIDs usuarios que abrieron caja en la fecha.
func (r *DailyStatsRepo) ListUserIDs(ctx context.Context, date string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT user_id FROM user_daily_stats WHERE date = $1::date`, date)
	if err != nil {
		return nil, fmt.Errorf("list stats users: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan stats user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
