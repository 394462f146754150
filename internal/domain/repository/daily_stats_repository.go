package repository

import (
	"context"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// DailyStatsRepository puerto de persistencia de user_daily_stats (una fila por usuario y fecha).
type DailyStatsRepository interface {
	// GetByDate devuelve (nil, nil) si la fila del día no existe.
	GetByDate(ctx context.Context, userID, date string) (*entity.DailyStats, error)
	// Create inserta la fila del día; ErrDuplicate si ya existe.
	Create(ctx context.Context, s *entity.DailyStats) error
	Save(ctx context.Context, s *entity.DailyStats) error
	// ListUserIDs usuarios con fila de estadísticas en la fecha (jobs periódicos).
	ListUserIDs(ctx context.Context, date string) ([]string, error)
}
