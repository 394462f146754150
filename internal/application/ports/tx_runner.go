package ports

import (
	"context"

	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback completo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orders repository.OrderRepository,
		tables repository.TableRepository,
		stats repository.DailyStatsRepository,
	) error) error
}
