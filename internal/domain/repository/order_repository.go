package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia de pedidos, siempre acotado al usuario dueño.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	// GetByID devuelve (nil, nil) si el pedido no existe o es de otro usuario.
	GetByID(ctx context.Context, userID, id string) (*entity.Order, error)
	// Update reescribe el pedido completo (last-write-wins). ErrNotFound si no hay fila.
	Update(ctx context.Context, o *entity.Order) error
	// ListActive pedidos no finalizados, más antiguos primero.
	ListActive(ctx context.Context, userID string) ([]*entity.Order, error)
	// ListFinalized pedidos con completed_at en [from, to).
	ListFinalized(ctx context.Context, userID string, from, to time.Time) ([]*entity.Order, error)
	// ListAll todos los pedidos del usuario, más recientes primero.
	ListAll(ctx context.Context, userID string) ([]*entity.Order, error)
	// SumFinalized total y cantidad de pedidos finalizados en [from, to).
	SumFinalized(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, int, error)
	// DeleteUnfinished borra los pedidos no finalizados creados en [from, to) y devuelve
	// cuántos borró y las mesas que ocupaban.
	DeleteUnfinished(ctx context.Context, userID string, from, to time.Time) (int64, []int, error)
	// NextOrderNumber incrementa y devuelve el contador del usuario (nunca decrece).
	NextOrderNumber(ctx context.Context, userID string) (int, error)
	// LastOrderNumber último número emitido; 0 si el usuario nunca creó pedidos.
	LastOrderNumber(ctx context.Context, userID string) (int, error)
}
