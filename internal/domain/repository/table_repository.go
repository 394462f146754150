package repository

import (
	"context"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// TableRepository puerto de persistencia de mesas.
type TableRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*entity.Table, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Table, error)
	GetByNumber(ctx context.Context, userID string, number int) (*entity.Table, error)
	Create(ctx context.Context, t *entity.Table) error
	UpdateStatus(ctx context.Context, t *entity.Table) error
	DeleteAll(ctx context.Context, userID string) error
}
