// Package tables administra las mesas del salón.
package tables

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

// UseCase casos de uso de mesas.
type UseCase struct {
	tx     ports.TxRunner
	tables repository.TableRepository
	now    func() time.Time
	log    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, tables repository.TableRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{tx: tx, tables: tables, now: time.Now, log: log.Component("tables")}
}

// List mesas del usuario por número.
func (uc *UseCase) List(ctx context.Context, userID string) ([]*entity.Table, error) {
	return uc.tables.ListByUser(ctx, userID)
}

// Configure reemplaza todas las mesas por 1..count, libres y con capacidad por defecto.
func (uc *UseCase) Configure(ctx context.Context, userID string, count int) ([]*entity.Table, error) {
	if count < 1 || count > entity.MaxTables {
		return nil, fmt.Errorf("cantidad de mesas %d fuera de 1..%d: %w", count, entity.MaxTables, domain.ErrInvalidInput)
	}
	now := uc.now()
	created := make([]*entity.Table, 0, count)
	err := uc.tx.Run(ctx, func(_ repository.OrderRepository, tables repository.TableRepository, _ repository.DailyStatsRepository) error {
		if err := tables.DeleteAll(ctx, userID); err != nil {
			return err
		}
		for n := 1; n <= count; n++ {
			t := &entity.Table{
				ID:        uuid.New().String(),
				UserID:    userID,
				Number:    n,
				Capacity:  entity.DefaultTableCapacity,
				Status:    entity.TableFree,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tables.Create(ctx, t); err != nil {
				return err
			}
			created = append(created, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Int("count", count).Msg("mesas configuradas")
	return created, nil
}

// DeleteAll elimina todas las mesas del usuario.
func (uc *UseCase) DeleteAll(ctx context.Context, userID string) error {
	return uc.tables.DeleteAll(ctx, userID)
}

// SetStatus cambio manual libre↔reservada. Las mesas ocupadas solo se liberan finalizando su pedido.
func (uc *UseCase) SetStatus(ctx context.Context, userID, id string, status entity.TableStatus) (*entity.Table, error) {
	t, err := uc.tables.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("mesa %s: %w", id, domain.ErrNotFound)
	}
	if err := t.SetManualStatus(status); err != nil {
		return nil, err
	}
	t.UpdatedAt = uc.now()
	if err := uc.tables.UpdateStatus(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
