// Package kanban define el ciclo de vida del pedido en el tablero:
// pedidos → preparando → pronto → finalizados.
//
// El tablero permite arrastrar entre cualquier par de columnas; solo la llegada a
// "finalizados" es terminal: sella CompletedAt, libera la mesa y decide el aviso al cliente.
package kanban

import (
	"fmt"
	"time"

	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// Transition resultado de aplicar un movimiento a un pedido.
type Transition struct {
	From          entity.Column
	To            entity.Column
	NoOp          bool // destino igual a la columna actual
	Finalized     bool
	ReleasedTable *int // mesa a liberar al finalizar
	Notice        Notice
}

// Move calcula el pedido resultante de mover o a target sin modificar o.
// Errores: ErrInvalidInput para columnas desconocidas; ErrConflict (y ErrOrderFinalized) si o ya es terminal.
func Move(o entity.Order, target entity.Column, now time.Time) (entity.Order, Transition, error) {
	if !target.Valid() {
		return o, Transition{}, fmt.Errorf("columna %q: %w", target, domain.ErrInvalidInput)
	}
	if o.Column.Terminal() {
		return o, Transition{}, fmt.Errorf("pedido #%d: %w: %w", o.OrderNumber, domain.ErrConflict, domain.ErrOrderFinalized)
	}
	tr := Transition{From: o.Column, To: target}
	if o.Column == target {
		tr.NoOp = true
		return o, tr, nil
	}

	moved := o
	moved.Column = target
	moved.UpdatedAt = now
	if target.Terminal() {
		completed := now
		moved.CompletedAt = &completed
		tr.Finalized = true
		if o.HasTable() {
			n := *o.TableNumber
			tr.ReleasedTable = &n
		}
		tr.Notice = SelectNotice(&o)
	}
	return moved, tr, nil
}

// CheckCompletion valida el invariante CompletedAt ⇔ finalizados.
func CheckCompletion(o *entity.Order) error {
	finalized := o.Column == entity.ColumnFinalizados
	if finalized != (o.CompletedAt != nil) {
		return fmt.Errorf("pedido #%d: completed_at inconsistente con columna %s: %w",
			o.OrderNumber, o.Column, domain.ErrConflict)
	}
	return nil
}
