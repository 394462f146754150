package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/balcao-digital-api/internal/domain"
)

// TableStatus estado de ocupación de una mesa.
type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
)

// Valid indica si el estado existe.
func (s TableStatus) Valid() bool {
	return s == TableFree || s == TableOccupied || s == TableReserved
}

// DefaultTableCapacity capacidad asignada al configurar mesas.
const DefaultTableCapacity = 4

// MaxTables límite de mesas configurables por usuario.
const MaxTables = 100

// Table mesa del salón. Solo un pedido la ocupa y solo su finalización la libera.
type Table struct {
	ID        string
	UserID    string
	Number    int
	Capacity  int
	Status    TableStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Occupy marca la mesa como ocupada al asociarla a un pedido (libre o reservada).
func (t *Table) Occupy() error {
	if t.Status == TableOccupied {
		return fmt.Errorf("mesa %d: %w", t.Number, domain.ErrTableOccupied)
	}
	t.Status = TableOccupied
	return nil
}

// Release libera la mesa al finalizar el pedido asociado.
func (t *Table) Release() {
	t.Status = TableFree
}

// SetManualStatus cambio manual desde el salón: solo alterna libre↔reservada.
func (t *Table) SetManualStatus(s TableStatus) error {
	if s != TableFree && s != TableReserved {
		return fmt.Errorf("estado manual %q no permitido: %w", s, domain.ErrInvalidInput)
	}
	if t.Status == TableOccupied {
		return fmt.Errorf("mesa %d: %w", t.Number, domain.ErrTableOccupied)
	}
	t.Status = s
	return nil
}
