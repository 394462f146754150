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

var _ repository.TableRepository = (*TableRepo)(nil)

const tableColumns = `id, user_id, number, capacity, status, created_at, updated_at`

// TableRepo implementación de TableRepository sobre restaurant_tables.
type TableRepo struct {
	q Querier
}

// NewTableRepository construye el adaptador de mesas. Pasar pool o tx (Querier).
func NewTableRepository(q Querier) *TableRepo {
	return &TableRepo{q: q}
}

// ListByUser mesas del usuario ordenadas por número.
func (r *TableRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE user_id = $1 ORDER BY number`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetByID obtiene una mesa por ID.
func (r *TableRepo) GetByID(ctx context.Context, userID, id string) (*entity.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, query, id, userID)
}

// GetByNumber obtiene una mesa por su número visible. FOR UPDATE bloquea la fila dentro de una tx.
func (r *TableRepo) GetByNumber(ctx context.Context, userID string, number int) (*entity.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE user_id = $1 AND number = $2 FOR UPDATE`
	return r.getOne(ctx, query, userID, number)
}

// Create inserta una mesa.
func (r *TableRepo) Create(ctx context.Context, t *entity.Table) error {
	query := `INSERT INTO restaurant_tables (` + tableColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, t.ID, t.UserID, t.Number, t.Capacity, string(t.Status), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("mesa %d: %w", t.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

// UpdateStatus persiste el estado de ocupación.
func (r *TableRepo) UpdateStatus(ctx context.Context, t *entity.Table) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE restaurant_tables SET status = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, string(t.Status), t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update table status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mesa %d: %w", t.Number, domain.ErrNotFound)
	}
	return nil
}

// DeleteAll elimina todas las mesas del usuario.
func (r *TableRepo) DeleteAll(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM restaurant_tables WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	return nil
}

func (r *TableRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Table, error) {
	t, err := scanTable(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return t, nil
}

func scanTable(row pgxScanner) (*entity.Table, error) {
	var t entity.Table
	var status string
	if err := row.Scan(&t.ID, &t.UserID, &t.Number, &t.Capacity, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = entity.TableStatus(status)
	return &t, nil
}
