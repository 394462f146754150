package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, order_number, name, description, total, payment_method, phone,
	table_number, received_amount, change_amount, address, column_id, card_color,
	created_at, completed_at, updated_at`

// OrderRepo implementación de OrderRepository sobre user_orders (pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta un pedido nuevo.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	addr, err := encodeAddress(o.Address)
	if err != nil {
		return err
	}
	query := `INSERT INTO user_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		o.ID, o.UserID, o.OrderNumber, o.Name, o.Description, o.Total,
		nullIfEmpty(string(o.PaymentMethod)), nullIfEmpty(o.Phone),
		o.TableNumber, o.ReceivedAmount, o.Change, addr,
		string(o.Column), o.CardColor, o.CreatedAt, o.CompletedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("pedido #%d: %w", o.OrderNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido del usuario.
func (r *OrderRepo) GetByID(ctx context.Context, userID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM user_orders WHERE id = $1 AND user_id = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Update reescribe los campos editables, la columna y completed_at.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	addr, err := encodeAddress(o.Address)
	if err != nil {
		return err
	}
	query := `
		UPDATE user_orders SET
			name = $3, description = $4, total = $5, payment_method = $6, phone = $7,
			table_number = $8, received_amount = $9, change_amount = $10, address = $11,
			column_id = $12, completed_at = $13, updated_at = $14
		WHERE id = $1 AND user_id = $2`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.UserID, o.Name, o.Description, o.Total,
		nullIfEmpty(string(o.PaymentMethod)), nullIfEmpty(o.Phone),
		o.TableNumber, o.ReceivedAmount, o.Change, addr,
		string(o.Column), o.CompletedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pedido %s: %w", o.ID, domain.ErrNotFound)
	}
	return nil
}

// ListActive pedidos en columnas no terminales.
func (r *OrderRepo) ListActive(ctx context.Context, userID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM user_orders
		WHERE user_id = $1 AND column_id <> $2
		ORDER BY created_at ASC`
	return r.list(ctx, query, userID, string(entity.ColumnFinalizados))
}

// ListFinalized pedidos finalizados con completed_at dentro de [from, to).
func (r *OrderRepo) ListFinalized(ctx context.Context, userID string, from, to time.Time) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM user_orders
		WHERE user_id = $1 AND column_id = $2 AND completed_at >= $3 AND completed_at < $4
		ORDER BY completed_at DESC`
	return r.list(ctx, query, userID, string(entity.ColumnFinalizados), from, to)
}

// ListAll historial completo del usuario.
func (r *OrderRepo) ListAll(ctx context.Context, userID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM user_orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// SumFinalized agrega total y cantidad de finalizados en la ventana.
func (r *OrderRepo) SumFinalized(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM user_orders
		WHERE user_id = $1 AND column_id = $2 AND completed_at >= $3 AND completed_at < $4`
	var sum decimal.Decimal
	var count int
	err := r.q.QueryRow(ctx, query, userID, string(entity.ColumnFinalizados), from, to).Scan(&sum, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum finalized orders: %w", err)
	}
	return sum, count, nil
}

// DeleteUnfinished borra pedidos de pedidos/preparando/pronto creados en la ventana y
// devuelve las mesas que tenían asignadas.
func (r *OrderRepo) DeleteUnfinished(ctx context.Context, userID string, from, to time.Time) (int64, []int, error) {
	query := `
		DELETE FROM user_orders
		WHERE user_id = $1 AND column_id <> $2 AND created_at >= $3 AND created_at < $4
		RETURNING table_number`
	rows, err := r.q.Query(ctx, query, userID, string(entity.ColumnFinalizados), from, to)
	if err != nil {
		return 0, nil, fmt.Errorf("delete unfinished orders: %w", err)
	}
	defer rows.Close()
	var deleted int64
	var tables []int
	for rows.Next() {
		var table *int
		if err := rows.Scan(&table); err != nil {
			return 0, nil, fmt.Errorf("scan deleted order: %w", err)
		}
		deleted++
		if table != nil && *table > 0 {
			tables = append(tables, *table)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("delete unfinished orders: %w", err)
	}
	return deleted, tables, nil
}

// NextOrderNumber upsert sobre user_order_counters; el contador no se reinicia con el reset diario.
func (r *OrderRepo) NextOrderNumber(ctx context.Context, userID string) (int, error) {
	query := `
		INSERT INTO user_order_counters (user_id, last_number, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (user_id) DO UPDATE
			SET last_number = user_order_counters.last_number + 1, updated_at = now()
		RETURNING last_number`
	var n int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return n, nil
}

// LastOrderNumber lee el contador sin incrementarlo.
func (r *OrderRepo) LastOrderNumber(ctx context.Context, userID string) (int, error) {
	query := `SELECT COALESCE((SELECT last_number FROM user_order_counters WHERE user_id = $1), 0)`
	var n int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("last order number: %w", err)
	}
	return n, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var (
		o                entity.Order
		payment, phone   *string
		column           string
		received, change decimal.NullDecimal
		addr             []byte
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.Name, &o.Description, &o.Total, &payment, &phone,
		&o.TableNumber, &received, &change, &addr, &column, &o.CardColor,
		&o.CreatedAt, &o.CompletedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Column = entity.Column(column)
	if payment != nil {
		o.PaymentMethod = entity.PaymentMethod(*payment)
	}
	if phone != nil {
		o.Phone = *phone
	}
	if received.Valid {
		v := received.Decimal
		o.ReceivedAmount = &v
	}
	if change.Valid {
		v := change.Decimal
		o.Change = &v
	}
	if len(addr) > 0 {
		var a entity.Address
		if err := json.Unmarshal(addr, &a); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
		o.Address = &a
	}
	return &o, nil
}

// encodeAddress serializa a jsonb; dirección vacía se guarda como NULL.
func encodeAddress(a *entity.Address) ([]byte, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	return b, nil
}
