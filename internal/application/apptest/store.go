// Package apptest provee un almacén en memoria que implementa los repositorios y el TxRunner
// para probar los casos de uso sin PostgreSQL.
package apptest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
)

// Store datos en memoria. Los repos devuelven copias para que los tests detecten escrituras faltantes.
type Store struct {
	mu       sync.Mutex
	users    map[string]entity.User
	orders   map[string]entity.Order
	tables   map[string]entity.Table
	stats    map[string]entity.DailyStats // clave user_id|date
	counters map[string]int

	// FailOn fuerza un error en la operación con ese nombre (ej. "orders.Update").
	FailOn map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:    map[string]entity.User{},
		orders:   map[string]entity.Order{},
		tables:   map[string]entity.Table{},
		stats:    map[string]entity.DailyStats{},
		counters: map[string]int{},
		FailOn:   map[string]error{},
	}
}

var (
	_ ports.TxRunner                  = (*Store)(nil)
	_ repository.UserRepository       = (*Users)(nil)
	_ repository.OrderRepository      = (*Orders)(nil)
	_ repository.TableRepository      = (*Tables)(nil)
	_ repository.DailyStatsRepository = (*Stats)(nil)
)

// ErrForced error por defecto para FailOn.
var ErrForced = errors.New("fallo forzado")

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		if err == nil {
			return ErrForced
		}
		return err
	}
	return nil
}

// Run ejecuta fn y, si falla, restaura el estado previo (rollback).
func (s *Store) Run(ctx context.Context, fn func(
	orders repository.OrderRepository,
	tables repository.TableRepository,
	stats repository.DailyStatsRepository,
) error) error {
	s.mu.Lock()
	snapOrders := cloneMap(s.orders)
	snapTables := cloneMap(s.tables)
	snapStats := cloneMap(s.stats)
	snapCounters := cloneMap(s.counters)
	s.mu.Unlock()

	if err := fn(s.Orders(), s.Tables(), s.Stats()); err != nil {
		s.mu.Lock()
		s.orders, s.tables, s.stats, s.counters = snapOrders, snapTables, snapStats, snapCounters
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Users repositorio de usuarios.
func (s *Store) Users() *Users { return &Users{s: s} }

// Orders repositorio de pedidos.
func (s *Store) Orders() *Orders { return &Orders{s: s} }

// Tables repositorio de mesas.
func (s *Store) Tables() *Tables { return &Tables{s: s} }

// Stats repositorio de estadísticas diarias.
func (s *Store) Stats() *Stats { return &Stats{s: s} }

// ── users ──────────────────────────────────────────────────────────────────

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// ── orders ─────────────────────────────────────────────────────────────────

type Orders struct{ s *Store }

func (r *Orders) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Create"); err != nil {
		return err
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *Orders) GetByID(_ context.Context, userID, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.UserID != userID {
		return nil, nil
	}
	return &o, nil
}

func (r *Orders) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Update"); err != nil {
		return err
	}
	cur, ok := r.s.orders[o.ID]
	if !ok || cur.UserID != o.UserID {
		return fmt.Errorf("pedido %s: %w", o.ID, domain.ErrNotFound)
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *Orders) ListActive(_ context.Context, userID string) ([]*entity.Order, error) {
	return r.filter(userID, func(o entity.Order) bool { return !o.Column.Terminal() }, false), nil
}

func (r *Orders) ListFinalized(_ context.Context, userID string, from, to time.Time) ([]*entity.Order, error) {
	return r.filter(userID, func(o entity.Order) bool { return finalizedIn(o, from, to) }, true), nil
}

func (r *Orders) ListAll(_ context.Context, userID string) ([]*entity.Order, error) {
	return r.filter(userID, func(entity.Order) bool { return true }, true), nil
}

func (r *Orders) SumFinalized(_ context.Context, userID string, from, to time.Time) (decimal.Decimal, int, error) {
	if err := r.s.fail("orders.SumFinalized"); err != nil {
		return decimal.Zero, 0, err
	}
	sum := decimal.Zero
	list := r.filter(userID, func(o entity.Order) bool { return finalizedIn(o, from, to) }, false)
	for _, o := range list {
		sum = sum.Add(o.Total)
	}
	return sum, len(list), nil
}

func (r *Orders) DeleteUnfinished(_ context.Context, userID string, from, to time.Time) (int64, []int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.DeleteUnfinished"); err != nil {
		return 0, nil, err
	}
	var n int64
	var tables []int
	for id, o := range r.s.orders {
		if o.UserID == userID && !o.Column.Terminal() && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			delete(r.s.orders, id)
			n++
			if o.HasTable() {
				tables = append(tables, *o.TableNumber)
			}
		}
	}
	return n, tables, nil
}

func (r *Orders) NextOrderNumber(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.counters[userID]++
	return r.s.counters[userID], nil
}

func (r *Orders) LastOrderNumber(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.counters[userID], nil
}

func (r *Orders) filter(userID string, keep func(entity.Order) bool, newestFirst bool) []*entity.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.UserID == userID && keep(o) {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func finalizedIn(o entity.Order, from, to time.Time) bool {
	return o.Column.Terminal() && o.CompletedAt != nil && !o.CompletedAt.Before(from) && o.CompletedAt.Before(to)
}

// ── tables ─────────────────────────────────────────────────────────────────

type Tables struct{ s *Store }

func (r *Tables) ListByUser(_ context.Context, userID string) ([]*entity.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Table
	for _, t := range r.s.tables {
		if t.UserID == userID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *Tables) GetByID(_ context.Context, userID, id string) (*entity.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tables[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	return &t, nil
}

func (r *Tables) GetByNumber(_ context.Context, userID string, number int) (*entity.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tables {
		if t.UserID == userID && t.Number == number {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *Tables) Create(_ context.Context, t *entity.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("tables.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.tables {
		if existing.UserID == t.UserID && existing.Number == t.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.tables[t.ID] = *t
	return nil
}

func (r *Tables) UpdateStatus(_ context.Context, t *entity.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("tables.UpdateStatus"); err != nil {
		return err
	}
	cur, ok := r.s.tables[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = t.Status
	cur.UpdatedAt = t.UpdatedAt
	r.s.tables[t.ID] = cur
	return nil
}

func (r *Tables) DeleteAll(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.tables {
		if t.UserID == userID {
			delete(r.s.tables, id)
		}
	}
	return nil
}

// ── stats ──────────────────────────────────────────────────────────────────

type Stats struct{ s *Store }

func statsKey(userID, date string) string { return userID + "|" + date }

func (r *Stats) GetByDate(_ context.Context, userID, date string) (*entity.DailyStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stats.GetByDate"); err != nil {
		return nil, err
	}
	st, ok := r.s.stats[statsKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *Stats) Create(_ context.Context, st *entity.DailyStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := statsKey(st.UserID, st.Date)
	if _, ok := r.s.stats[k]; ok {
		return domain.ErrDuplicate
	}
	r.s.stats[k] = *st
	return nil
}

func (r *Stats) Save(_ context.Context, st *entity.DailyStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stats.Save"); err != nil {
		return err
	}
	k := statsKey(st.UserID, st.Date)
	if _, ok := r.s.stats[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.stats[k] = *st
	return nil
}

func (r *Stats) ListUserIDs(_ context.Context, date string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for _, st := range r.s.stats {
		if st.Date == date {
			ids = append(ids, st.UserID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ── helpers de siembra ─────────────────────────────────────────────────────

// PutOrder inserta un pedido tal cual.
func (s *Store) PutOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// PutTable inserta una mesa tal cual.
func (s *Store) PutTable(t entity.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
}

// PutStats inserta estadísticas tal cual.
func (s *Store) PutStats(st entity.DailyStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[statsKey(st.UserID, st.Date)] = st
}

// PutUser inserta un usuario tal cual.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Order lee un pedido sin filtro de usuario (aserciones).
func (s *Store) Order(id string) (entity.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// Table lee una mesa (aserciones).
func (s *Store) Table(id string) (entity.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	return t, ok
}

// OrderCount cantidad total de pedidos guardados.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
