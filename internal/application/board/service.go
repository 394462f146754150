// Package board mantiene en memoria el tablero de cada usuario como espejo del almacén.
//
// Toda mutación va primero al almacén y solo después de confirmada se aplica a la copia en
// memoria; la edición de un pedido es la excepción (optimista, con recarga si falla).
// Los títulos de columna viven solo en memoria.
package board

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/orders"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/daily"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

// OrderCommands mutaciones de pedidos contra el almacén.
type OrderCommands interface {
	Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*entity.Order, error)
	Update(ctx context.Context, userID, id string, in dto.UpdateOrderRequest) (*entity.Order, error)
	Move(ctx context.Context, userID, id string, target entity.Column) (*orders.MoveResult, error)
}

// DailyStats lectura de estadísticas y cierre diario.
type DailyStats interface {
	Now() time.Time
	Today(ctx context.Context, userID string) (*entity.DailyStats, error)
	CheckAndReset(ctx context.Context, userID string) (bool, error)
}

// Service tablero por usuario.
type Service struct {
	cmds   OrderCommands
	stats  DailyStats
	orders repository.OrderRepository
	tables repository.TableRepository
	log    *logger.Logger

	mu     sync.Mutex
	states map[string]*state
}

type state struct {
	mu        sync.Mutex
	loaded    bool
	active    []*entity.Order
	finalized []*entity.Order
	tables    []*entity.Table
	stats     *entity.DailyStats
	lastNum   int
	titles    map[entity.Column]string
}

// NewService construye el servicio del tablero.
func NewService(cmds OrderCommands, stats DailyStats, orders repository.OrderRepository, tables repository.TableRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cmds:   cmds,
		stats:  stats,
		orders: orders,
		tables: tables,
		log:    log.Component("board"),
		states: map[string]*state{},
	}
}

func (s *Service) stateFor(userID string) *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		st = &state{titles: map[entity.Column]string{}}
		s.states[userID] = st
	}
	return st
}

// Load verifica el cierre diario y recarga todo desde el almacén.
func (s *Service) Load(ctx context.Context, userID string) (*dto.BoardResponse, error) {
	st := s.stateFor(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := s.reload(ctx, userID, st); err != nil {
		return nil, err
	}
	return st.snapshot(), nil
}

// Board foto actual; carga desde el almacén si el usuario no tiene estado o fue invalidado.
// Las estadísticas se releen siempre porque las actualiza el job periódico.
func (s *Service) Board(ctx context.Context, userID string) (*dto.BoardResponse, error) {
	st := s.stateFor(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.loaded {
		if err := s.reload(ctx, userID, st); err != nil {
			return nil, err
		}
		return st.snapshot(), nil
	}
	today, err := s.stats.Today(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.stats = today
	return st.snapshot(), nil
}

func (s *Service) reload(ctx context.Context, userID string, st *state) error {
	if reset, err := s.stats.CheckAndReset(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("verificación de reset al cargar")
	} else if reset {
		s.log.Info().Str("user_id", userID).Msg("reset diario aplicado al cargar el tablero")
	}

	active, err := s.orders.ListActive(ctx, userID)
	if err != nil {
		return err
	}
	day := daily.Day(s.stats.Now())
	finalized, err := s.orders.ListFinalized(ctx, userID, day.Start, day.End)
	if err != nil {
		return err
	}
	tables, err := s.tables.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	today, err := s.stats.Today(ctx, userID)
	if err != nil {
		return err
	}
	last, err := s.orders.LastOrderNumber(ctx, userID)
	if err != nil {
		return err
	}
	st.active, st.finalized, st.tables, st.stats, st.lastNum = active, finalized, tables, today, last
	st.loaded = true
	return nil
}

// Invalidate fuerza la recarga en el próximo Board (mesas reconfiguradas, reset, caja).
func (s *Service) Invalidate(userID string) {
	st := s.stateFor(userID)
	st.mu.Lock()
	st.loaded = false
	st.mu.Unlock()
}

// AddOrder crea el pedido en el almacén y lo agrega al tablero.
func (s *Service) AddOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	st := s.stateFor(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	o, err := s.cmds.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if !st.loaded {
		return o, nil
	}
	st.active = append(st.active, o)
	st.lastNum = max(st.lastNum, o.OrderNumber)
	if o.HasTable() {
		st.setTableStatus(*o.TableNumber, entity.TableOccupied)
	}
	return o, nil
}

// MoveOrder mueve el pedido; el tablero cambia solo si el almacén confirmó.
func (s *Service) MoveOrder(ctx context.Context, userID, id string, target entity.Column) (*orders.MoveResult, error) {
	st := s.stateFor(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	res, err := s.cmds.Move(ctx, userID, id, target)
	if err != nil {
		return nil, err
	}
	if !st.loaded || res.Transition.NoOp {
		return res, nil
	}
	st.removeActive(id)
	if res.Transition.Finalized {
		st.finalized = append([]*entity.Order{res.Order}, st.finalized...)
		if res.Transition.ReleasedTable != nil {
			st.setTableStatus(*res.Transition.ReleasedTable, entity.TableFree)
		}
		if today, err := s.stats.Today(ctx, userID); err == nil {
			st.stats = today
		}
	} else {
		st.active = append(st.active, res.Order)
		st.sortActive()
	}
	return res, nil
}

// UpdateOrder aplica la edición en memoria de inmediato y la persiste; si el almacén falla
// recarga el tablero desde el almacén y devuelve el error.
func (s *Service) UpdateOrder(ctx context.Context, userID, id string, in dto.UpdateOrderRequest) (*entity.Order, error) {
	st := s.stateFor(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	prevTable, tracked := 0, false
	if st.loaded {
		if i := st.indexActive(id); i >= 0 {
			prevTable, tracked = tableNumber(st.active[i]), true
			edited := *st.active[i]
			if err := orders.ApplyInput(&edited, in); err != nil {
				return nil, err
			}
			st.active[i] = &edited
		}
	}
	o, err := s.cmds.Update(ctx, userID, id, in)
	if err != nil {
		if st.loaded {
			if rerr := s.reload(ctx, userID, st); rerr != nil {
				s.log.Error().Err(rerr).Str("user_id", userID).Msg("recarga tras edición fallida")
				st.loaded = false
			}
		}
		return nil, err
	}
	if st.loaded {
		if i := st.indexActive(id); i >= 0 {
			st.active[i] = o
		}
		if next := tableNumber(o); tracked && next != prevTable && !o.Column.Terminal() {
			st.setTableStatus(prevTable, entity.TableFree)
			st.setTableStatus(next, entity.TableOccupied)
		}
	}
	return o, nil
}

// RenameColumn cambia el título visible de una columna (solo en memoria).
func (s *Service) RenameColumn(userID string, column entity.Column, title string) error {
	if !column.Valid() {
		return fmt.Errorf("columna %q: %w", column, domain.ErrInvalidInput)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("título vacío: %w", domain.ErrInvalidInput)
	}
	st := s.stateFor(userID)
	st.mu.Lock()
	st.titles[column] = title
	st.mu.Unlock()
	return nil
}

// ── estado ──────────────────────────────────────────────────────────────────

func (st *state) indexActive(id string) int {
	for i, o := range st.active {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (st *state) removeActive(id string) {
	if i := st.indexActive(id); i >= 0 {
		st.active = append(st.active[:i], st.active[i+1:]...)
	}
}

func (st *state) sortActive() {
	sort.SliceStable(st.active, func(i, j int) bool { return st.active[i].CreatedAt.Before(st.active[j].CreatedAt) })
}

func (st *state) setTableStatus(number int, status entity.TableStatus) {
	for _, t := range st.tables {
		if t.Number == number {
			t.Status = status
			return
		}
	}
}

func tableNumber(o *entity.Order) int {
	if !o.HasTable() {
		return 0
	}
	return *o.TableNumber
}

func (st *state) snapshot() *dto.BoardResponse {
	byColumn := map[entity.Column][]*entity.Order{}
	for _, o := range st.active {
		byColumn[o.Column] = append(byColumn[o.Column], o)
	}
	byColumn[entity.ColumnFinalizados] = st.finalized

	resp := &dto.BoardResponse{
		Columns:          make([]dto.BoardColumn, 0, len(entity.Columns)),
		Tables:           dto.FromTables(st.tables),
		Stats:            dto.FromDailyStats(st.stats),
		NeedsCashOpening: st.stats == nil,
		NextOrderNumber:  st.lastNum + 1,
	}
	for _, c := range entity.Columns {
		title, ok := st.titles[c]
		if !ok {
			title = c.DefaultTitle()
		}
		resp.Columns = append(resp.Columns, dto.BoardColumn{ID: string(c), Title: title, Orders: dto.FromOrders(byColumn[c])})
	}
	return resp
}
