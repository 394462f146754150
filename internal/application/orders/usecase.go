// Package orders implementa los casos de uso de pedidos: alta, edición, movimiento en el
// tablero con sus efectos (mesa, estadísticas, aviso al cliente) y búsqueda.
package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/kanban"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
	"github.com/jhoicas/balcao-digital-api/pkg/money"
	"github.com/jhoicas/balcao-digital-api/pkg/textutil"
	"github.com/jhoicas/balcao-digital-api/pkg/whatsapp"
)

// StatsSyncer recalcula las estadísticas del día después de una finalización.
type StatsSyncer interface {
	SyncStats(ctx context.Context, userID string) error
}

// Notification aviso que corresponde a un pedido.
type Notification struct {
	Kind    string
	Message string
	Link    string
	Sent    bool
}

// MoveResult pedido resultante más el aviso, si corresponde.
type MoveResult struct {
	Order        *entity.Order
	Transition   kanban.Transition
	Notification *Notification
}

// UseCase casos de uso de pedidos.
type UseCase struct {
	tx       ports.TxRunner
	orders   repository.OrderRepository
	stats    StatsSyncer
	notifier ports.Notifier
	now      func() time.Time
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, orders repository.OrderRepository, stats StatsSyncer, notifier ports.Notifier, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{tx: tx, orders: orders, stats: stats, notifier: notifier, now: time.Now, log: log.Component("orders")}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create registra un pedido en "pedidos". Si indica mesa, la ocupa en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	now := uc.now()
	o := &entity.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Column:    entity.ColumnPedidos,
		CardColor: entity.CardColors[rand.IntN(len(entity.CardColors))],
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ApplyInput(o, in); err != nil {
		return nil, err
	}

	err := uc.tx.Run(ctx, func(orders repository.OrderRepository, tables repository.TableRepository, _ repository.DailyStatsRepository) error {
		if o.HasTable() {
			if err := occupyTable(ctx, tables, userID, *o.TableNumber, now); err != nil {
				return err
			}
		}
		n, err := orders.NextOrderNumber(ctx, userID)
		if err != nil {
			return err
		}
		o.OrderNumber = n
		return orders.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Int("order_number", o.OrderNumber).Msg("pedido creado")
	return o, nil
}

// Update reemplaza los campos editables del pedido (last-write-wins). Si un pedido activo
// cambia de mesa, en la misma transacción ocupa la nueva (ErrTableOccupied si no está libre)
// y libera la anterior.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.UpdateOrderRequest) (*entity.Order, error) {
	o, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	prevTable := tableOf(o)
	if err := ApplyInput(o, in); err != nil {
		return nil, err
	}
	o.UpdatedAt = uc.now()
	nextTable := tableOf(o)

	if prevTable == nextTable || o.Column.Terminal() {
		if err := uc.orders.Update(ctx, o); err != nil {
			return nil, err
		}
		return o, nil
	}

	err = uc.tx.Run(ctx, func(orders repository.OrderRepository, tables repository.TableRepository, _ repository.DailyStatsRepository) error {
		if nextTable > 0 {
			if err := occupyTable(ctx, tables, userID, nextTable, o.UpdatedAt); err != nil {
				return err
			}
		}
		if prevTable > 0 {
			if err := releaseTable(ctx, tables, userID, prevTable, o.UpdatedAt); err != nil {
				return err
			}
		}
		return orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Int("order_number", o.OrderNumber).
		Int("from_table", prevTable).Int("to_table", nextTable).Msg("pedido cambió de mesa")
	return o, nil
}

// Move mueve el pedido a otra columna. Pedido y mesa se actualizan en una transacción;
// recién después del commit se sincronizan estadísticas y se envía el aviso, cuyos fallos
// solo se registran.
func (uc *UseCase) Move(ctx context.Context, userID, id string, target entity.Column) (*MoveResult, error) {
	cur, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	moved, tr, err := kanban.Move(*cur, target, uc.now())
	if err != nil {
		return nil, err
	}
	res := &MoveResult{Order: &moved, Transition: tr}
	if tr.NoOp {
		return res, nil
	}

	err = uc.tx.Run(ctx, func(orders repository.OrderRepository, tables repository.TableRepository, _ repository.DailyStatsRepository) error {
		if err := orders.Update(ctx, &moved); err != nil {
			return err
		}
		if tr.ReleasedTable == nil {
			return nil
		}
		return releaseTable(ctx, tables, userID, *tr.ReleasedTable, moved.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	if tr.Finalized {
		uc.log.Info().Str("user_id", userID).Int("order_number", moved.OrderNumber).Msg("pedido finalizado")
		if uc.stats != nil {
			if err := uc.stats.SyncStats(ctx, userID); err != nil {
				uc.log.Error().Err(err).Str("user_id", userID).Msg("sincronizar estadísticas tras finalizar")
			}
		}
		if tr.Notice.Kind != kanban.NoticeNone {
			res.Notification = uc.dispatch(ctx, &moved, string(tr.Notice.Kind), tr.Notice.Message)
		}
	}
	return res, nil
}

// StatusNotification arma el mensaje manual según la columna actual del pedido.
// send=true además lo envía por el canal configurado.
func (uc *UseCase) StatusNotification(ctx context.Context, userID, id string, send bool) (*Notification, error) {
	o, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !o.HasPhone() {
		return nil, fmt.Errorf("pedido #%d sin teléfono: %w", o.OrderNumber, domain.ErrInvalidInput)
	}
	msg := kanban.StatusMessage(o.Column)
	if !send {
		return &Notification{Kind: "status", Message: msg, Link: whatsapp.Link(o.Phone, msg)}, nil
	}
	return uc.dispatch(ctx, o, "status", msg), nil
}

func (uc *UseCase) dispatch(ctx context.Context, o *entity.Order, kind, message string) *Notification {
	n := &Notification{Kind: kind, Message: message, Link: whatsapp.Link(o.Phone, message)}
	if uc.notifier == nil {
		return n
	}
	err := uc.notifier.Notify(ctx, ports.WhatsAppMessage{
		UserID:      o.UserID,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Kind:        kind,
		Phone:       whatsapp.Normalize(o.Phone),
		Text:        message,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Str("kind", kind).Msg("aviso por WhatsApp no enviado")
		return n
	}
	n.Sent = true
	return n
}

// Get pedido del usuario; ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, userID, id string) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("pedido %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

// List historial del usuario, filtrado por q (sin distinguir acentos ni mayúsculas) sobre
// nombre, descripción, teléfono y número.
func (uc *UseCase) List(ctx context.Context, userID, q string) ([]*entity.Order, error) {
	all, err := uc.orders.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return all, nil
	}
	var out []*entity.Order
	for _, o := range all {
		if textutil.ContainsFold(o.Name, q) || textutil.ContainsFold(o.Description, q) ||
			strings.Contains(o.Phone, q) || strconv.Itoa(o.OrderNumber) == strings.TrimPrefix(q, "#") {
			out = append(out, o)
		}
	}
	return out, nil
}

// ApplyInput valida y copia los campos editables sobre o. Ante error o queda intacto.
func ApplyInput(o *entity.Order, in dto.CreateOrderRequest) error {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" || desc == "" {
		return fmt.Errorf("nombre y descripción son obligatorios: %w", domain.ErrInvalidInput)
	}
	if !in.Total.IsPositive() {
		return fmt.Errorf("el total debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	payment := entity.PaymentMethod(strings.ToLower(strings.TrimSpace(in.PaymentMethod)))
	if !payment.Valid() {
		return fmt.Errorf("forma de pago %q: %w", in.PaymentMethod, domain.ErrInvalidInput)
	}
	if in.TableNumber != nil && *in.TableNumber < 0 {
		return fmt.Errorf("mesa %d: %w", *in.TableNumber, domain.ErrInvalidInput)
	}

	o.Name = name
	o.Description = desc
	o.Total = in.Total.Round(2)
	o.PaymentMethod = payment
	o.Phone = strings.TrimSpace(in.Phone)
	o.TableNumber = nil
	if in.TableNumber != nil && *in.TableNumber > 0 {
		n := *in.TableNumber
		o.TableNumber = &n
	}
	o.ReceivedAmount = positive(in.ReceivedAmount)
	o.Change = nil
	switch {
	case in.Change != nil && !in.Change.IsNegative():
		c := in.Change.Round(2)
		o.Change = &c
	case o.ReceivedAmount != nil:
		if c, ok := money.Change(o.Total, *o.ReceivedAmount); ok {
			o.Change = &c
		}
	}
	o.Address = nil
	if in.Address != nil {
		a := &entity.Address{
			Street:    strings.TrimSpace(in.Address.Street),
			Number:    strings.TrimSpace(in.Address.Number),
			CEP:       strings.TrimSpace(in.Address.CEP),
			Reference: strings.TrimSpace(in.Address.Reference),
		}
		if !a.IsEmpty() {
			o.Address = a
		}
	}
	return nil
}

func tableOf(o *entity.Order) int {
	if !o.HasTable() {
		return 0
	}
	return *o.TableNumber
}

func occupyTable(ctx context.Context, tables repository.TableRepository, userID string, number int, at time.Time) error {
	t, err := tables.GetByNumber(ctx, userID, number)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("mesa %d no existe: %w", number, domain.ErrInvalidInput)
	}
	if err := t.Occupy(); err != nil {
		return err
	}
	t.UpdatedAt = at
	return tables.UpdateStatus(ctx, t)
}

func releaseTable(ctx context.Context, tables repository.TableRepository, userID string, number int, at time.Time) error {
	t, err := tables.GetByNumber(ctx, userID, number)
	if err != nil || t == nil {
		// mesa borrada por reconfiguración: no hay nada que liberar
		return err
	}
	t.Release()
	t.UpdatedAt = at
	return tables.UpdateStatus(ctx, t)
}

func positive(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || !d.IsPositive() {
		return nil
	}
	v := d.Round(2)
	return &v
}
