package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/application/apptest"
	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/orders"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/kanban"
)

const userID = "user-1"

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type syncSpy struct {
	calls int
	err   error
}

func (s *syncSpy) SyncStats(context.Context, string) error {
	s.calls++
	return s.err
}

type fixture struct {
	store    *apptest.Store
	notifier *apptest.Notifier
	sync     *syncSpy
	uc       *orders.UseCase
}

func newFixture() *fixture {
	f := &fixture{store: apptest.NewStore(), notifier: &apptest.Notifier{}, sync: &syncSpy{}}
	f.uc = orders.NewUseCase(f.store, f.store.Orders(), f.sync, f.notifier, nil).
		WithClock(func() time.Time { return now })
	f.store.PutTable(entity.Table{ID: "t1", UserID: userID, Number: 1, Capacity: 4, Status: entity.TableFree})
	f.store.PutTable(entity.Table{ID: "t2", UserID: userID, Number: 2, Capacity: 4, Status: entity.TableOccupied})
	return f
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func intPtr(n int) *int { return &n }

func baseRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{Name: " Ana ", Description: "X-burger", Total: decimal.RequireFromString("25.50")}
}

func TestCreate_CamposYNumeracion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := baseRequest()
	in.PaymentMethod = "dinheiro"
	in.ReceivedAmount = dec("30")
	in.Address = &dto.AddressDTO{Street: " ", Number: ""}

	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)
	assert.Equal(t, "Ana", o.Name)
	assert.Equal(t, entity.ColumnPedidos, o.Column)
	assert.Equal(t, 1, o.OrderNumber)
	assert.Nil(t, o.Address, "dirección vacía no se guarda")
	require.NotNil(t, o.Change)
	assert.Equal(t, "4.5", o.Change.String())
	assert.Contains(t, entity.CardColors, o.CardColor)
	assert.Nil(t, o.CompletedAt)

	o2, err := f.uc.Create(ctx, userID, baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, o2.OrderNumber)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := map[string]func(*dto.CreateOrderRequest){
		"sin nombre":    func(r *dto.CreateOrderRequest) { r.Name = "  " },
		"sin desc":      func(r *dto.CreateOrderRequest) { r.Description = "" },
		"total cero":    func(r *dto.CreateOrderRequest) { r.Total = decimal.Zero },
		"pago invalido": func(r *dto.CreateOrderRequest) { r.PaymentMethod = "cheque" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := baseRequest()
			mutate(&in)
			_, err := f.uc.Create(ctx, userID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, f.store.OrderCount())
}

func TestCreate_OcupaMesa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := baseRequest()
	in.TableNumber = intPtr(1)
	_, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)
	tb, _ := f.store.Table("t1")
	assert.Equal(t, entity.TableOccupied, tb.Status)

	in.TableNumber = intPtr(2)
	_, err = f.uc.Create(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrTableOccupied)

	in.TableNumber = intPtr(9)
	_, err = f.uc.Create(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 1, f.store.OrderCount())
}

func TestCreate_FalloAlGuardarNoOcupaMesa(t *testing.T) {
	f := newFixture()
	f.store.FailOn["orders.Create"] = nil

	in := baseRequest()
	in.TableNumber = intPtr(1)
	_, err := f.uc.Create(context.Background(), userID, in)
	require.Error(t, err)

	tb, _ := f.store.Table("t1")
	assert.Equal(t, entity.TableFree, tb.Status)
}

func TestMove_FinalizarDeliveryNotificaYLiberaMesa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := baseRequest()
	in.Phone = "(11) 91234-5678"
	in.Address = &dto.AddressDTO{Street: "Rua das Flores", Number: "10"}
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)

	res, err := f.uc.Move(ctx, userID, o.ID, entity.ColumnPreparando)
	require.NoError(t, err)
	assert.Nil(t, res.Notification)
	assert.Zero(t, f.sync.calls)

	res, err = f.uc.Move(ctx, userID, o.ID, entity.ColumnFinalizados)
	require.NoError(t, err)
	assert.True(t, res.Transition.Finalized)
	require.NotNil(t, res.Order.CompletedAt)
	require.NotNil(t, res.Notification)
	assert.Equal(t, string(kanban.NoticeDelivery), res.Notification.Kind)
	assert.True(t, res.Notification.Sent)
	assert.Contains(t, res.Notification.Link, "https://wa.me/5511912345678?text=")
	assert.Equal(t, 1, f.sync.calls)

	sent := f.notifier.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, kanban.MessageDelivery, sent[0].Text)
	assert.Equal(t, "5511912345678", sent[0].Phone)

	stored, _ := f.store.Order(o.ID)
	assert.Equal(t, entity.ColumnFinalizados, stored.Column)

	_, err = f.uc.Move(ctx, userID, o.ID, entity.ColumnPedidos)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMove_FinalizarPedidoDeMesa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := baseRequest()
	in.TableNumber = intPtr(1)
	in.Phone = "11912345678"
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)

	res, err := f.uc.Move(ctx, userID, o.ID, entity.ColumnFinalizados)
	require.NoError(t, err)
	assert.Nil(t, res.Notification)
	assert.Empty(t, f.notifier.Messages())

	tb, _ := f.store.Table("t1")
	assert.Equal(t, entity.TableFree, tb.Status)
}

func TestMove_FalloDelAvisoNoRevierte(t *testing.T) {
	f := newFixture()
	f.notifier.Err = errors.New("twilio caído")
	f.sync.err = errors.New("db lenta")
	ctx := context.Background()

	in := baseRequest()
	in.Phone = "11912345678"
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)

	res, err := f.uc.Move(ctx, userID, o.ID, entity.ColumnFinalizados)
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.Equal(t, string(kanban.NoticePickup), res.Notification.Kind)
	assert.False(t, res.Notification.Sent)
	assert.NotEmpty(t, res.Notification.Link)

	stored, _ := f.store.Order(o.ID)
	assert.Equal(t, entity.ColumnFinalizados, stored.Column)
}

func TestMove_FalloDelStoreDejaTodoIgual(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := baseRequest()
	in.TableNumber = intPtr(1)
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)

	f.store.FailOn["tables.UpdateStatus"] = nil
	_, err = f.uc.Move(ctx, userID, o.ID, entity.ColumnFinalizados)
	require.Error(t, err)

	stored, _ := f.store.Order(o.ID)
	assert.Equal(t, entity.ColumnPedidos, stored.Column)
	assert.Nil(t, stored.CompletedAt)
	assert.Zero(t, f.sync.calls)
}

func TestMove_NoEncontrado(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Move(context.Background(), userID, "nope", entity.ColumnPronto)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CamposSinMesa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.uc.Create(ctx, userID, baseRequest())
	require.NoError(t, err)

	in := baseRequest()
	in.Name = "Bruno"
	in.Total = decimal.NewFromInt(40)
	updated, err := f.uc.Update(ctx, userID, o.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", updated.Name)
	assert.Equal(t, entity.ColumnPedidos, updated.Column)

	tb, _ := f.store.Table("t1")
	assert.Equal(t, entity.TableFree, tb.Status)

	_, err = f.uc.Update(ctx, "otro", o.ID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CambioDeMesaMueveLaOcupacion(t *testing.T) {
	f := newFixture()
	f.store.PutTable(entity.Table{ID: "t3", UserID: userID, Number: 3, Capacity: 4, Status: entity.TableFree})
	ctx := context.Background()

	in := baseRequest()
	in.TableNumber = intPtr(1)
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)

	in.TableNumber = intPtr(3)
	_, err = f.uc.Update(ctx, userID, o.ID, in)
	require.NoError(t, err)
	t1, _ := f.store.Table("t1")
	t3, _ := f.store.Table("t3")
	assert.Equal(t, entity.TableFree, t1.Status)
	assert.Equal(t, entity.TableOccupied, t3.Status)

	in.TableNumber = nil
	_, err = f.uc.Update(ctx, userID, o.ID, in)
	require.NoError(t, err)
	t3, _ = f.store.Table("t3")
	assert.Equal(t, entity.TableFree, t3.Status)

	in.TableNumber = intPtr(1)
	_, err = f.uc.Update(ctx, userID, o.ID, in)
	require.NoError(t, err)
	t1, _ = f.store.Table("t1")
	assert.Equal(t, entity.TableOccupied, t1.Status)
}

func TestUpdate_MesaDeOtroPedidoSigueOcupadaAlFinalizar(t *testing.T) {
	f := newFixture()
	f.store.PutTable(entity.Table{ID: "t3", UserID: userID, Number: 3, Capacity: 4, Status: entity.TableFree})
	ctx := context.Background()

	inA := baseRequest()
	inA.TableNumber = intPtr(1)
	a, err := f.uc.Create(ctx, userID, inA)
	require.NoError(t, err)
	inB := baseRequest()
	inB.Name = "Bruno"
	inB.TableNumber = intPtr(3)
	_, err = f.uc.Create(ctx, userID, inB)
	require.NoError(t, err)

	inA.TableNumber = intPtr(3)
	_, err = f.uc.Update(ctx, userID, a.ID, inA)
	assert.ErrorIs(t, err, domain.ErrTableOccupied)
	stored, _ := f.store.Order(a.ID)
	require.NotNil(t, stored.TableNumber)
	assert.Equal(t, 1, *stored.TableNumber)

	_, err = f.uc.Move(ctx, userID, a.ID, entity.ColumnFinalizados)
	require.NoError(t, err)
	t1, _ := f.store.Table("t1")
	t3, _ := f.store.Table("t3")
	assert.Equal(t, entity.TableFree, t1.Status)
	assert.Equal(t, entity.TableOccupied, t3.Status)
}

func TestUpdate_FalloAlGuardarNoCambiaMesas(t *testing.T) {
	f := newFixture()
	f.store.PutTable(entity.Table{ID: "t3", UserID: userID, Number: 3, Capacity: 4, Status: entity.TableFree})
	ctx := context.Background()

	in := baseRequest()
	in.TableNumber = intPtr(1)
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)

	f.store.FailOn["orders.Update"] = nil
	in.TableNumber = intPtr(3)
	_, err = f.uc.Update(ctx, userID, o.ID, in)
	require.Error(t, err)

	t1, _ := f.store.Table("t1")
	t3, _ := f.store.Table("t3")
	assert.Equal(t, entity.TableOccupied, t1.Status)
	assert.Equal(t, entity.TableFree, t3.Status)
}

func TestUpdate_PedidoFinalizadoNoTocaMesas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := baseRequest()
	in.TableNumber = intPtr(1)
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)
	_, err = f.uc.Move(ctx, userID, o.ID, entity.ColumnFinalizados)
	require.NoError(t, err)

	in.TableNumber = intPtr(2)
	_, err = f.uc.Update(ctx, userID, o.ID, in)
	require.NoError(t, err)
	t1, _ := f.store.Table("t1")
	t2, _ := f.store.Table("t2")
	assert.Equal(t, entity.TableFree, t1.Status)
	assert.Equal(t, entity.TableOccupied, t2.Status)
}

func TestList_BusquedaSinAcentos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := baseRequest()
	in.Name = "João"
	in.Description = "Açaí 500ml"
	_, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, userID, baseRequest())
	require.NoError(t, err)

	list, err := f.uc.List(ctx, userID, "acai")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "João", list[0].Name)

	list, err = f.uc.List(ctx, userID, "JOAO")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.uc.List(ctx, userID, "#2")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.uc.List(ctx, userID, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStatusNotification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := baseRequest()
	in.Phone = "11912345678"
	o, err := f.uc.Create(ctx, userID, in)
	require.NoError(t, err)
	_, err = f.uc.Move(ctx, userID, o.ID, entity.ColumnPronto)
	require.NoError(t, err)

	n, err := f.uc.StatusNotification(ctx, userID, o.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Seu pedido foi embalado 📦", n.Message)
	assert.False(t, n.Sent)
	assert.Empty(t, f.notifier.Messages())

	n, err = f.uc.StatusNotification(ctx, userID, o.ID, true)
	require.NoError(t, err)
	assert.True(t, n.Sent)

	sinFono, err := f.uc.Create(ctx, userID, baseRequest())
	require.NoError(t, err)
	_, err = f.uc.StatusNotification(ctx, userID, sinFono.ID, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
