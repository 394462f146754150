package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/application/apptest"
	"github.com/jhoicas/balcao-digital-api/internal/application/auth"
	"github.com/jhoicas/balcao-digital-api/internal/application/board"
	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/orders"
	"github.com/jhoicas/balcao-digital-api/internal/application/report"
	"github.com/jhoicas/balcao-digital-api/internal/application/stats"
	"github.com/jhoicas/balcao-digital-api/internal/application/tables"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	apphttp "github.com/jhoicas/balcao-digital-api/internal/interfaces/http"
)

type fakeDocs struct{}

func (fakeDocs) GenerateOrderInvoice(_ context.Context, o *entity.Order, _ string) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF nota %d", o.OrderNumber)), nil
}

func (fakeDocs) GenerateDailyReport(_ context.Context, r *dto.DailyReport) ([]byte, error) {
	return []byte("%PDF " + r.Date), nil
}

func (fakeDocs) ExportDailyReport(r *dto.DailyReport) ([]byte, error) {
	return []byte("<FechamentoDiario data=\"" + r.Date + "\"/>"), nil
}

type fakeCEP struct{}

func (fakeCEP) Lookup(_ context.Context, cep string) (*dto.CEPAddress, error) {
	if cep == "01001000" {
		return &dto.CEPAddress{CEP: "01001-000", Street: "Praça da Sé, Sé", City: "São Paulo", State: "SP"}, nil
	}
	return nil, domain.ErrNotFound
}

type apiFixture struct {
	app      *fiber.App
	store    *apptest.Store
	notifier *apptest.Notifier
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := apptest.NewStore()
	notifier := &apptest.Notifier{}

	statsUC := stats.NewUseCase(store, store.Stats(), store.Orders(), stats.Config{Location: time.UTC, ResetHour: 17}, nil).WithClock(clock)
	ordersUC := orders.NewUseCase(store, store.Orders(), statsUC, notifier, nil).WithClock(clock)
	gen := report.Generators{DailyPDF: fakeDocs{}, DailyXML: fakeDocs{}, InvoicePDF: fakeDocs{}}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		Board:     board.NewService(ordersUC, statsUC, store.Orders(), store.Tables(), nil),
		OrdersUC:  ordersUC,
		TablesUC:  tables.NewUseCase(store, store.Tables(), nil),
		StatsUC:   statsUC,
		ReportUC:  report.NewUseCase(store.Orders(), store.Stats(), store.Users(), gen, time.UTC).WithClock(clock),
		CEP:       fakeCEP{},
		JWTSecret: testJWTSecret,
	})
	return &apiFixture{app: app, store: store, notifier: notifier}
}

// call hace la petición y decodifica la respuesta JSON en out (si no es nil).
func (f *apiFixture) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, out), string(raw))
		}
	}
	return resp.StatusCode
}

func TestAuth_RegistroLoginMe(t *testing.T) {
	f := newAPI(t)
	reg := map[string]string{"email": "Ana@Balcao.com", "password": "segredo", "first_name": "ana", "last_name": "souza"}

	var user dto.UserResponse
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/auth/register", "", reg, &user))
	assert.Equal(t, "ana@balcao.com", user.Email)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPost, "/api/auth/register", "", reg, &errResp))
	assert.Equal(t, "Este email já está cadastrado", errResp.Message)

	bad := map[string]string{"email": "ana@balcao.com", "password": "errada"}
	assert.Equal(t, http.StatusUnauthorized, f.call(t, http.MethodPost, "/api/auth/login", "", bad, &errResp))
	assert.Equal(t, "Email ou senha incorretos", errResp.Message)

	var login dto.LoginResponse
	ok := map[string]string{"email": "ana@balcao.com", "password": "segredo"}
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/auth/login", "", ok, &login))
	require.NotEmpty(t, login.Token)

	var me dto.UserResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil, &me))
	assert.Equal(t, user.ID, me.ID)
}

func TestAuth_PasswordCorto(t *testing.T) {
	f := newAPI(t)
	reg := map[string]string{"email": "ana@balcao.com", "password": "123"}
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/auth/register", "", reg, nil))
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	f := newAPI(t)
	for _, path := range []string{"/api/board", "/api/orders", "/api/tables", "/api/stats/today", "/api/cep/01001000"} {
		assert.Equal(t, http.StatusUnauthorized, f.call(t, http.MethodGet, path, "", nil, nil), path)
	}
}

func TestFlujo_MesaPedidoFinalizacion(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	var tbl dto.TablesResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/tables/configure", tok, dto.ConfigureTablesRequest{Count: 3}, &tbl))
	assert.Equal(t, 3, tbl.Summary.Free)

	var cash dto.DailyStatsResponse
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/stats/cash-opening", tok, map[string]any{"initial_amount": "100"}, &cash))
	assert.Equal(t, "100", cash.CashInitial.String())

	order := map[string]any{"name": "Ana", "description": "2 pastéis", "total": "25.50", "phone": "(11) 91234-5678", "table_number": 1}
	var created dto.OrderResponse
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/orders", tok, order, &created))
	assert.Equal(t, 1, created.OrderNumber)
	assert.Equal(t, "pedidos", created.Column)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPost, "/api/orders", tok, order, &errResp))
	assert.Equal(t, "TABLE_OCCUPIED", errResp.Code)

	var moved dto.MoveOrderResponse
	path := "/api/orders/" + created.ID + "/move"
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, path, tok, dto.MoveOrderRequest{Column: "finalizados"}, &moved))
	assert.True(t, moved.Finalized)
	assert.NotNil(t, moved.Order.CompletedAt)
	// pedido de mesa: sin aviso
	assert.Nil(t, moved.Notification)

	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPost, path, tok, dto.MoveOrderRequest{Column: "pedidos"}, &errResp))
	assert.Equal(t, "ORDER_FINALIZED", errResp.Code)

	var b dto.BoardResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/board", tok, nil, &b))
	assert.False(t, b.NeedsCashOpening)
	assert.Equal(t, 3, b.Tables.Summary.Free)
	require.NotNil(t, b.Stats)
	assert.Equal(t, "125.5", b.Stats.CashCurrent.String())
	for _, col := range b.Columns {
		if col.ID == "finalizados" {
			assert.Len(t, col.Orders, 1)
		}
	}
}

func TestMover_RetiroDevuelveLinkWhatsApp(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	var created dto.OrderResponse
	order := map[string]any{"name": "João", "description": "açaí", "total": 18, "phone": "11912345678"}
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/orders", tok, order, &created))

	var moved dto.MoveOrderResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/orders/"+created.ID+"/move", tok, dto.MoveOrderRequest{Column: "finalizados"}, &moved))
	require.NotNil(t, moved.Notification)
	assert.Equal(t, "pickup", moved.Notification.Kind)
	assert.Contains(t, moved.Notification.Link, "https://wa.me/5511912345678?text=")
	assert.True(t, moved.Notification.Sent)
	assert.Len(t, f.notifier.Messages(), 1)
}

func TestPedidos_ValidacionYBusqueda(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/orders", tok, map[string]any{"name": "", "description": "x", "total": 1}, nil))
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/orders", tok, map[string]any{"name": "Ana", "description": "x", "total": 1, "table_number": 9}, nil))

	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/orders", tok, map[string]any{"name": "Conceição", "description": "coxinha", "total": 7}, nil))
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/orders", tok, map[string]any{"name": "Pedro", "description": "pastel", "total": 9}, nil))

	var list dto.OrderListResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/orders?q=conceicao", tok, nil, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Conceição", list.Items[0].Name)

	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/api/orders/no-existe", tok, nil, nil))
}

func TestIDMalFormado_Devuelve404(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)
	order := map[string]any{"name": "Ana", "description": "pastel", "total": 9}

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/orders/123", nil},
		{http.MethodPut, "/api/orders/123", order},
		{http.MethodPost, "/api/orders/123/move", dto.MoveOrderRequest{Column: "pronto"}},
		{http.MethodPost, "/api/orders/123/notify", nil},
		{http.MethodGet, "/api/orders/123/invoice.pdf", nil},
		{http.MethodPatch, "/api/tables/123/status", dto.SetTableStatusRequest{Status: "reserved"}},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var resp dto.ErrorResponse
			assert.Equal(t, http.StatusNotFound, f.call(t, tc.method, tc.path, tok, tc.body, &resp))
			assert.Equal(t, "NOT_FOUND", resp.Code)
		})
	}
}

func TestReportesYNota(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	var created dto.OrderResponse
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/orders", tok, map[string]any{"name": "Ana", "description": "pastel", "total": 10, "payment_method": "pix"}, &created))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID+"/invoice.pdf", nil)
	req.Header.Set("Authorization", tok)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF nota 1", string(body))

	var rep dto.DailyReport
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/reports/daily", tok, nil, &rep))
	assert.Equal(t, "2026-03-10", rep.Date)

	req = httptest.NewRequest(http.MethodGet, "/api/reports/daily.xml", nil)
	req.Header.Set("Authorization", tok)
	resp, err = f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `data="2026-03-10"`)
}

func TestMesas_EstadoManual(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	var tbl dto.TablesResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/tables/configure", tok, dto.ConfigureTablesRequest{Count: 2}, &tbl))
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/tables/configure", tok, dto.ConfigureTablesRequest{Count: 101}, nil))

	var one dto.TableResponse
	path := "/api/tables/" + tbl.Items[0].ID + "/status"
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPatch, path, tok, dto.SetTableStatusRequest{Status: "reserved"}, &one))
	assert.Equal(t, "reserved", one.Status)

	assert.Equal(t, http.StatusNoContent, f.call(t, http.MethodDelete, "/api/tables", tok, nil, nil))
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/tables", tok, nil, &tbl))
	assert.Equal(t, 0, tbl.Summary.Total)
}

func TestStats_HoySinCajaYReset(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	assert.Equal(t, http.StatusNoContent, f.call(t, http.MethodGet, "/api/stats/today", tok, nil, nil))
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/stats/cash-opening", tok, map[string]any{"initial_amount": "-1"}, nil))

	var rc dto.ResetCheckResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/stats/reset-check", tok, nil, &rc))
	assert.False(t, rc.Reset)
}

func TestCEP(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	var addr dto.CEPAddress
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/cep/01001000", tok, nil, &addr))
	assert.Equal(t, "SP", addr.State)
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/api/cep/99999999", tok, nil, nil))
}

func TestBoard_RenombrarColumna(t *testing.T) {
	f := newAPI(t)
	tok := bearer(t, testUserID)

	var b dto.BoardResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/board/columns/pronto", tok, dto.RenameColumnRequest{Title: "Saiu"}, &b))
	for _, col := range b.Columns {
		if col.ID == "pronto" {
			assert.Equal(t, "Saiu", col.Title)
		}
	}
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPut, "/api/board/columns/lixo", tok, dto.RenameColumnRequest{Title: "x"}, nil))
}
