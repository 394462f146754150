// Package report arma el cierre diario y la nota de pedido.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/domain/daily"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/domain/repository"
	"github.com/jhoicas/balcao-digital-api/pkg/money"
)

// paymentOrder orden de las formas de pago en el desglose; PaymentNone agrupa "no informado".
var paymentOrder = []entity.PaymentMethod{
	entity.PaymentPix, entity.PaymentCash, entity.PaymentDebit, entity.PaymentCredit, entity.PaymentNone,
}

// UseCase reportes del usuario.
type UseCase struct {
	orders repository.OrderRepository
	stats  repository.DailyStatsRepository
	users  repository.UserRepository
	pdf    ports.DailyReportPDF
	xml    ports.DailyReportXML
	notes  ports.OrderInvoicePDF
	loc    *time.Location
	now    func() time.Time
}

// Generators adaptadores de documentos.
type Generators struct {
	DailyPDF   ports.DailyReportPDF
	DailyXML   ports.DailyReportXML
	InvoicePDF ports.OrderInvoicePDF
}

// NewUseCase construye el caso de uso. loc nil usa time.Local.
func NewUseCase(orders repository.OrderRepository, stats repository.DailyStatsRepository, users repository.UserRepository, gen Generators, loc *time.Location) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	return &UseCase{
		orders: orders,
		stats:  stats,
		users:  users,
		pdf:    gen.DailyPDF,
		xml:    gen.DailyXML,
		notes:  gen.InvoicePDF,
		loc:    loc,
		now:    time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Daily cierre del día: pedidos finalizados dentro de la ventana del día (desde el último reset).
func (uc *UseCase) Daily(ctx context.Context, userID string) (*dto.DailyReport, error) {
	now := uc.now().In(uc.loc)
	s, err := uc.stats.GetByDate(ctx, userID, daily.DateKey(now))
	if err != nil {
		return nil, err
	}
	w := daily.RevenueWindow(now, s)
	finalized, err := uc.orders.ListFinalized(ctx, userID, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	r := Build(finalized, s, now)
	if uc.users != nil {
		if u, err := uc.users.GetByID(ctx, userID); err == nil && u != nil {
			r.Owner = u.DisplayName()
		}
	}
	return r, nil
}

// Build agrega los pedidos finalizados en el reporte. Sin pedidos, promedios en cero.
func Build(finalized []*entity.Order, s *entity.DailyStats, now time.Time) *dto.DailyReport {
	r := &dto.DailyReport{
		Date:             daily.DateKey(now),
		GeneratedAt:      now,
		FinalizedRevenue: decimal.Zero,
		AverageTicket:    decimal.Zero,
		CashInitial:      decimal.Zero,
		CashCurrent:      decimal.Zero,
		Orders:           dto.FromOrders(finalized),
	}
	if s != nil {
		r.CashInitial = s.CashInitial
		r.CashCurrent = s.CashCurrent
	}

	byMethod := map[entity.PaymentMethod]*dto.PaymentBreakdown{}
	var processing time.Duration
	for _, o := range finalized {
		r.FinalizedRevenue = r.FinalizedRevenue.Add(o.Total)
		r.FinalizedOrders++
		processing += o.ProcessingTime()

		b, ok := byMethod[o.PaymentMethod]
		if !ok {
			label := o.PaymentMethod.Label()
			if label == "" {
				label = "Não informado"
			}
			b = &dto.PaymentBreakdown{Method: string(o.PaymentMethod), Label: label, Revenue: decimal.Zero}
			byMethod[o.PaymentMethod] = b
		}
		b.Count++
		b.Revenue = b.Revenue.Add(o.Total)
	}
	r.Payments = make([]dto.PaymentBreakdown, 0, len(byMethod))
	for _, m := range paymentOrder {
		if b, ok := byMethod[m]; ok {
			r.Payments = append(r.Payments, *b)
		}
	}

	var avg time.Duration
	if r.FinalizedOrders > 0 {
		n := decimal.NewFromInt(int64(r.FinalizedOrders))
		r.AverageTicket = r.FinalizedRevenue.DivRound(n, 2)
		avg = processing / time.Duration(r.FinalizedOrders)
	}
	r.AverageProcessing = money.FormatDuration(avg)
	r.AverageProcessingSecs = int64(avg / time.Second)
	return r
}

// DailyPDF cierre del día en PDF.
func (uc *UseCase) DailyPDF(ctx context.Context, userID string) ([]byte, error) {
	r, err := uc.Daily(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateDailyReport(ctx, r)
}

// DailyXML cierre del día en XML.
func (uc *UseCase) DailyXML(ctx context.Context, userID string) ([]byte, error) {
	r, err := uc.Daily(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.xml.ExportDailyReport(r)
}

// OrderInvoice nota de pedido en PDF.
func (uc *UseCase) OrderInvoice(ctx context.Context, userID, orderID string) ([]byte, *entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, fmt.Errorf("pedido %s: %w", orderID, domain.ErrNotFound)
	}
	issuer := ""
	if uc.users != nil {
		if u, err := uc.users.GetByID(ctx, userID); err == nil && u != nil {
			issuer = u.DisplayName()
		}
	}
	b, err := uc.notes.GenerateOrderInvoice(ctx, o, issuer)
	if err != nil {
		return nil, nil, err
	}
	return b, o, nil
}
