package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/report"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/pdf"
)

func sampleOrder() *entity.Order {
	table := 3
	received := decimal.NewFromInt(50)
	change := decimal.RequireFromString("12.50")
	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	done := created.Add(25 * time.Minute)
	return &entity.Order{
		ID: "o-1", OrderNumber: 42, Name: "João", Description: "2x X-tudo\n1x Guaraná",
		Total: decimal.RequireFromString("37.50"), PaymentMethod: entity.PaymentCash,
		Phone: "11912345678", TableNumber: &table, ReceivedAmount: &received, Change: &change,
		Address: &entity.Address{Street: "Rua A", Number: "10", CEP: "01001-000", Reference: "portão azul"},
		Column: entity.ColumnFinalizados, CreatedAt: created, CompletedAt: &done,
	}
}

func TestGenerateOrderInvoice(t *testing.T) {
	b, err := pdf.NewMarotoPDFGenerator().GenerateOrderInvoice(context.Background(), sampleOrder(), "Lanchonete da Ana")
	require.NoError(t, err)
	assert.True(t, len(b) > 4 && string(b[:4]) == "%PDF")
}

func TestGenerateDailyReport(t *testing.T) {
	o := sampleOrder()
	r := report.Build([]*entity.Order{o}, nil, o.CompletedAt.Add(time.Hour))
	b, err := pdf.NewMarotoPDFGenerator().GenerateDailyReport(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))

	empty := report.Build(nil, nil, time.Now())
	empty.Payments = []dto.PaymentBreakdown{}
	_, err = pdf.NewMarotoPDFGenerator().GenerateDailyReport(context.Background(), empty)
	require.NoError(t, err)
}
