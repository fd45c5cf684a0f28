package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/restocking"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

type fakePDF struct {
	got *report.StockReport
	err error
}

func (f *fakePDF) GenerateStockReportPDF(_ context.Context, r *report.StockReport) ([]byte, error) {
	f.got = r
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func seed(t *testing.T) (*memory.Store, *restocking.ThresholdUseCase) {
	t.Helper()
	store := memory.New()
	store.PutProduct(entity.Product{ID: "p1", Name: "Filtro", Category: "Parts", Price: decimal.RequireFromString("2.50"), Stock: 0})
	store.PutProduct(entity.Product{ID: "p2", Name: "Llave", Category: "Tools", Price: decimal.NewFromInt(10), Stock: 3})
	store.PutProduct(entity.Product{ID: "p3", Name: "Bujía", Category: "Parts", Price: decimal.NewFromInt(4), Stock: 12})
	return store, restocking.NewThresholdUseCase(store.Thresholds(), metrics.NewUnregistered())
}

func newService(store *memory.Store, th report.ThresholdSource, pdf report.ReportPDFGenerator) *report.Service {
	return report.NewService(store.Products(), store.Events(), th, pdf,
		report.Options{DefaultThreshold: 5, WindowDays: 30, Concurrency: 2}, logger.Nop())
}

func TestStockReport_ResumenYCategorias(t *testing.T) {
	store, th := seed(t)
	ctx := context.Background()
	now := time.Now()
	_, err := store.Events().Append(ctx, entity.NewStockEvent("p2", 5, 3, entity.EventTypeSale, now.Add(-time.Hour), "", ""))
	require.NoError(t, err)
	_, err = store.Events().Append(ctx, entity.NewStockEvent("p3", 0, 12, entity.EventTypeRestock, now.AddDate(0, 0, -60), "", ""))
	require.NoError(t, err)

	rep, err := newService(store, th, nil).StockReport(ctx, report.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Summary.TotalProducts)
	assert.Equal(t, 1, rep.Summary.OutOfStockCount)
	assert.Equal(t, 1, rep.Summary.LowStockCount)
	assert.InDelta(t, 5.0, rep.Summary.AverageStockLevel, 1e-9)
	assert.Equal(t, 1, rep.Summary.TotalStockChangeEvents, "el evento de hace 60 días queda fuera de la ventana")
	assert.True(t, decimal.NewFromInt(78).Equal(rep.Summary.InventoryValue))

	require.Contains(t, rep.Categories, "Parts")
	assert.Equal(t, 2, rep.Categories["Parts"].Count)
	assert.Equal(t, 12, rep.Categories["Parts"].TotalStock)
	assert.Equal(t, 1, rep.Categories["Parts"].OutOfStockCount)
	assert.Equal(t, 1, rep.Categories["Tools"].LowStockCount)

	byID := map[string]report.ProductLine{}
	for _, l := range rep.Products {
		byID[l.Product.ID] = l
	}
	assert.Equal(t, 1, byID["p2"].EventsInRange)
	assert.Equal(t, 0, byID["p3"].EventsInRange)
	assert.InDelta(t, 12.0, byID["p3"].Statistics.AverageStockLevel, 1e-9, "estadísticas con la historia completa")
	assert.WithinDuration(t, now.AddDate(0, 0, -30), rep.Range.From, time.Minute)
}

func TestStockReport_RangoInvertido(t *testing.T) {
	store, th := seed(t)
	now := time.Now()
	_, err := newService(store, th, nil).StockReport(context.Background(), report.DateRange{From: now, To: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStockReport_UmbralPorProducto(t *testing.T) {
	store, th := seed(t)
	_, err := th.Set(context.Background(), "p3", 20)
	require.NoError(t, err)

	rep, err := newService(store, th, nil).StockReport(context.Background(), report.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Summary.LowStockCount)
}

type failingThresholds struct{}

func (failingThresholds) Effective(context.Context, string, int) (int, error) {
	return 0, errors.New("timeout")
}

func TestStockReport_FalloDeUmbral(t *testing.T) {
	store, _ := seed(t)
	_, err := newService(store, failingThresholds{}, nil).StockReport(context.Background(), report.DateRange{})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestLowStockReport(t *testing.T) {
	store, th := seed(t)
	rep, err := newService(store, th, nil).LowStockReport(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rep.Products, 2)
	assert.Equal(t, "p1", rep.Products[0].Product.ID)
	assert.Equal(t, "p2", rep.Products[1].Product.ID)
	assert.Equal(t, 1, rep.Summary.OutOfStockCount)
	assert.Equal(t, 1, rep.Summary.LowStockCount)

	wide, err := newService(store, th, nil).LowStockReport(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, wide.Products, 3)
	assert.Equal(t, 100, wide.Products[2].Threshold)
}

func TestStockReportPDF(t *testing.T) {
	store, th := seed(t)
	pdf := &fakePDF{}
	doc, err := newService(store, th, pdf).StockReportPDF(context.Background(), report.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(doc))
	require.NotNil(t, pdf.got)
	assert.Len(t, pdf.got.Products, 3)

	_, err = newService(store, th, nil).StockReportPDF(context.Background(), report.DateRange{})
	assert.Error(t, err)

	_, err = newService(store, th, &fakePDF{err: errors.New("boom")}).StockReportPDF(context.Background(), report.DateRange{})
	assert.Error(t, err)
}
