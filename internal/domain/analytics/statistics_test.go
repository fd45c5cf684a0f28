package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func onDay(n int) time.Time { return base.AddDate(0, 0, n-1) }

func ev(seq int64, typ entity.EventType, prev, next, dayN int) entity.StockEvent {
	e := entity.NewStockEvent("p1", prev, next, typ, onDay(dayN), "", "")
	e.Sequence = seq
	return e
}

// newestFirst invierte la lista como la devuelve el ledger.
func newestFirst(events ...entity.StockEvent) []entity.StockEvent {
	out := make([]entity.StockEvent, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}

func TestAnalyze_SinEventos_TodoEnCero(t *testing.T) {
	stats := Analyze(nil, base)
	assert.Equal(t, Statistics{}, stats)

	stats = Analyze([]entity.StockEvent{}, base)
	assert.Zero(t, stats.AverageStockLevel)
	assert.Zero(t, stats.RestockFrequency)
	assert.Zero(t, stats.StockTurnover)
	assert.Zero(t, stats.DaysOutOfStock)
}

func TestAnalyze_UnaReposicion_FrecuenciaNoCalculable(t *testing.T) {
	stats := Analyze([]entity.StockEvent{ev(1, entity.EventTypeRestock, 0, 10, 1)}, onDay(3))
	assert.Zero(t, stats.RestockFrequency)
	assert.False(t, stats.RestockFrequencyAvailable())
	assert.InDelta(t, 10, stats.AverageStockLevel, 1e-9)
}

// Escenario: reposición día 1, ventas días 2 y 3 (queda en cero), reposición día 6.
func TestAnalyze_EscenarioReposicionVentaQuiebre(t *testing.T) {
	events := newestFirst(
		ev(1, entity.EventTypeRestock, 0, 10, 1),
		ev(2, entity.EventTypeSale, 10, 5, 2),
		ev(3, entity.EventTypeSale, 5, 0, 3),
		ev(4, entity.EventTypeRestock, 0, 15, 6),
	)

	stats := Analyze(events, onDay(10))

	assert.InDelta(t, 7.5, stats.AverageStockLevel, 1e-9)
	assert.InDelta(t, 5, stats.RestockFrequency, 1e-9, "días entre las dos reposiciones")
	assert.InDelta(t, 10/7.5, stats.StockTurnover, 1e-9)
	assert.InDelta(t, 3, stats.DaysOutOfStock, 1e-9, "del día 3 al día 6")
}

func TestAnalyze_NoModificaLaEntrada(t *testing.T) {
	events := newestFirst(
		ev(1, entity.EventTypeRestock, 0, 10, 1),
		ev(2, entity.EventTypeSale, 10, 0, 2),
	)
	before := append([]entity.StockEvent(nil), events...)
	Analyze(events, onDay(3))
	assert.Equal(t, before, events)
}

func TestAnalyze_QuiebreAbiertoSeCuentaHastaAsOf(t *testing.T) {
	events := newestFirst(
		ev(1, entity.EventTypeRestock, 0, 4, 1),
		ev(2, entity.EventTypeSale, 4, 0, 2),
	)
	stats := Analyze(events, onDay(7))
	assert.InDelta(t, 5, stats.DaysOutOfStock, 1e-9)
}

func TestAnalyze_AsOfAnteriorAlQuiebreNoSuma(t *testing.T) {
	events := []entity.StockEvent{ev(1, entity.EventTypeSale, 3, 0, 5)}
	stats := Analyze(events, onDay(1))
	assert.Zero(t, stats.DaysOutOfStock)
}

func TestAnalyze_CerosConsecutivosCuentanUnaVez(t *testing.T) {
	events := newestFirst(
		ev(1, entity.EventTypeSale, 2, 0, 1),
		ev(2, entity.EventTypeAdjustment, 0, 0, 2),
		ev(3, entity.EventTypeRestock, 0, 8, 4),
	)
	stats := Analyze(events, onDay(9))
	assert.InDelta(t, 3, stats.DaysOutOfStock, 1e-9)
}

func TestAnalyze_CerosEnDiasDistintosNoSeSumanAparte(t *testing.T) {
	events := newestFirst(
		ev(1, entity.EventTypeRestock, 0, 5, 1),
		ev(2, entity.EventTypeSale, 5, 0, 3),
		ev(3, entity.EventTypeAdjustment, 0, 0, 4),
		ev(4, entity.EventTypeRestock, 0, 6, 6),
	)
	stats := Analyze(events, onDay(9))
	assert.InDelta(t, 3, stats.DaysOutOfStock, 1e-9, "un solo quiebre del día 3 al 6")
}

func TestAnalyze_ReposicionesSimultaneas_FrecuenciaCero(t *testing.T) {
	events := newestFirst(
		ev(1, entity.EventTypeRestock, 0, 5, 2),
		ev(2, entity.EventTypeRestock, 5, 9, 2),
	)
	stats := Analyze(events, onDay(3))
	assert.Equal(t, 2, stats.RestockCount)
	assert.Zero(t, stats.RestockFrequency)
	assert.True(t, stats.RestockFrequencyAvailable(), "0 días es un valor calculado")
}

func TestAnalyze_VariosQuiebres(t *testing.T) {
	events := newestFirst(
		ev(1, entity.EventTypeSale, 1, 0, 1),
		ev(2, entity.EventTypeRestock, 0, 5, 2),
		ev(3, entity.EventTypeSale, 5, 0, 4),
		ev(4, entity.EventTypeRestock, 0, 5, 8),
	)
	stats := Analyze(events, onDay(20))
	assert.InDelta(t, 5, stats.DaysOutOfStock, 1e-9)
	assert.InDelta(t, 6, stats.RestockFrequency, 1e-9)
}

func TestAnalyze_PromedioCeroNoDivide(t *testing.T) {
	events := []entity.StockEvent{ev(1, entity.EventTypeSale, 3, 0, 1)}
	stats := Analyze(events, onDay(1))
	assert.Zero(t, stats.AverageStockLevel)
	assert.Zero(t, stats.StockTurnover)
}

func TestAnalyze_EmpateDeTimestampSeResuelvePorSecuencia(t *testing.T) {
	// Mismo instante: la secuencia decide que primero se vendió todo y luego se repuso.
	sale := ev(7, entity.EventTypeSale, 3, 0, 2)
	restock := ev(8, entity.EventTypeRestock, 0, 6, 2)
	stats := Analyze([]entity.StockEvent{restock, sale}, onDay(5))
	assert.Zero(t, stats.DaysOutOfStock, "el quiebre se cierra en el mismo instante")

	// Con el orden de secuencia invertido el producto queda sin stock.
	sale.Sequence, restock.Sequence = 8, 7
	stats = Analyze([]entity.StockEvent{restock, sale}, onDay(5))
	assert.InDelta(t, 3, stats.DaysOutOfStock, 1e-9)
}

func TestNewStockEvent_ChangeAmount(t *testing.T) {
	cases := []struct{ prev, next int }{{0, 10}, {10, 3}, {5, 5}, {7, 0}}
	for _, c := range cases {
		e := entity.NewStockEvent("p", c.prev, c.next, "", base, "", "")
		require.Equal(t, c.next-c.prev, e.ChangeAmount)
		assert.Equal(t, entity.EventTypeUpdate, e.EventType, "tipo por defecto")
	}
}
