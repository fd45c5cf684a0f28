// Package analytics contiene los cálculos puros sobre la historia de stock de un producto.
// No hace I/O ni guarda estado: es seguro llamarlo en paralelo para productos distintos.
package analytics

import (
	"math"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

const day = 24 * time.Hour

// Statistics resumen derivado de la historia de un producto.
// Con menos de dos reposiciones RestockFrequency no es calculable y debe mostrarse
// como N/A, no como 0 días.
type Statistics struct {
	AverageStockLevel float64 // media de NewStock
	RestockCount      int     // eventos de tipo restock
	RestockFrequency  float64 // días promedio entre reposiciones consecutivas
	StockTurnover     float64 // unidades vendidas / AverageStockLevel
	DaysOutOfStock    float64 // días acumulados con stock en cero
}

// RestockFrequencyAvailable indica si hubo suficientes reposiciones para calcularla.
// Dos reposiciones en el mismo instante dan una frecuencia válida de 0 días.
func (s Statistics) RestockFrequencyAvailable() bool { return s.RestockCount >= 2 }

// Analyze calcula las estadísticas de events (cualquier orden; normalmente más reciente primero).
// asOf cierra un quiebre de stock todavía abierto: si el último evento deja el stock en cero,
// los días hasta asOf se suman a DaysOutOfStock.
// events no se modifica.
func Analyze(events []entity.StockEvent, asOf time.Time) Statistics {
	if len(events) == 0 {
		return Statistics{}
	}

	chrono := make([]entity.StockEvent, len(events))
	copy(chrono, events)
	entity.SortOldestFirst(chrono)

	var stats Statistics
	stats.AverageStockLevel = averageStock(chrono)
	stats.RestockCount, stats.RestockFrequency = restockFrequency(chrono)
	stats.StockTurnover = stockTurnover(chrono, stats.AverageStockLevel)
	stats.DaysOutOfStock = daysOutOfStock(chrono, asOf)
	return stats
}

func averageStock(events []entity.StockEvent) float64 {
	total := 0
	for _, e := range events {
		total += e.NewStock
	}
	return float64(total) / float64(len(events))
}

// restockFrequency cuenta las reposiciones y promedia los días entre consecutivas.
// events debe venir en orden cronológico.
func restockFrequency(events []entity.StockEvent) (int, float64) {
	var restocks []time.Time
	for _, e := range events {
		if e.EventType == entity.EventTypeRestock {
			restocks = append(restocks, e.Timestamp)
		}
	}
	if len(restocks) < 2 {
		return len(restocks), 0
	}
	var totalDays float64
	for i := len(restocks) - 1; i > 0; i-- {
		totalDays += days(restocks[i].Sub(restocks[i-1]))
	}
	return len(restocks), totalDays / float64(len(restocks)-1)
}

func stockTurnover(events []entity.StockEvent, average float64) float64 {
	if average == 0 {
		return 0
	}
	sold := 0
	for _, e := range events {
		if e.EventType == entity.EventTypeSale {
			sold += abs(e.ChangeAmount)
		}
	}
	return float64(sold) / average
}

// daysOutOfStock recorre la historia hacia adelante. Un quiebre empieza en el primer
// evento con NewStock == 0 y termina en el primer evento posterior con NewStock > 0;
// eventos en cero dentro del mismo quiebre no lo reinician ni se suman aparte.
// Difiere de sumar, por cada evento en cero, los días hasta el siguiente positivo:
// ceros los días 3 y 4 con reposición el día 6 dan 3 días, no 3+2=5.
func daysOutOfStock(events []entity.StockEvent, asOf time.Time) float64 {
	var (
		total    float64
		outSince time.Time
		out      bool
	)
	for _, e := range events {
		switch {
		case e.NewStock == 0 && !out:
			out, outSince = true, e.Timestamp
		case e.NewStock > 0 && out:
			total += days(e.Timestamp.Sub(outSince))
			out = false
		}
	}
	if out && asOf.After(outSince) {
		total += days(asOf.Sub(outSince))
	}
	return total
}

func days(d time.Duration) float64 {
	return math.Max(0, d.Hours()/day.Hours())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
