package entity

import (
	"sort"
	"time"
)

// EventType clasifica una transición de stock registrada en el ledger.
type EventType string

// Tipos de evento de stock.
const (
	EventTypeUpdate     EventType = "update"     // edición del catálogo
	EventTypeRestock    EventType = "restock"    // reposición
	EventTypeSale       EventType = "sale"       // venta
	EventTypeAdjustment EventType = "adjustment" // ajuste manual
)

// Valid indica si el tipo pertenece al conjunto conocido.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeUpdate, EventTypeRestock, EventTypeSale, EventTypeAdjustment:
		return true
	}
	return false
}

// StockEvent es un hecho inmutable: la transición de stock de un producto.
// ChangeAmount siempre es NewStock - PreviousStock. Sequence lo asigna el
// almacenamiento al escribir y desempata eventos con el mismo Timestamp.
type StockEvent struct {
	ID            string
	Sequence      int64
	ProductID     string
	PreviousStock int
	NewStock      int
	ChangeAmount  int
	EventType     EventType
	Timestamp     time.Time
	ActorID       string // vacío = evento anónimo o del sistema
	Notes         string
}

// NewStockEvent construye el evento calculando ChangeAmount.
func NewStockEvent(productID string, previous, next int, typ EventType, at time.Time, actorID, notes string) StockEvent {
	if typ == "" {
		typ = EventTypeUpdate
	}
	return StockEvent{
		ProductID:     productID,
		PreviousStock: previous,
		NewStock:      next,
		ChangeAmount:  next - previous,
		EventType:     typ,
		Timestamp:     at,
		ActorID:       actorID,
		Notes:         notes,
	}
}

// Before ordena por Timestamp y, en empate, por Sequence.
func (e StockEvent) Before(o StockEvent) bool {
	if !e.Timestamp.Equal(o.Timestamp) {
		return e.Timestamp.Before(o.Timestamp)
	}
	return e.Sequence < o.Sequence
}

// SortNewestFirst ordena in situ del más reciente al más antiguo.
func SortNewestFirst(events []StockEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[j].Before(events[i]) })
}

// SortOldestFirst ordena in situ en orden cronológico.
func SortOldestFirst(events []StockEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Before(events[j]) })
}
