package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/analytics"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMutationRequest cuerpo de POST /api/inventory/products/:id/mutations.
// Kind "catalog_edit" fija el stock en NewStock; restock|sale|adjustment aplican Quantity.
type StockMutationRequest struct {
	Kind     string `json:"kind"`
	Quantity int    `json:"quantity"`
	NewStock int    `json:"new_stock"`
	Notes    string `json:"notes"`
}

// MutationKindCatalogEdit tipo de mutación que reemplaza el stock.
const MutationKindCatalogEdit = "catalog_edit"

// ToMutation construye la mutación tipada para productID.
func (r StockMutationRequest) ToMutation(productID string) entity.StockMutation {
	if r.Kind == MutationKindCatalogEdit {
		return entity.CatalogEdit{ProductID: productID, NewStock: r.NewStock, Notes: r.Notes}
	}
	return entity.DirectAdjustment{
		ProductID: productID,
		Kind:      entity.EventType(r.Kind),
		Quantity:  r.Quantity,
		Notes:     r.Notes,
	}
}

// StockEventResponse salida de un evento del ledger.
type StockEventResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	ChangeAmount  int       `json:"change_amount"`
	EventType     string    `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`
	ActorID       string    `json:"actor_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// FromStockEvent mapea la entidad.
func FromStockEvent(e entity.StockEvent) StockEventResponse {
	return StockEventResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		PreviousStock: e.PreviousStock,
		NewStock:      e.NewStock,
		ChangeAmount:  e.ChangeAmount,
		EventType:     string(e.EventType),
		Timestamp:     e.Timestamp,
		ActorID:       e.ActorID,
		Notes:         e.Notes,
	}
}

// FromStockEvents mapea una lista; nunca devuelve nil.
func FromStockEvents(events []entity.StockEvent) []StockEventResponse {
	out := make([]StockEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FromStockEvent(e))
	}
	return out
}

// NotAvailable etiqueta para estadísticas no calculables.
const NotAvailable = "N/A"

// StatisticsResponse estadísticas redondeadas a 2 decimales.
// RestockFrequencyLabel es "N/A" cuando hubo menos de dos reposiciones.
type StatisticsResponse struct {
	AverageStockLevel     decimal.Decimal `json:"average_stock_level"`
	RestockFrequency      decimal.Decimal `json:"restock_frequency_days"`
	RestockFrequencyLabel string          `json:"restock_frequency_label"`
	StockTurnover         decimal.Decimal `json:"stock_turnover"`
	DaysOutOfStock        decimal.Decimal `json:"days_out_of_stock"`
}

// FromStatistics mapea y redondea.
func FromStatistics(s analytics.Statistics) StatisticsResponse {
	freq := decimal.NewFromFloat(s.RestockFrequency).Round(2)
	label := NotAvailable
	if s.RestockFrequencyAvailable() {
		label = freq.StringFixed(2) + " días"
	}
	return StatisticsResponse{
		AverageStockLevel:     decimal.NewFromFloat(s.AverageStockLevel).Round(2),
		RestockFrequency:      freq,
		RestockFrequencyLabel: label,
		StockTurnover:         decimal.NewFromFloat(s.StockTurnover).Round(2),
		DaysOutOfStock:        decimal.NewFromFloat(s.DaysOutOfStock).Round(2),
	}
}

// ProductHistoryResponse respuesta de GET /api/inventory/products/:id/history.
type ProductHistoryResponse struct {
	ProductID  string               `json:"product_id"`
	Events     []StockEventResponse `json:"events"`
	Statistics StatisticsResponse   `json:"statistics"`
}

// RecordEventRequest cuerpo de POST /api/inventory/events: registra un cambio ya aplicado
// en el catálogo por otro sistema.
type RecordEventRequest struct {
	ProductID     string `json:"product_id"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	EventType     string `json:"event_type"`
	Notes         string `json:"notes"`
}
