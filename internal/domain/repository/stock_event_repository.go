package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockEventRepository puerto del ledger: solo inserción y lectura, nunca update ni delete.
type StockEventRepository interface {
	// Append persiste el evento y devuelve la forma almacenada (ID y Sequence asignados).
	Append(ctx context.Context, event entity.StockEvent) (*entity.StockEvent, error)
	// ListByProduct devuelve la historia del producto, más reciente primero. Vacía si no hay eventos.
	ListByProduct(ctx context.Context, productID string) ([]entity.StockEvent, error)
	// ListRecent devuelve los últimos eventos de todos los productos.
	ListRecent(ctx context.Context, limit int) ([]entity.StockEvent, error)
	// ListBetween devuelve los eventos con from <= timestamp <= to, más reciente primero.
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.StockEvent, error)
}
