package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

// StockEventRepo ledger sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type StockEventRepo struct {
	q Querier
}

// NewStockEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEventRepository(q Querier) *StockEventRepo {
	return &StockEventRepo{q: q}
}

const stockEventColumns = `id, seq, product_id, previous_stock, new_stock, change_amount, event_type, ts, actor_id, notes`

// Append inserta el evento; seq lo asigna la base.
func (r *StockEventRepo) Append(ctx context.Context, e entity.StockEvent) (*entity.StockEvent, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	query := `
		INSERT INTO stock_events (id, product_id, previous_stock, new_stock, change_amount, event_type, ts, actor_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.ProductID, e.PreviousStock, e.NewStock, e.ChangeAmount,
		string(e.EventType), e.Timestamp.UTC(), e.ActorID, e.Notes,
	).Scan(&e.Sequence)
	if err != nil {
		return nil, wrap("insert stock event", err)
	}
	return &e, nil
}

// ListByProduct historia del producto, más reciente primero.
func (r *StockEventRepo) ListByProduct(ctx context.Context, productID string) ([]entity.StockEvent, error) {
	query := `SELECT ` + stockEventColumns + ` FROM stock_events WHERE product_id = $1 ORDER BY ts DESC, seq DESC`
	return r.list(ctx, "list stock events", query, productID)
}

// ListRecent últimos eventos de todos los productos.
func (r *StockEventRepo) ListRecent(ctx context.Context, limit int) ([]entity.StockEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + stockEventColumns + ` FROM stock_events ORDER BY ts DESC, seq DESC LIMIT $1`
	return r.list(ctx, "list recent stock events", query, limit)
}

// ListBetween eventos con from <= ts <= to.
func (r *StockEventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]entity.StockEvent, error) {
	query := `SELECT ` + stockEventColumns + ` FROM stock_events WHERE ts >= $1 AND ts <= $2 ORDER BY ts DESC, seq DESC`
	return r.list(ctx, "list stock events between", query, from.UTC(), to.UTC())
}

func (r *StockEventRepo) list(ctx context.Context, op, query string, args ...any) ([]entity.StockEvent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	events, err := pgx.CollectRows(rows, scanStockEvent)
	if err != nil {
		return nil, wrap(op, err)
	}
	if events == nil {
		events = []entity.StockEvent{}
	}
	return events, nil
}

func scanStockEvent(row pgx.CollectableRow) (entity.StockEvent, error) {
	var (
		e   entity.StockEvent
		typ string
	)
	err := row.Scan(&e.ID, &e.Sequence, &e.ProductID, &e.PreviousStock, &e.NewStock,
		&e.ChangeAmount, &typ, &e.Timestamp, &e.ActorID, &e.Notes)
	e.EventType = entity.EventType(typ)
	return e, err
}
