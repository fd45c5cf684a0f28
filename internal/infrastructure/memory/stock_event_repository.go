package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

// StockEventRepo ledger en memoria (append-only).
type StockEventRepo struct {
	s *Store
}

func (r *StockEventRepo) Append(ctx context.Context, event entity.StockEvent) (*entity.StockEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("append stock event", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = r.s.now()
	}
	r.s.seq++
	event.Sequence = r.s.seq
	r.s.events = append(r.s.events, event)
	return &event, nil
}

func (r *StockEventRepo) ListByProduct(ctx context.Context, productID string) ([]entity.StockEvent, error) {
	return r.filter(ctx, "list stock events", func(e entity.StockEvent) bool { return e.ProductID == productID }, 0)
}

func (r *StockEventRepo) ListRecent(ctx context.Context, limit int) ([]entity.StockEvent, error) {
	return r.filter(ctx, "list recent stock events", func(entity.StockEvent) bool { return true }, limit)
}

func (r *StockEventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]entity.StockEvent, error) {
	return r.filter(ctx, "list stock events between", func(e entity.StockEvent) bool {
		return !e.Timestamp.Before(from) && !e.Timestamp.After(to)
	}, 0)
}

func (r *StockEventRepo) filter(ctx context.Context, op string, keep func(entity.StockEvent) bool, limit int) ([]entity.StockEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence(op, err)
	}
	r.s.mu.RLock()
	list := make([]entity.StockEvent, 0)
	for _, e := range r.s.events {
		if keep(e) {
			list = append(list, e)
		}
	}
	r.s.mu.RUnlock()
	entity.SortNewestFirst(list)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
