package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones. Si fn falla deshace solo lo que escribió fn:
// las escrituras hechas fuera de la transacción y la secuencia del ledger no se tocan.
type TxRunner struct {
	s *Store
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	events repository.StockEventRepository,
	products repository.ProductRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	undo := &undoLog{products: make(map[string]productWrite)}
	err := fn(&txEvents{StockEventRepo: r.s.Events(), undo: undo}, &txProducts{ProductRepo: r.s.Products(), undo: undo})
	if err != nil {
		r.s.rollback(undo)
	}
	return err
}

// undoLog escrituras de una transacción. Solo lo usa la goroutine que ejecuta fn.
type undoLog struct {
	events   []string // IDs agregados
	products map[string]productWrite
}

type productWrite struct {
	prev    entity.Product // estado antes de la primera escritura de la transacción
	written entity.Product // último estado escrito por la transacción
}

type txEvents struct {
	*StockEventRepo
	undo *undoLog
}

func (t *txEvents) Append(ctx context.Context, event entity.StockEvent) (*entity.StockEvent, error) {
	stored, err := t.StockEventRepo.Append(ctx, event)
	if err != nil {
		return nil, err
	}
	t.undo.events = append(t.undo.events, stored.ID)
	return stored, nil
}

type txProducts struct {
	*ProductRepo
	undo *undoLog
}

func (t *txProducts) UpdateStock(ctx context.Context, id string, newStock int) error {
	if err := ctx.Err(); err != nil {
		return domain.Persistence("update stock", err)
	}
	prev, next, err := t.s.updateStock(id, newStock)
	if err != nil {
		return err
	}
	w, seen := t.undo.products[id]
	if !seen {
		w.prev = prev
	}
	w.written = next
	t.undo.products[id] = w
	return nil
}

// rollback quita los eventos de la transacción y restaura los productos que sigan con
// el valor que ella escribió. La secuencia no retrocede.
func (s *Store) rollback(undo *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(undo.events) > 0 {
		drop := make(map[string]struct{}, len(undo.events))
		for _, id := range undo.events {
			drop[id] = struct{}{}
		}
		kept := s.events[:0]
		for _, e := range s.events {
			if _, ok := drop[e.ID]; !ok {
				kept = append(kept, e)
			}
		}
		s.events = kept
	}
	for id, w := range undo.products {
		cur, ok := s.products[id]
		if !ok || cur.Stock != w.written.Stock || !cur.UpdatedAt.Equal(w.written.UpdatedAt) {
			continue
		}
		s.products[id] = w.prev
	}
}
