package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("get product", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate no bloquea por fila: TxRunner ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List ordena por fecha de creación descendente, como el catálogo original.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("list products", err)
	}
	r.s.mu.RLock()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		p := p
		list = append(list, &p)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id string, newStock int) error {
	if err := ctx.Err(); err != nil {
		return domain.Persistence("update stock", err)
	}
	_, _, err := r.s.updateStock(id, newStock)
	return err
}

// updateStock devuelve el producto antes y después del cambio.
func (s *Store) updateStock(id string, newStock int) (prev, next entity.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.products[id]
	if !ok {
		return prev, next, domain.NotFound("producto", id)
	}
	next = prev
	next.Stock = newStock
	next.UpdatedAt = s.now()
	s.products[id] = next
	return prev, next, nil
}
