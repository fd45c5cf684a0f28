package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas en memoria. El índice active (product_id -> alerta) cumple el papel
// del índice único parcial de PostgreSQL: se consulta y escribe bajo el mismo lock.
type AlertRepo struct {
	s *Store
}

func (r *AlertRepo) CreateActive(ctx context.Context, alert entity.RestockingAlert) (*entity.RestockingAlert, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, domain.Persistence("create alert", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.s.active[alert.ProductID]; ok {
		existing := r.s.alerts[id]
		return &existing, false, nil
	}
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = r.s.now()
	}
	alert.Status = entity.AlertStatusActive
	alert.ResolvedAt = nil
	r.s.alerts[alert.ID] = alert
	r.s.active[alert.ProductID] = alert.ID
	return &alert, true, nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.RestockingAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("get alert", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AlertRepo) GetActiveByProduct(ctx context.Context, productID string) (*entity.RestockingAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("get active alert", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.active[productID]
	if !ok {
		return nil, nil
	}
	a := r.s.alerts[id]
	return &a, nil
}

// ListActive ordena por creación descendente.
func (r *AlertRepo) ListActive(ctx context.Context) ([]entity.RestockingAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("list active alerts", err)
	}
	r.s.mu.RLock()
	list := make([]entity.RestockingAlert, 0, len(r.s.active))
	for _, id := range r.s.active {
		list = append(list, r.s.alerts[id])
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

func (r *AlertRepo) Resolve(ctx context.Context, id string, at time.Time) (*entity.RestockingAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("resolve alert", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok || !a.Active() {
		return nil, nil
	}
	a.Status = entity.AlertStatusResolved
	a.ResolvedAt = &at
	r.s.alerts[id] = a
	delete(r.s.active, a.ProductID)
	return &a, nil
}
