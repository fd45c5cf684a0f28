package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ThresholdRepository = (*ThresholdRepo)(nil)

// ThresholdRepo umbrales en memoria; el mapa por product_id hace de restricción única.
type ThresholdRepo struct {
	s *Store
}

func (r *ThresholdRepo) Get(ctx context.Context, productID string) (*entity.Threshold, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("get threshold", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.thresholds[productID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *ThresholdRepo) Upsert(ctx context.Context, threshold entity.Threshold) (*entity.Threshold, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("upsert threshold", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if current, ok := r.s.thresholds[threshold.ProductID]; ok {
		threshold.ID = current.ID
	} else if threshold.ID == "" {
		threshold.ID = uuid.New().String()
	}
	threshold.UpdatedAt = r.s.now()
	r.s.thresholds[threshold.ProductID] = threshold
	return &threshold, nil
}

func (r *ThresholdRepo) List(ctx context.Context) ([]entity.Threshold, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Persistence("list thresholds", err)
	}
	r.s.mu.RLock()
	list := make([]entity.Threshold, 0, len(r.s.thresholds))
	for _, t := range r.s.thresholds {
		list = append(list, t)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}
