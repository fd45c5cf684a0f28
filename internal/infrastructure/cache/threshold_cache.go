// Package cache decora repositorios de lectura frecuente con una caché en memoria con TTL.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ThresholdRepository = (*ThresholdRepo)(nil)

// absent marca productos sin umbral propio; también se cachea.
type absent struct{}

// ThresholdRepo caché read-through delante de un ThresholdRepository. Upsert escribe en el
// repositorio y reemplaza la entrada local; otras instancias ven el cambio al expirar el TTL.
type ThresholdRepo struct {
	next  repository.ThresholdRepository
	cache *gocache.Cache
}

// NewThresholdRepo envuelve next con entradas que expiran tras ttl.
func NewThresholdRepo(next repository.ThresholdRepository, ttl time.Duration) *ThresholdRepo {
	return &ThresholdRepo{next: next, cache: gocache.New(ttl, ttl*2)}
}

func (r *ThresholdRepo) Get(ctx context.Context, productID string) (*entity.Threshold, error) {
	if cached, found := r.cache.Get(productID); found {
		if t, ok := cached.(entity.Threshold); ok {
			return &t, nil
		}
		return nil, nil
	}
	t, err := r.next.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	// Add no pisa una entrada que un Upsert concurrente haya escrito mientras se leía.
	if t == nil {
		_ = r.cache.Add(productID, absent{}, gocache.DefaultExpiration)
		return nil, nil
	}
	_ = r.cache.Add(productID, *t, gocache.DefaultExpiration)
	return t, nil
}

func (r *ThresholdRepo) Upsert(ctx context.Context, t entity.Threshold) (*entity.Threshold, error) {
	stored, err := r.next.Upsert(ctx, t)
	if err != nil {
		r.cache.Delete(t.ProductID)
		return nil, err
	}
	r.cache.Set(stored.ProductID, *stored, gocache.DefaultExpiration)
	return stored, nil
}

// List no se cachea.
func (r *ThresholdRepo) List(ctx context.Context) ([]entity.Threshold, error) {
	return r.next.List(ctx)
}

// Flush vacía la caché.
func (r *ThresholdRepo) Flush() { r.cache.Flush() }
