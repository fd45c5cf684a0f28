// Package restocking implementa los umbrales por producto y el motor de alertas de reposición.
package restocking

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// ThresholdUseCase lectura y escritura de umbrales por producto.
type ThresholdUseCase struct {
	repo    repository.ThresholdRepository
	metrics *metrics.StockMetrics
}

// NewThresholdUseCase construye el caso de uso.
func NewThresholdUseCase(repo repository.ThresholdRepository, m *metrics.StockMetrics) *ThresholdUseCase {
	return &ThresholdUseCase{repo: repo, metrics: m}
}

// Get devuelve el umbral propio del producto; ok=false significa "usar el global", no cero.
func (uc *ThresholdUseCase) Get(ctx context.Context, productID string) (value int, ok bool, err error) {
	if productID == "" {
		return 0, false, domain.Validation("product_id requerido")
	}
	t, err := uc.repo.Get(ctx, productID)
	if err != nil {
		return 0, false, domain.AsPersistence("leer umbral", err)
	}
	if t == nil {
		return 0, false, nil
	}
	return t.Value, true, nil
}

// Set crea o actualiza el umbral del producto. El upsert es atómico en el almacenamiento,
// así que dos Set concurrentes nunca dejan dos filas.
func (uc *ThresholdUseCase) Set(ctx context.Context, productID string, value int) (*entity.Threshold, error) {
	if productID == "" {
		return nil, domain.Validation("product_id requerido")
	}
	if value <= 0 {
		return nil, domain.Validation("el umbral debe ser un entero positivo")
	}
	t, err := uc.repo.Upsert(ctx, entity.Threshold{ProductID: productID, Value: value})
	if err != nil {
		return nil, domain.AsPersistence("guardar umbral", err)
	}
	uc.metrics.ThresholdsUpserted.Inc()
	return t, nil
}

// Effective devuelve el umbral propio del producto o globalDefault si no tiene.
func (uc *ThresholdUseCase) Effective(ctx context.Context, productID string, globalDefault int) (int, error) {
	v, ok, err := uc.Get(ctx, productID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return globalDefault, nil
	}
	return v, nil
}

// List devuelve todos los umbrales propios.
func (uc *ThresholdUseCase) List(ctx context.Context) ([]entity.Threshold, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.AsPersistence("listar umbrales", err)
	}
	return list, nil
}
