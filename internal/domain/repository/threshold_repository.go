package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ThresholdRepository puerto de umbrales por producto.
type ThresholdRepository interface {
	// Get devuelve nil, nil si el producto no tiene umbral propio.
	Get(ctx context.Context, productID string) (*entity.Threshold, error)
	// Upsert crea o actualiza de forma atómica (unicidad por product_id en el almacenamiento).
	Upsert(ctx context.Context, threshold entity.Threshold) (*entity.Threshold, error)
	List(ctx context.Context) ([]entity.Threshold, error)
}
