package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ThresholdRepository = (*ThresholdRepo)(nil)

// ThresholdRepo umbrales por producto. product_id es UNIQUE: el upsert nunca duplica.
type ThresholdRepo struct {
	q Querier
}

// NewThresholdRepository construye el adaptador.
func NewThresholdRepository(q Querier) *ThresholdRepo {
	return &ThresholdRepo{q: q}
}

// Get devuelve nil, nil si el producto no tiene umbral propio.
func (r *ThresholdRepo) Get(ctx context.Context, productID string) (*entity.Threshold, error) {
	query := `SELECT id, product_id, threshold, updated_at FROM product_thresholds WHERE product_id = $1`
	var t entity.Threshold
	err := r.q.QueryRow(ctx, query, productID).Scan(&t.ID, &t.ProductID, &t.Value, &t.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get threshold", err)
	}
	return &t, nil
}

// Upsert inserta o actualiza en una sola sentencia.
func (r *ThresholdRepo) Upsert(ctx context.Context, t entity.Threshold) (*entity.Threshold, error) {
	query := `
		INSERT INTO product_thresholds (id, product_id, threshold, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id) DO UPDATE
		SET threshold = EXCLUDED.threshold, updated_at = now()
		RETURNING id, product_id, threshold, updated_at`
	var out entity.Threshold
	err := r.q.QueryRow(ctx, query, uuid.New().String(), t.ProductID, t.Value).
		Scan(&out.ID, &out.ProductID, &out.Value, &out.UpdatedAt)
	if err != nil {
		return nil, wrap("upsert threshold", err)
	}
	return &out, nil
}

// List todos los umbrales, por producto.
func (r *ThresholdRepo) List(ctx context.Context) ([]entity.Threshold, error) {
	rows, err := r.q.Query(ctx, `SELECT id, product_id, threshold, updated_at FROM product_thresholds ORDER BY product_id`)
	if err != nil {
		return nil, wrap("list thresholds", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Threshold, error) {
		var t entity.Threshold
		err := row.Scan(&t.ID, &t.ProductID, &t.Value, &t.UpdatedAt)
		return t, err
	})
	if err != nil {
		return nil, wrap("list thresholds", err)
	}
	if list == nil {
		list = []entity.Threshold{}
	}
	return list, nil
}
