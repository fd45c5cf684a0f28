package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas de reposición. El índice único parcial uq_restocking_alerts_active
// garantiza a lo sumo una alerta activa por producto aun con reconciliaciones concurrentes.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, product_id, product_name, current_stock, threshold, status, created_at, resolved_at`

// CreateActive inserta la alerta salvo que el producto ya tenga una activa; en ese caso
// devuelve la existente con created=false.
func (r *AlertRepo) CreateActive(ctx context.Context, a entity.RestockingAlert) (*entity.RestockingAlert, bool, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO restocking_alerts (id, product_id, product_name, current_stock, threshold, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'active', $6)
		ON CONFLICT (product_id) WHERE status = 'active' DO NOTHING
		RETURNING ` + alertColumns
	created, err := scanAlert(r.q.QueryRow(ctx, query,
		a.ID, a.ProductID, a.ProductName, a.CurrentStock, a.Threshold, a.CreatedAt.UTC()))
	if err == nil {
		return created, true, nil
	}
	if !isNoRows(err) {
		return nil, false, wrap("insert alert", err)
	}

	// DO NOTHING: ya existe una activa.
	existing, err := r.GetActiveByProduct(ctx, a.ProductID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// La activa se resolvió entre el INSERT y el SELECT.
		return r.CreateActive(ctx, a)
	}
	return existing, false, nil
}

// GetByID devuelve nil, nil si no existe.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.RestockingAlert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, `SELECT `+alertColumns+` FROM restocking_alerts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get alert", err)
	}
	return a, nil
}

// GetActiveByProduct devuelve nil, nil si el producto no tiene alerta activa.
func (r *AlertRepo) GetActiveByProduct(ctx context.Context, productID string) (*entity.RestockingAlert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM restocking_alerts WHERE product_id = $1 AND status = 'active'`, productID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get active alert", err)
	}
	return a, nil
}

// ListActive alertas activas, más recientes primero.
func (r *AlertRepo) ListActive(ctx context.Context) ([]entity.RestockingAlert, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+alertColumns+` FROM restocking_alerts WHERE status = 'active' ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, wrap("list active alerts", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.RestockingAlert, error) {
		a, err := scanAlert(row)
		if err != nil {
			return entity.RestockingAlert{}, err
		}
		return *a, nil
	})
	if err != nil {
		return nil, wrap("list active alerts", err)
	}
	if list == nil {
		list = []entity.RestockingAlert{}
	}
	return list, nil
}

// Resolve pasa la alerta a resolved solo si está activa; si no, devuelve nil, nil.
func (r *AlertRepo) Resolve(ctx context.Context, id string, at time.Time) (*entity.RestockingAlert, error) {
	query := `
		UPDATE restocking_alerts SET status = 'resolved', resolved_at = $2
		WHERE id = $1 AND status = 'active'
		RETURNING ` + alertColumns
	a, err := scanAlert(r.q.QueryRow(ctx, query, id, at.UTC()))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("resolve alert", err)
	}
	return a, nil
}

func scanAlert(row pgx.Row) (*entity.RestockingAlert, error) {
	var (
		a      entity.RestockingAlert
		status string
	)
	if err := row.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.CurrentStock, &a.Threshold,
		&status, &a.CreatedAt, &a.ResolvedAt); err != nil {
		return nil, err
	}
	a.Status = entity.AlertStatus(status)
	return &a, nil
}
