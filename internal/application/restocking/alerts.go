package restocking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// AlertEngine reconcilia alertas de stock bajo contra el catálogo y los umbrales.
// Ciclo de vida por alerta: active -> resolved (terminal). Un producto tiene como
// máximo una alerta activa; esa garantía la da AlertRepository.CreateActive.
type AlertEngine struct {
	alerts     repository.AlertRepository
	products   repository.ProductRepository
	thresholds *ThresholdUseCase
	log        *logger.Logger
	metrics    *metrics.StockMetrics
	now        func() time.Time
}

// NewAlertEngine construye el motor de alertas.
func NewAlertEngine(
	alerts repository.AlertRepository,
	products repository.ProductRepository,
	thresholds *ThresholdUseCase,
	log *logger.Logger,
	m *metrics.StockMetrics,
) *AlertEngine {
	return &AlertEngine{
		alerts:     alerts,
		products:   products,
		thresholds: thresholds,
		log:        log.Component("alerts"),
		metrics:    m,
		now:        time.Now,
	}
}

// ProductFailure producto que no pudo procesarse en una reconciliación.
type ProductFailure struct {
	ProductID string
	Err       error
}

// ReconcileResult resultado de una reconciliación. Active es el conjunto completo de
// alertas activas, no solo las nuevas.
type ReconcileResult struct {
	Active   []entity.RestockingAlert
	Created  []entity.RestockingAlert
	Failures []ProductFailure
}

// CheckLowStock devuelve los productos con stock < threshold, menor stock primero y
// desempate por id.
func CheckLowStock(products []entity.ProductSnapshot, threshold int) []entity.ProductSnapshot {
	low := make([]entity.ProductSnapshot, 0)
	for _, p := range products {
		if p.Stock < threshold {
			low = append(low, p)
		}
	}
	sortByStock(low)
	return low
}

func sortByStock(list []entity.ProductSnapshot) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Stock != list[j].Stock {
			return list[i].Stock < list[j].Stock
		}
		return list[i].ID < list[j].ID
	})
}

// EffectiveThreshold umbral propio del producto o globalDefault.
func (e *AlertEngine) EffectiveThreshold(ctx context.Context, productID string, globalDefault int) (int, error) {
	return e.thresholds.Effective(ctx, productID, globalDefault)
}

// Reconcile crea una alerta para cada producto bajo su umbral efectivo que no tenga ya una
// activa. No es atómico entre productos: un fallo en uno se registra en Failures y el resto
// sigue. Repetirlo es seguro (idempotente) porque CreateActive no duplica alertas activas.
func (e *AlertEngine) Reconcile(ctx context.Context, products []entity.ProductSnapshot, globalDefault int) (*ReconcileResult, error) {
	if globalDefault <= 0 {
		return nil, domain.Validation("el umbral global debe ser positivo")
	}
	start := e.now()
	defer func() { e.metrics.ReconcileDuration.Observe(time.Since(start).Seconds()) }()

	ordered := append([]entity.ProductSnapshot(nil), products...)
	sortByStock(ordered)

	result := &ReconcileResult{Created: []entity.RestockingAlert{}, Failures: []ProductFailure{}}
	for _, p := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, domain.Persistence("reconciliar alertas", err)
		}
		threshold, err := e.thresholds.Effective(ctx, p.ID, globalDefault)
		if err != nil {
			e.recordFailure(result, p.ID, err)
			continue
		}
		if p.Stock >= threshold {
			continue
		}
		alert, created, err := e.alerts.CreateActive(ctx, entity.RestockingAlert{
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			Threshold:    threshold,
			CreatedAt:    e.now(),
			Status:       entity.AlertStatusActive,
		})
		if err != nil {
			e.recordFailure(result, p.ID, err)
			continue
		}
		if created {
			result.Created = append(result.Created, *alert)
			e.metrics.AlertsCreated.Inc()
			e.log.Info().
				Str("alert_id", alert.ID).
				Str("product_id", p.ID).
				Int("stock", p.Stock).
				Int("threshold", threshold).
				Msg("alerta de reposición creada")
		}
	}

	active, err := e.alerts.ListActive(ctx)
	if err != nil {
		return nil, domain.AsPersistence("listar alertas activas", err)
	}
	result.Active = active
	e.metrics.ActiveAlerts.Set(float64(len(active)))
	return result, nil
}

func (e *AlertEngine) recordFailure(result *ReconcileResult, productID string, err error) {
	err = domain.AsPersistence("crear alerta", err)
	result.Failures = append(result.Failures, ProductFailure{ProductID: productID, Err: err})
	e.metrics.AlertFailures.Inc()
	e.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo procesar el producto; se continúa")
}

// ReconcileCatalog lee el catálogo completo y reconcilia.
func (e *AlertEngine) ReconcileCatalog(ctx context.Context, globalDefault int) (*ReconcileResult, error) {
	products, err := e.products.List(ctx)
	if err != nil {
		return nil, domain.AsPersistence("listar productos", err)
	}
	return e.Reconcile(ctx, entity.Snapshots(products), globalDefault)
}

// Resolve marca la alerta como resuelta. Resolver una alerta ya resuelta es un no-op que
// devuelve la alerta guardada; un id inexistente devuelve ErrNotFound.
func (e *AlertEngine) Resolve(ctx context.Context, alertID string) (*entity.RestockingAlert, error) {
	if alertID == "" {
		return nil, domain.Validation("alert_id requerido")
	}
	resolved, err := e.alerts.Resolve(ctx, alertID, e.now())
	if err != nil {
		return nil, domain.AsPersistence("resolver alerta", err)
	}
	if resolved != nil {
		e.metrics.AlertsResolved.Inc()
		e.metrics.ActiveAlerts.Dec()
		e.log.Info().Str("alert_id", alertID).Str("product_id", resolved.ProductID).Msg("alerta resuelta")
		return resolved, nil
	}

	existing, err := e.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, domain.AsPersistence("leer alerta", err)
	}
	if existing == nil {
		return nil, domain.NotFound("alerta", alertID)
	}
	return existing, nil
}

// ResolveRecovered resuelve las alertas activas de productos cuyo stock volvió a estar en o
// sobre su umbral efectivo. Los fallos por producto se reportan igual que en Reconcile.
func (e *AlertEngine) ResolveRecovered(ctx context.Context, products []entity.ProductSnapshot, globalDefault int) ([]entity.RestockingAlert, []ProductFailure, error) {
	active, err := e.alerts.ListActive(ctx)
	if err != nil {
		return nil, nil, domain.AsPersistence("listar alertas activas", err)
	}
	byID := make(map[string]entity.ProductSnapshot, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	resolved := []entity.RestockingAlert{}
	failures := []ProductFailure{}
	for _, a := range active {
		p, ok := byID[a.ProductID]
		if !ok {
			continue
		}
		threshold, err := e.thresholds.Effective(ctx, p.ID, globalDefault)
		if err != nil {
			failures = append(failures, ProductFailure{ProductID: p.ID, Err: err})
			continue
		}
		if p.Stock < threshold {
			continue
		}
		r, err := e.Resolve(ctx, a.ID)
		if err != nil {
			failures = append(failures, ProductFailure{ProductID: p.ID, Err: fmt.Errorf("resolver %s: %w", a.ID, err)})
			continue
		}
		resolved = append(resolved, *r)
	}
	return resolved, failures, nil
}

// ResolveRecoveredCatalog lee el catálogo completo y resuelve las alertas recuperadas.
func (e *AlertEngine) ResolveRecoveredCatalog(ctx context.Context, globalDefault int) ([]entity.RestockingAlert, []ProductFailure, error) {
	products, err := e.products.List(ctx)
	if err != nil {
		return nil, nil, domain.AsPersistence("listar productos", err)
	}
	return e.ResolveRecovered(ctx, entity.Snapshots(products), globalDefault)
}

// ActiveAlerts devuelve las alertas activas, más recientes primero.
func (e *AlertEngine) ActiveAlerts(ctx context.Context) ([]entity.RestockingAlert, error) {
	list, err := e.alerts.ListActive(ctx)
	if err != nil {
		return nil, domain.AsPersistence("listar alertas activas", err)
	}
	return list, nil
}
