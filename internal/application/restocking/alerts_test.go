package restocking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/restocking"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

type fixture struct {
	store      *memory.Store
	engine     *restocking.AlertEngine
	thresholds *restocking.ThresholdUseCase
	metrics    *metrics.StockMetrics
}

func newFixture(t *testing.T, thresholds repository.ThresholdRepository) *fixture {
	t.Helper()
	store := memory.New()
	if thresholds == nil {
		thresholds = store.Thresholds()
	}
	m := metrics.NewUnregistered()
	th := restocking.NewThresholdUseCase(thresholds, m)
	return &fixture{
		store:      store,
		engine:     restocking.NewAlertEngine(store.Alerts(), store.Products(), th, logger.Nop(), m),
		thresholds: th,
		metrics:    m,
	}
}

func snap(id string, stock int) entity.ProductSnapshot {
	return entity.ProductSnapshot{ID: id, Name: "Producto " + id, Stock: stock}
}

func TestCheckLowStock_OrdenYFiltro(t *testing.T) {
	in := []entity.ProductSnapshot{snap("c", 3), snap("a", 10), snap("b", 0), snap("d", 3), snap("e", 5)}
	low := restocking.CheckLowStock(in, 5)

	require.Len(t, low, 3)
	assert.Equal(t, "b", low[0].ID)
	assert.Equal(t, "c", low[1].ID)
	assert.Equal(t, "d", low[2].ID)
	assert.Equal(t, "c", in[0].ID, "no reordena la entrada")
}

func TestCheckLowStock_VacioNoNil(t *testing.T) {
	low := restocking.CheckLowStock(nil, 5)
	assert.NotNil(t, low)
	assert.Empty(t, low)
}

func TestReconcile_UmbralGlobal(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.engine.Reconcile(ctx, []entity.ProductSnapshot{snap("p1", 3), snap("p2", 10), snap("p3", 0)}, 5)
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.Equal(t, "p3", res.Created[0].ProductID)
	assert.Equal(t, "p1", res.Created[1].ProductID)
	assert.Equal(t, 5, res.Created[0].Threshold)
	assert.Equal(t, entity.AlertStatusActive, res.Created[0].Status)
	assert.Len(t, res.Active, 2)
	assert.Empty(t, res.Failures)
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.AlertsCreated))
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.ActiveAlerts))
}

func TestReconcile_UmbralPorProducto(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.thresholds.Set(ctx, "p2", 20)
	require.NoError(t, err)

	res, err := f.engine.Reconcile(ctx, []entity.ProductSnapshot{snap("p1", 3), snap("p2", 10)}, 5)
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	byProduct := map[string]entity.RestockingAlert{}
	for _, a := range res.Created {
		byProduct[a.ProductID] = a
	}
	assert.Equal(t, 20, byProduct["p2"].Threshold)
	assert.Equal(t, 10, byProduct["p2"].CurrentStock)
	assert.Equal(t, 5, byProduct["p1"].Threshold)
}

func TestReconcile_Idempotente(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	products := []entity.ProductSnapshot{snap("p1", 1)}

	first, err := f.engine.Reconcile(ctx, products, 5)
	require.NoError(t, err)
	second, err := f.engine.Reconcile(ctx, products, 5)
	require.NoError(t, err)

	assert.Len(t, first.Created, 1)
	assert.Empty(t, second.Created)
	require.Len(t, second.Active, 1)
	assert.Equal(t, first.Created[0].ID, second.Active[0].ID)
}

func TestReconcile_ConcurrenteUnaAlertaPorProducto(t *testing.T) {
	f := newFixture(t, nil)
	products := []entity.ProductSnapshot{snap("p1", 1), snap("p2", 0), snap("p3", 9)}

	var wg sync.WaitGroup
	created := make(chan int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.engine.Reconcile(context.Background(), products, 5)
			if assert.NoError(t, err) {
				created <- len(res.Created)
			}
		}()
	}
	wg.Wait()
	close(created)

	total := 0
	for n := range created {
		total += n
	}
	assert.Equal(t, 2, total, "cada producto bajo umbral se alerta exactamente una vez")

	active, err := f.engine.ActiveAlerts(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestReconcile_UmbralGlobalInvalido(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.engine.Reconcile(context.Background(), nil, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

type flakyThresholds struct {
	repository.ThresholdRepository
	failFor string
}

func (f flakyThresholds) Get(ctx context.Context, productID string) (*entity.Threshold, error) {
	if productID == f.failFor {
		return nil, errors.New("connection reset")
	}
	return f.ThresholdRepository.Get(ctx, productID)
}

func TestReconcile_FalloParcialContinua(t *testing.T) {
	base := memory.New()
	f := newFixture(t, flakyThresholds{ThresholdRepository: base.Thresholds(), failFor: "p2"})

	res, err := f.engine.Reconcile(context.Background(), []entity.ProductSnapshot{snap("p1", 1), snap("p2", 0), snap("p3", 2)}, 5)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "p2", res.Failures[0].ProductID)
	assert.ErrorIs(t, res.Failures[0].Err, domain.ErrPersistence)
	assert.Len(t, res.Created, 2)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AlertFailures))
}

func TestReconcileCatalog_LeeProductos(t *testing.T) {
	f := newFixture(t, nil)
	f.store.PutProduct(entity.Product{ID: "p1", Name: "Filtro", Price: decimal.NewFromInt(3), Stock: 2})
	f.store.PutProduct(entity.Product{ID: "p2", Name: "Bomba", Price: decimal.NewFromInt(3), Stock: 50})

	res, err := f.engine.ReconcileCatalog(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "p1", res.Created[0].ProductID)
	assert.Equal(t, "Filtro", res.Created[0].ProductName)
}

func TestResolve_IdempotenteYPermiteNuevaAlerta(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.engine.Reconcile(ctx, []entity.ProductSnapshot{snap("p1", 1)}, 5)
	require.NoError(t, err)
	id := res.Created[0].ID

	r1, err := f.engine.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, r1.Status)
	require.NotNil(t, r1.ResolvedAt)

	r2, err := f.engine.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, r2.Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AlertsResolved))

	again, err := f.engine.Reconcile(ctx, []entity.ProductSnapshot{snap("p1", 1)}, 5)
	require.NoError(t, err)
	require.Len(t, again.Created, 1)
	assert.NotEqual(t, id, again.Created[0].ID)
}

func TestResolve_Inexistente(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.engine.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.engine.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolveRecovered(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.engine.Reconcile(ctx, []entity.ProductSnapshot{snap("p1", 1), snap("p2", 2)}, 5)
	require.NoError(t, err)

	resolved, failures, err := f.engine.ResolveRecovered(ctx, []entity.ProductSnapshot{snap("p1", 8), snap("p2", 2)}, 5)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, resolved, 1)
	assert.Equal(t, "p1", resolved[0].ProductID)

	active, err := f.engine.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "p2", active[0].ProductID)
}
