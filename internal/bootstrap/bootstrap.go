// Package bootstrap arma los casos de uso sobre el backend de persistencia configurado.
// Lo comparten el servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/restocking"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/catalogcsv"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// Services casos de uso listos para usar.
type Services struct {
	Ledger     *ledger.UseCase
	Analytics  *analytics.UseCase
	Thresholds *restocking.ThresholdUseCase
	Alerts     *restocking.AlertEngine
	Reports    *report.Service
	Metrics    *metrics.StockMetrics

	// Pool es nil con STORE_DRIVER=memory.
	Pool *pgxpool.Pool

	putProduct func(ctx context.Context, p *entity.Product) error
	log        *logger.Logger
}

// Close libera las conexiones.
func (s *Services) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

type stores struct {
	events     repository.StockEventRepository
	products   repository.ProductRepository
	thresholds repository.ThresholdRepository
	alerts     repository.AlertRepository
	tx         ledger.TxRunner
	put        func(ctx context.Context, p *entity.Product) error
}

// Build conecta el backend y construye los casos de uso. registry puede ser nil (sin /metrics).
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, registry prometheus.Registerer) (*Services, error) {
	m := metrics.NewUnregistered()
	if registry != nil {
		var err error
		if m, err = metrics.New(registry); err != nil {
			return nil, err
		}
	}

	svc := &Services{Metrics: m, log: log}
	var st stores
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		mem := memory.New()
		st = stores{mem.Events(), mem.Products(), mem.Thresholds(), mem.Alerts(), mem.TxRunner(),
			func(_ context.Context, p *entity.Product) error {
				mem.PutProduct(*p)
				return nil
			}}
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("esquema aplicado")
		}
		svc.Pool = pool
		productRepo := postgres.NewProductRepository(pool)
		st = stores{
			events:     postgres.NewStockEventRepository(pool),
			products:   productRepo,
			thresholds: postgres.NewThresholdRepository(pool),
			alerts:     postgres.NewAlertRepository(pool),
			tx:         postgres.NewTxRunner(pool),
			put:        productRepo.Create,
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}

	if ttl := cfg.Store.ThresholdCacheTTL; ttl > 0 {
		st.thresholds = cache.NewThresholdRepo(st.thresholds, time.Duration(ttl)*time.Second)
	}

	svc.putProduct = st.put
	svc.Ledger = ledger.NewUseCase(st.events, st.tx, log, m)
	svc.Analytics = analytics.NewUseCase(st.events, st.products, st.alerts, cfg.Alerts.DashboardLowStock)
	svc.Thresholds = restocking.NewThresholdUseCase(st.thresholds, m)
	svc.Alerts = restocking.NewAlertEngine(st.alerts, st.products, svc.Thresholds, log, m)
	svc.Reports = report.NewService(st.products, st.events, svc.Thresholds,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name+" - reporte de stock"),
		report.Options{
			DefaultThreshold: cfg.Alerts.DefaultThreshold,
			WindowDays:       cfg.Reports.WindowDays,
			Concurrency:      cfg.Reports.HistoryConcurrency,
		}, log)

	log.Info().
		Str("store", cfg.Store.Driver).
		Int("default_threshold", cfg.Alerts.DefaultThreshold).
		Msg("servicios inicializados")

	if cfg.Store.SeedFile != "" {
		if _, err := svc.SeedCatalog(ctx, cfg.Store.SeedFile, cfg.Store.SeedCharset); err != nil {
			svc.Close()
			return nil, err
		}
	}
	return svc, nil
}

// SeedResult conteo de una carga de catálogo.
type SeedResult struct {
	Inserted int
	Skipped  int // sku o id ya existentes
}

// SeedCatalog carga productos desde un CSV. Los duplicados se omiten.
func (s *Services) SeedCatalog(ctx context.Context, path, charset string) (SeedResult, error) {
	var res SeedResult
	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("abrir catálogo: %w", err)
	}
	defer f.Close()

	products, err := catalogcsv.Parse(f, charset)
	if err != nil {
		return res, err
	}
	for i := range products {
		err := s.putProduct(ctx, &products[i])
		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
		default:
			return res, fmt.Errorf("insertar %s: %w", products[i].SKU, err)
		}
	}
	s.log.Info().
		Str("file", path).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Msg("catálogo cargado")
	return res, nil
}
