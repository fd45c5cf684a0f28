// Package analytics contiene los casos de uso de lectura sobre el ledger:
// historia de un producto con sus estadísticas y el resumen del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/domain"
	stats "github.com/jhoicas/stock-ledger/internal/domain/analytics"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const recentChangesLimit = 10 // eventos en el feed del dashboard

// ProductHistory historia completa de un producto (más reciente primero) y sus estadísticas.
type ProductHistory struct {
	ProductID  string
	Events     []entity.StockEvent
	Statistics stats.Statistics
}

// DashboardSummary conteos del catálogo y últimos cambios.
type DashboardSummary struct {
	TotalProducts   int
	LowStockCount   int // 0 < stock < lowStockCut
	OutOfStockCount int
	ActiveAlerts    int
	RecentChanges   []entity.StockEvent
}

// UseCase lecturas de analítica.
//
// Fuente de datos: ledger (StockEventRepository), catálogo y alertas, todos read-only.
type UseCase struct {
	events      repository.StockEventRepository
	products    repository.ProductRepository
	alerts      repository.AlertRepository
	lowStockCut int
	now         func() time.Time
}

// NewUseCase construye el caso de uso. lowStockCut es el corte de "stock bajo" del dashboard.
func NewUseCase(
	events repository.StockEventRepository,
	products repository.ProductRepository,
	alerts repository.AlertRepository,
	lowStockCut int,
) *UseCase {
	return &UseCase{
		events:      events,
		products:    products,
		alerts:      alerts,
		lowStockCut: lowStockCut,
		now:         time.Now,
	}
}

// ProductHistory lee la historia del producto y calcula sus estadísticas.
// Un quiebre de stock abierto se cuenta hasta ahora.
func (uc *UseCase) ProductHistory(ctx context.Context, productID string) (*ProductHistory, error) {
	if productID == "" {
		return nil, domain.Validation("product_id requerido")
	}
	events, err := uc.events.ListByProduct(ctx, productID)
	if err != nil {
		return nil, domain.AsPersistence("leer historia", err)
	}
	if events == nil {
		events = []entity.StockEvent{}
	}
	return &ProductHistory{
		ProductID:  productID,
		Events:     events,
		Statistics: stats.Analyze(events, uc.now()),
	}, nil
}

// Dashboard construye el resumen.
//
// Tres lecturas en paralelo:
//  1. catálogo          → conteos de stock
//  2. ledger reciente   → RecentChanges
//  3. alertas activas   → ActiveAlerts
func (uc *UseCase) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var (
		products []*entity.Product
		recent   []entity.StockEvent
		active   []entity.RestockingAlert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if products, err = uc.products.List(gctx); err != nil {
			return fmt.Errorf("dashboard: catálogo: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if recent, err = uc.events.ListRecent(gctx, recentChangesLimit); err != nil {
			return fmt.Errorf("dashboard: cambios recientes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if active, err = uc.alerts.ListActive(gctx); err != nil {
			return fmt.Errorf("dashboard: alertas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, domain.AsPersistence("dashboard", err)
	}

	summary := &DashboardSummary{
		TotalProducts: len(products),
		ActiveAlerts:  len(active),
		RecentChanges: recent,
	}
	if summary.RecentChanges == nil {
		summary.RecentChanges = []entity.StockEvent{}
	}
	for _, p := range products {
		switch {
		case p.Stock == 0:
			summary.OutOfStockCount++
		case p.Stock > 0 && p.Stock < uc.lowStockCut:
			summary.LowStockCount++
		}
	}
	return summary, nil
}
