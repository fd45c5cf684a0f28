// Package report genera los reportes de stock y de stock bajo a partir del catálogo,
// el ledger y los umbrales.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/domain"
	stats "github.com/jhoicas/stock-ledger/internal/domain/analytics"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// DateRange rango cerrado [From, To].
type DateRange struct {
	From time.Time
	To   time.Time
}

// CategorySummary conteos por categoría.
type CategorySummary struct {
	Count           int
	TotalStock      int
	OutOfStockCount int
	LowStockCount   int
}

// Summary totales del reporte.
type Summary struct {
	TotalProducts          int
	OutOfStockCount        int
	LowStockCount          int
	AverageStockLevel      float64
	TotalStockChangeEvents int
	InventoryValue         decimal.Decimal
}

// ProductLine una fila por producto.
type ProductLine struct {
	Product        entity.Product
	Threshold      int
	InventoryValue decimal.Decimal // price * stock
	EventsInRange  int
	Statistics     stats.Statistics
}

// StockReport reporte completo de un rango.
type StockReport struct {
	GeneratedAt time.Time
	Range       DateRange
	Summary     Summary
	Categories  map[string]*CategorySummary
	Products    []ProductLine
	Events      []entity.StockEvent // más reciente primero
}

// LowStockReport productos bajo umbral, menor stock primero.
type LowStockReport struct {
	GeneratedAt time.Time
	Threshold   int
	Summary     Summary
	Categories  map[string]*CategorySummary
	Products    []ProductLine
}

// Options parámetros de configuración del generador.
type Options struct {
	DefaultThreshold int // umbral global
	WindowDays       int // rango por defecto
	Concurrency      int // lecturas de historia en paralelo
}

// Service genera reportes.
type Service struct {
	products   repository.ProductRepository
	events     repository.StockEventRepository
	thresholds ThresholdSource
	pdf        ReportPDFGenerator
	opts       Options
	log        *logger.Logger
	now        func() time.Time
}

// NewService construye el servicio. pdf puede ser nil si no se exponen PDFs.
func NewService(
	products repository.ProductRepository,
	events repository.StockEventRepository,
	thresholds ThresholdSource,
	pdf ReportPDFGenerator,
	opts Options,
	log *logger.Logger,
) *Service {
	if opts.WindowDays <= 0 {
		opts.WindowDays = 30
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.DefaultThreshold <= 0 {
		opts.DefaultThreshold = 5
	}
	return &Service{
		products:   products,
		events:     events,
		thresholds: thresholds,
		pdf:        pdf,
		opts:       opts,
		log:        log.Component("report"),
		now:        time.Now,
	}
}

// resolveRange aplica los valores por defecto y valida el orden.
func (s *Service) resolveRange(r DateRange) (DateRange, error) {
	now := s.now()
	if r.To.IsZero() {
		r.To = now
	}
	if r.From.IsZero() {
		r.From = r.To.AddDate(0, 0, -s.opts.WindowDays)
	}
	if r.From.After(r.To) {
		return r, domain.Validation("la fecha inicial es posterior a la final")
	}
	return r, nil
}

// StockReport genera el reporte del rango. Rango vacío = últimos WindowDays días.
// Las estadísticas por producto usan la historia completa; EventsInRange y Events solo el rango.
func (s *Service) StockReport(ctx context.Context, r DateRange) (*StockReport, error) {
	rng, err := s.resolveRange(r)
	if err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, domain.AsPersistence("reporte: catálogo", err)
	}
	events, err := s.events.ListBetween(ctx, rng.From, rng.To)
	if err != nil {
		return nil, domain.AsPersistence("reporte: eventos", err)
	}
	lines, err := s.productLines(ctx, products)
	if err != nil {
		return nil, err
	}

	inRange := make(map[string]int, len(products))
	for _, e := range events {
		inRange[e.ProductID]++
	}
	for i := range lines {
		lines[i].EventsInRange = inRange[lines[i].Product.ID]
	}

	rep := &StockReport{
		GeneratedAt: s.now(),
		Range:       rng,
		Summary:     summarize(lines),
		Categories:  categorize(lines),
		Products:    lines,
		Events:      events,
	}
	rep.Summary.TotalStockChangeEvents = len(events)
	s.log.Debug().
		Int("products", len(lines)).
		Int("events", len(events)).
		Time("from", rng.From).
		Time("to", rng.To).
		Msg("reporte de stock generado")
	return rep, nil
}

// LowStockReport productos con stock < threshold. threshold <= 0 usa el umbral efectivo
// de cada producto.
func (s *Service) LowStockReport(ctx context.Context, threshold int) (*LowStockReport, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, domain.AsPersistence("reporte: catálogo", err)
	}
	lines, err := s.productLines(ctx, products)
	if err != nil {
		return nil, err
	}

	low := make([]ProductLine, 0)
	for _, l := range lines {
		cut := l.Threshold
		if threshold > 0 {
			cut = threshold
			l.Threshold = threshold
		}
		if l.Product.Stock < cut {
			low = append(low, l)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		if low[i].Product.Stock != low[j].Product.Stock {
			return low[i].Product.Stock < low[j].Product.Stock
		}
		return low[i].Product.ID < low[j].Product.ID
	})

	return &LowStockReport{
		GeneratedAt: s.now(),
		Threshold:   threshold,
		Summary:     summarize(low),
		Categories:  categorize(low),
		Products:    low,
	}, nil
}

// StockReportPDF genera el reporte del rango y lo renderiza.
func (s *Service) StockReportPDF(ctx context.Context, r DateRange) ([]byte, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("reporte: generador PDF no configurado")
	}
	rep, err := s.StockReport(ctx, r)
	if err != nil {
		return nil, err
	}
	doc, err := s.pdf.GenerateStockReportPDF(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("reporte: pdf: %w", err)
	}
	return doc, nil
}

// productLines lee umbral e historia de cada producto con a lo sumo Concurrency lecturas en vuelo.
func (s *Service) productLines(ctx context.Context, products []*entity.Product) ([]ProductLine, error) {
	lines := make([]ProductLine, len(products))
	asOf := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, p := range products {
		g.Go(func() error {
			threshold, err := s.thresholds.Effective(gctx, p.ID, s.opts.DefaultThreshold)
			if err != nil {
				return fmt.Errorf("umbral %s: %w", p.ID, err)
			}
			history, err := s.events.ListByProduct(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("historia %s: %w", p.ID, err)
			}
			lines[i] = ProductLine{
				Product:        *p,
				Threshold:      threshold,
				InventoryValue: p.Price.Mul(decimal.NewFromInt(int64(p.Stock))),
				Statistics:     stats.Analyze(history, asOf),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.AsPersistence("reporte: productos", err)
	}
	return lines, nil
}

func isLow(l ProductLine) bool {
	return l.Product.Stock > 0 && l.Product.Stock < l.Threshold
}

func summarize(lines []ProductLine) Summary {
	sum := Summary{TotalProducts: len(lines), InventoryValue: decimal.Zero}
	total := 0
	for _, l := range lines {
		total += l.Product.Stock
		sum.InventoryValue = sum.InventoryValue.Add(l.InventoryValue)
		switch {
		case l.Product.Stock == 0:
			sum.OutOfStockCount++
		case isLow(l):
			sum.LowStockCount++
		}
	}
	if len(lines) > 0 {
		sum.AverageStockLevel = float64(total) / float64(len(lines))
	}
	return sum
}

func categorize(lines []ProductLine) map[string]*CategorySummary {
	cats := make(map[string]*CategorySummary)
	for _, l := range lines {
		c, ok := cats[l.Product.Category]
		if !ok {
			c = &CategorySummary{}
			cats[l.Product.Category] = c
		}
		c.Count++
		c.TotalStock += l.Product.Stock
		switch {
		case l.Product.Stock == 0:
			c.OutOfStockCount++
		case isLow(l):
			c.LowStockCount++
		}
	}
	return cats
}
