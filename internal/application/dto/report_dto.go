package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// StockReportRequest parámetros de GET /api/reports/stock.
type StockReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto hoy menos la ventana
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// LowStockReportRequest parámetros de GET /api/reports/low-stock.
type LowStockReportRequest struct {
	Threshold int `query:"threshold"` // 0 = umbral efectivo de cada producto
}

// ReportSummaryDTO totales del reporte.
type ReportSummaryDTO struct {
	TotalProducts          int             `json:"total_products"`
	OutOfStockCount        int             `json:"out_of_stock_count"`
	LowStockCount          int             `json:"low_stock_count"`
	AverageStockLevel      decimal.Decimal `json:"average_stock_level"`
	TotalStockChangeEvents int             `json:"total_stock_change_events"`
	InventoryValue         decimal.Decimal `json:"inventory_value"`
}

// CategorySummaryDTO conteos por categoría.
type CategorySummaryDTO struct {
	Count           int `json:"count"`
	TotalStock      int `json:"total_stock"`
	OutOfStockCount int `json:"out_of_stock_count"`
	LowStockCount   int `json:"low_stock_count"`
}

// ReportProductDTO una fila por producto.
type ReportProductDTO struct {
	ProductID      string             `json:"product_id"`
	SKU            string             `json:"sku"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	Stock          int                `json:"stock"`
	Threshold      int                `json:"threshold"`
	InventoryValue decimal.Decimal    `json:"inventory_value"`
	EventsInRange  int                `json:"events_in_range"`
	Statistics     StatisticsResponse `json:"statistics"`
}

// StockReportDTO respuesta de GET /api/reports/stock.
type StockReportDTO struct {
	ReportDate time.Time                     `json:"report_date"`
	StartDate  time.Time                     `json:"start_date"`
	EndDate    time.Time                     `json:"end_date"`
	Summary    ReportSummaryDTO              `json:"summary"`
	Categories map[string]CategorySummaryDTO `json:"categories"`
	Products   []ReportProductDTO            `json:"products"`
	Events     []StockEventResponse          `json:"stock_events"`
}

// LowStockReportDTO respuesta de GET /api/reports/low-stock.
type LowStockReportDTO struct {
	ReportDate time.Time                     `json:"report_date"`
	Threshold  int                           `json:"threshold,omitempty"`
	Summary    ReportSummaryDTO              `json:"summary"`
	Categories map[string]CategorySummaryDTO `json:"categories"`
	Products   []ReportProductDTO            `json:"products"`
}

// FromStockReport mapea el reporte.
func FromStockReport(r *report.StockReport) StockReportDTO {
	return StockReportDTO{
		ReportDate: r.GeneratedAt,
		StartDate:  r.Range.From,
		EndDate:    r.Range.To,
		Summary:    fromSummary(r.Summary),
		Categories: fromCategories(r.Categories),
		Products:   fromLines(r.Products),
		Events:     FromStockEvents(r.Events),
	}
}

// FromLowStockReport mapea el reporte de stock bajo.
func FromLowStockReport(r *report.LowStockReport) LowStockReportDTO {
	return LowStockReportDTO{
		ReportDate: r.GeneratedAt,
		Threshold:  r.Threshold,
		Summary:    fromSummary(r.Summary),
		Categories: fromCategories(r.Categories),
		Products:   fromLines(r.Products),
	}
}

func fromSummary(s report.Summary) ReportSummaryDTO {
	return ReportSummaryDTO{
		TotalProducts:          s.TotalProducts,
		OutOfStockCount:        s.OutOfStockCount,
		LowStockCount:          s.LowStockCount,
		AverageStockLevel:      decimal.NewFromFloat(s.AverageStockLevel).Round(2),
		TotalStockChangeEvents: s.TotalStockChangeEvents,
		InventoryValue:         s.InventoryValue.Round(2),
	}
}

func fromCategories(cats map[string]*report.CategorySummary) map[string]CategorySummaryDTO {
	out := make(map[string]CategorySummaryDTO, len(cats))
	for name, c := range cats {
		out[name] = CategorySummaryDTO{
			Count:           c.Count,
			TotalStock:      c.TotalStock,
			OutOfStockCount: c.OutOfStockCount,
			LowStockCount:   c.LowStockCount,
		}
	}
	return out
}

func fromLines(lines []report.ProductLine) []ReportProductDTO {
	out := make([]ReportProductDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, ReportProductDTO{
			ProductID:      l.Product.ID,
			SKU:            l.Product.SKU,
			Name:           l.Product.Name,
			Category:       l.Product.Category,
			Stock:          l.Product.Stock,
			Threshold:      l.Threshold,
			InventoryValue: l.InventoryValue.Round(2),
			EventsInRange:  l.EventsInRange,
			Statistics:     FromStatistics(l.Statistics),
		})
	}
	return out
}
