package report

import "context"

// ThresholdSource resuelve el umbral efectivo de un producto.
type ThresholdSource interface {
	Effective(ctx context.Context, productID string, globalDefault int) (int, error)
}

// ReportPDFGenerator genera la representación PDF de un reporte de stock.
type ReportPDFGenerator interface {
	GenerateStockReportPDF(ctx context.Context, r *StockReport) ([]byte, error)
}
