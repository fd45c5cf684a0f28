package dto

import "github.com/jhoicas/stock-ledger/internal/application/analytics"

// DashboardSummaryDTO respuesta de GET /api/inventory/dashboard.
type DashboardSummaryDTO struct {
	TotalProducts   int                  `json:"total_products"`
	LowStockCount   int                  `json:"low_stock_count"`    // 0 < stock < corte del dashboard
	OutOfStockCount int                  `json:"out_of_stock_count"` // stock == 0
	ActiveAlerts    int                  `json:"active_alerts"`
	RecentChanges   []StockEventResponse `json:"recent_changes"` // últimos 10 eventos
}

// FromDashboard mapea el resumen.
func FromDashboard(s *analytics.DashboardSummary) DashboardSummaryDTO {
	return DashboardSummaryDTO{
		TotalProducts:   s.TotalProducts,
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
		ActiveAlerts:    s.ActiveAlerts,
		RecentChanges:   FromStockEvents(s.RecentChanges),
	}
}

// FromProductHistory mapea la historia con estadísticas.
func FromProductHistory(h *analytics.ProductHistory) ProductHistoryResponse {
	return ProductHistoryResponse{
		ProductID:  h.ProductID,
		Events:     FromStockEvents(h.Events),
		Statistics: FromStatistics(h.Statistics),
	}
}
