package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/restocking"
)

// Roles con permiso de escritura sobre umbrales y alertas.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger           *ledger.UseCase
	Analytics        *analytics.UseCase
	Thresholds       *restocking.ThresholdUseCase
	Alerts           *restocking.AlertEngine
	Reports          *report.Service
	DefaultThreshold int
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(RoleAdmin, RoleBodeguero)

	// Inventario: mutaciones, ledger, historia
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Analytics)
	inv.Post("/products/:id/mutations", inventoryHandler.ApplyMutation)
	inv.Post("/events", inventoryHandler.RecordEvent)
	inv.Get("/products/:id/history", inventoryHandler.History)
	inv.Get("/dashboard", inventoryHandler.Dashboard)

	// Umbrales y alertas
	restockingHandler := NewRestockingHandler(deps.Thresholds, deps.Alerts, deps.DefaultThreshold)
	thresholds := api.Group("/thresholds")
	thresholds.Get("/:productId", restockingHandler.GetThreshold)
	thresholds.Put("/:productId", writers, restockingHandler.SetThreshold)

	alerts := api.Group("/alerts")
	alerts.Get("/", restockingHandler.ListAlerts)
	alerts.Post("/reconcile", restockingHandler.Reconcile)
	alerts.Post("/:id/resolve", writers, restockingHandler.ResolveAlert)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/stock", reportHandler.StockReport)
	reports.Get("/stock.pdf", reportHandler.StockReportPDF)
	reports.Get("/low-stock", reportHandler.LowStockReport)
}
