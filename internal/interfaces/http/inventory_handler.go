package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja mutaciones de stock, ledger e historia (protegido).
type InventoryHandler struct {
	ledger    *ledger.UseCase
	analytics *analytics.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(l *ledger.UseCase, a *analytics.UseCase) *InventoryHandler {
	return &InventoryHandler{ledger: l, analytics: a}
}

// ApplyMutation godoc
// @Summary      Aplicar una mutación de stock
// @Description  Actualiza el stock del catálogo y registra el evento en la misma transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.StockMutationRequest  true  "kind: restock|sale|adjustment|catalog_edit"
// @Success      201   {object}  dto.StockEventResponse
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/mutations [post]
func (h *InventoryHandler) ApplyMutation(c *fiber.Ctx) error {
	var in dto.StockMutationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ev, err := h.ledger.ApplyStockMutation(c.UserContext(), in.ToMutation(c.Params("id")), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	if ev == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromStockEvent(*ev))
}

// RecordEvent godoc
// @Summary      Registrar un cambio de stock ya aplicado
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEventRequest  true  "product_id, previous_stock, new_stock, event_type"
// @Success      201   {object}  dto.StockEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/events [post]
func (h *InventoryHandler) RecordEvent(c *fiber.Ctx) error {
	var in dto.RecordEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ev, err := h.ledger.RecordChange(c.UserContext(), ledger.RecordChangeInput{
		ProductID:     in.ProductID,
		PreviousStock: in.PreviousStock,
		NewStock:      in.NewStock,
		EventType:     entity.EventType(in.EventType),
		ActorID:       GetUserID(c),
		Notes:         in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromStockEvent(*ev))
}

// History godoc
// @Summary      Historia y estadísticas de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductHistoryResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	hist, err := h.analytics.ProductHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromProductHistory(hist))
}

// Dashboard godoc
// @Summary      Resumen de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/dashboard [get]
func (h *InventoryHandler) Dashboard(c *fiber.Ctx) error {
	sum, err := h.analytics.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDashboard(sum))
}
