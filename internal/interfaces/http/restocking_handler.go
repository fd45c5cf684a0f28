package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/restocking"
)

// RestockingHandler umbrales y alertas de reposición (protegido).
type RestockingHandler struct {
	thresholds    *restocking.ThresholdUseCase
	engine        *restocking.AlertEngine
	globalDefault int
}

// NewRestockingHandler construye el handler. globalDefault es el umbral global configurado.
func NewRestockingHandler(th *restocking.ThresholdUseCase, engine *restocking.AlertEngine, globalDefault int) *RestockingHandler {
	return &RestockingHandler{thresholds: th, engine: engine, globalDefault: globalDefault}
}

// GetThreshold godoc
// @Summary      Umbral efectivo de un producto
// @Tags         thresholds
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ThresholdResponse
// @Router       /api/thresholds/{productId} [get]
func (h *RestockingHandler) GetThreshold(c *fiber.Ctx) error {
	productID := c.Params("productId")
	v, ok, err := h.thresholds.Get(c.UserContext(), productID)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		v = h.globalDefault
	}
	return c.JSON(dto.ThresholdResponse{ProductID: productID, Value: v, Custom: ok})
}

// SetThreshold godoc
// @Summary      Fijar el umbral de un producto
// @Tags         thresholds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                   true  "ID del producto"
// @Param        body       body  dto.SetThresholdRequest  true  "value > 0"
// @Success      200  {object}  dto.ThresholdResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/thresholds/{productId} [put]
func (h *RestockingHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.SetThresholdRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	t, err := h.thresholds.Set(c.UserContext(), c.Params("productId"), in.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ThresholdResponse{ProductID: t.ProductID, Value: t.Value, Custom: true})
}

// ListAlerts godoc
// @Summary      Alertas de reposición activas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *RestockingHandler) ListAlerts(c *fiber.Ctx) error {
	list, err := h.engine.ActiveAlerts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAlerts(list))
}

// Reconcile godoc
// @Summary      Reconciliar alertas contra el catálogo
// @Description  Crea alertas para los productos bajo su umbral que no tengan una activa.
// @Description  Con resolve_recovered=true también resuelve las de productos recuperados.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        resolve_recovered  query  bool  false  "resolver alertas de productos recuperados"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/alerts/reconcile [post]
func (h *RestockingHandler) Reconcile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	res, err := h.engine.ReconcileCatalog(ctx, h.globalDefault)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.FromReconcileResult(res)
	if c.QueryBool("resolve_recovered") {
		resolved, failures, err := h.engine.ResolveRecoveredCatalog(ctx, h.globalDefault)
		if err != nil {
			return writeError(c, err)
		}
		out.Resolved = dto.FromAlerts(resolved)
		for _, f := range failures {
			out.Failures = append(out.Failures, dto.ReconcileFailureDTO{ProductID: f.ProductID, Error: f.Err.Error()})
		}
		active, err := h.engine.ActiveAlerts(ctx)
		if err != nil {
			return writeError(c, err)
		}
		out.Active = dto.FromAlerts(active)
	}
	return c.JSON(out)
}

// ResolveAlert godoc
// @Summary      Resolver una alerta
// @Description  Idempotente: resolver una alerta ya resuelta devuelve la alerta sin cambios.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *RestockingHandler) ResolveAlert(c *fiber.Ctx) error {
	a, err := h.engine.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAlert(*a))
}
