package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

const dateLayout = "2006-01-02"

// ReportHandler reportes de stock (protegido).
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// parseRange lee start_date y end_date (YYYY-MM-DD). end_date incluye el día completo.
func parseRange(c *fiber.Ctx) (report.DateRange, error) {
	var (
		in  dto.StockReportRequest
		rng report.DateRange
	)
	if err := c.QueryParser(&in); err != nil {
		return rng, domain.Validation("parámetros inválidos")
	}
	if in.StartDate != "" {
		t, err := time.Parse(dateLayout, in.StartDate)
		if err != nil {
			return rng, domain.Validation(fmt.Sprintf("start_date inválida: %q", in.StartDate))
		}
		rng.From = t
	}
	if in.EndDate != "" {
		t, err := time.Parse(dateLayout, in.EndDate)
		if err != nil {
			return rng, domain.Validation(fmt.Sprintf("end_date inválida: %q", in.EndDate))
		}
		rng.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return rng, nil
}

// StockReport godoc
// @Summary      Reporte de stock por rango
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD (por defecto hoy menos la ventana)"
// @Param        end_date    query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.StockReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockReport(c *fiber.Ctx) error {
	rng, err := parseRange(c)
	if err != nil {
		return writeError(c, err)
	}
	rep, err := h.svc.StockReport(c.UserContext(), rng)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromStockReport(rep))
}

// StockReportPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockReportPDF(c *fiber.Ctx) error {
	rng, err := parseRange(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.svc.StockReportPDF(c.UserContext(), rng)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-stock.pdf"`)
	return c.Send(doc)
}

// LowStockReport godoc
// @Summary      Productos bajo umbral
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "corte fijo; vacío usa el umbral efectivo de cada producto"
// @Success      200  {object}  dto.LowStockReportDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStockReport(c *fiber.Ctx) error {
	var in dto.LowStockReportRequest
	if err := c.QueryParser(&in); err != nil {
		return writeError(c, domain.Validation("threshold inválido"))
	}
	rep, err := h.svc.LowStockReport(c.UserContext(), in.Threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromLowStockReport(rep))
}
