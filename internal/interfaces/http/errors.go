package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// writeError traduce los errores del dominio a status HTTP y ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, dto.CodeInternal
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = fiber.StatusBadRequest, dto.CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, dto.CodeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, dto.CodeInsufficientStock
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, dto.CodeConflict
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, dto.CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, dto.CodeForbidden
	case errors.Is(err, domain.ErrPersistence):
		status, code = fiber.StatusServiceUnavailable, dto.CodeStorageUnavailable
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeInvalidBody, Message: "cuerpo inválido"})
}
