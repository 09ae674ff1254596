package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/domain"
)

// respondError traduce los errores de dominio a estados HTTP. Los errores no
// reconocidos se devuelven como 500 con su mensaje.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrSaleAlreadyVoided):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Error: err.Error()})
}
