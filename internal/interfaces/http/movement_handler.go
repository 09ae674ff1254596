package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/application/movements"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
	"github.com/cvaldivia/bodega-api/pkg/validator"
)

// MovementHandler maneja la consulta del log de movimientos.
type MovementHandler struct {
	uc *movements.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movements.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List devuelve el log de movimientos paginado, con filtros opcionales de
// fechas (from/to en formato YYYY-MM-DD, inclusivo) y de tipo (tipo=ingreso
// o tipo=egreso).
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var req dto.MovementLogRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "parámetros inválidos"})
	}
	if fails := validator.ValidateStruct(req); len(fails) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errores": fails})
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	filter := repository.MovementFilter{Type: req.Type}
	if req.From != "" {
		t, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "from inválido"})
		}
		filter.From = &t
	}
	if req.To != "" {
		t, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "to inválido"})
		}
		// El filtro es inclusivo: el límite superior cubre el día completo.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	out, err := h.uc.ListMovements(c.Context(), req.Page, req.Limit, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
