package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/application/sales"
	"github.com/cvaldivia/bodega-api/pkg/validator"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create registra una venta y descuenta el stock de cada línea.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "cuerpo inválido"})
	}
	if fails := validator.ValidateStruct(req); len(fails) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errores": fails})
	}
	saleID, err := h.uc.CreateSale(c.Context(), req.Comments, req.Items)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "ventaId": saleID})
}

// Void anula una venta y devuelve el stock de sus líneas.
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "id inválido"})
	}
	if err := h.uc.VoidSale(c.Context(), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "anulada": true})
}

// History devuelve el historial completo de ventas, de la más reciente a la
// más antigua.
func (h *SaleHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.ListSaleHistory(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "ventas": out})
}
