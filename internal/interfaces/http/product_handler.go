package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cvaldivia/bodega-api/internal/application/catalog"
	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/pkg/validator"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos.
type ProductHandler struct {
	uc *catalog.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Search busca productos con filtros y paginación.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchProductsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "parámetros inválidos"})
	}
	if fails := validator.ValidateStruct(req); len(fails) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errores": fails})
	}
	out, err := h.uc.SearchProducts(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetBySKU obtiene un producto por SKU exacto.
func (h *ProductHandler) GetBySKU(c *fiber.Ctx) error {
	out, err := h.uc.GetProductBySKU(c.Context(), c.Params("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "producto": out})
}

// Create da de alta un producto. Si el SKU ya existe suma la cantidad al
// stock en lugar de fallar.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "cuerpo inválido"})
	}
	if fails := validator.ValidateStruct(req); len(fails) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errores": fails})
	}
	product, err := h.uc.CreateProduct(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetProductBySKU(c.Context(), product.SKU)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "producto": out})
}

// Update edita un producto; la diferencia de cantidad queda registrada como
// movimiento de ajuste.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "id inválido"})
	}
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "cuerpo inválido"})
	}
	if fails := validator.ValidateStruct(req); len(fails) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errores": fails})
	}
	product, err := h.uc.UpdateProduct(c.Context(), int64(id), req)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetProductBySKU(c.Context(), product.SKU)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "producto": out})
}

// Delete elimina un producto. Si tiene ventas o movimientos asociados
// responde 409 con needsConfirmation; repetir con ?cascade=true elimina
// también esas referencias.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "id inválido"})
	}
	cascade := c.QueryBool("cascade", false)
	if err := h.uc.DeleteProduct(c.Context(), int64(id), cascade); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":           false,
				"needsConfirmation": true,
				"error":             "El producto tiene ventas o movimientos asociados.",
			})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
