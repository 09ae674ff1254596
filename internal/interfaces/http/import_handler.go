package http

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/application/importer"
	"github.com/cvaldivia/bodega-api/internal/domain"
)

// ImportHandler maneja la carga de planillas para importación masiva.
type ImportHandler struct {
	uc        *importer.UseCase
	uploadDir string
}

// NewImportHandler construye el handler. uploadDir es el directorio temporal
// donde se deja el archivo subido mientras se procesa.
func NewImportHandler(uc *importer.UseCase, uploadDir string) *ImportHandler {
	return &ImportHandler{uc: uc, uploadDir: uploadDir}
}

// Upload recibe la planilla (campo multipart "archivo") y ejecuta la
// importación. Con errores por fila responde 400, aunque las filas correctas
// quedaron guardadas.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Error: "archivo requerido"})
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return respondError(c, fmt.Errorf("preparar directorio de carga: %w", err))
	}
	path := filepath.Join(h.uploadDir, uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		return respondError(c, fmt.Errorf("guardar archivo: %w", err))
	}

	// El caso de uso elimina el archivo temporal por cualquier camino.
	result, err := h.uc.Execute(c.Context(), path)
	if err != nil {
		if errors.Is(err, domain.ErrImportTimeout) {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Success: false,
				Error:   "El proceso de importación fue demasiado largo.",
			})
		}
		return respondError(c, err)
	}
	if !result.Success {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.JSON(result)
}
