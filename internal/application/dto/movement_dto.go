package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
)

// MovementDTO una entrada del log de movimientos con su producto.
type MovementDTO struct {
	ID       int64           `json:"id"`
	Type     string          `json:"tipo"`
	Quantity decimal.Decimal `json:"cantidad"`
	Date     time.Time       `json:"fecha"`
	Notes    string          `json:"observaciones"`
	SaleID   *int64          `json:"ventaId,omitempty"`
	Product  ProductDTO      `json:"producto"`
}

// NewMovementDTO mapea el movimiento con producto resuelto al DTO.
func NewMovementDTO(m *entity.MovementWithProduct) MovementDTO {
	return MovementDTO{
		ID:       m.ID,
		Type:     m.Type,
		Quantity: m.Quantity,
		Date:     m.Date,
		Notes:    m.Notes,
		SaleID:   m.SaleID,
		Product:  NewProductDTO(&m.Product),
	}
}

// MovementLogRequest parámetros de consulta del log de movimientos. Las
// fechas llegan como YYYY-MM-DD y el rango es inclusivo.
type MovementLogRequest struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	From  string `query:"from"`
	To    string `query:"to"`
	Type  string `query:"tipo" validate:"omitempty,movement_type"`
}

// MovementLogResponse log paginado de movimientos.
type MovementLogResponse struct {
	Data []MovementDTO `json:"data"`
	PageMeta
}
