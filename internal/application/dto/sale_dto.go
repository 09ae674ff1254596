package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
)

// SaleItemRequest línea de venta solicitada.
type SaleItemRequest struct {
	ProductID int64           `json:"productoId" validate:"required"`
	Quantity  decimal.Decimal `json:"cantidad" validate:"required"`
}

// CreateSaleRequest registro de una venta.
type CreateSaleRequest struct {
	Comments string            `json:"comentarios"`
	Items    []SaleItemRequest `json:"productos" validate:"required,min=1,dive"`
}

// SaleHistoryProductDTO producto dentro del historial de ventas: campos
// actuales del producto más la cantidad vendida.
type SaleHistoryProductDTO struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Description  string          `json:"descripcion"`
	Unit         string          `json:"unidad"`
	Quantity     decimal.Decimal `json:"cantidad"` // cantidad vendida
	Brand        string          `json:"marca"`
	Notes        string          `json:"observaciones"`
	ShelfLetter  string          `json:"repisa,omitempty"`
	SlotNumber   string          `json:"estante,omitempty"`
	LocationFree string          `json:"ubicacionLibre,omitempty"`
}

// SaleHistoryDTO una venta del historial.
type SaleHistoryDTO struct {
	ID       int64                   `json:"id"`
	Date     time.Time               `json:"fecha"`
	Comments string                  `json:"comentarios"`
	Voided   bool                    `json:"anulada"`
	Products []SaleHistoryProductDTO `json:"productos"`
}

// NewSaleHistoryDTO mapea la venta con items resueltos al DTO del historial.
func NewSaleHistoryDTO(s *entity.SaleDetail) SaleHistoryDTO {
	out := SaleHistoryDTO{
		ID:       s.ID,
		Date:     s.Date,
		Comments: s.Comments,
		Voided:   s.Voided,
		Products: make([]SaleHistoryProductDTO, 0, len(s.Items)),
	}
	for _, item := range s.Items {
		p := SaleHistoryProductDTO{
			ID:          item.Product.ID,
			SKU:         item.Product.SKU,
			Description: item.Product.Description,
			Unit:        item.Product.Unit,
			Quantity:    item.Quantity,
			Brand:       item.Product.Brand,
			Notes:       item.Product.Notes,
			ShelfLetter: item.Product.ShelfLetter,
			SlotNumber:  item.Product.SlotNumber,
		}
		if free, ok := item.Product.Location.FreeText(); ok {
			p.LocationFree = free
		}
		out.Products = append(out.Products, p)
	}
	return out
}
