package dto

import (
	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
)

// ProductDTO representación JSON de un producto con su ubicación resuelta.
type ProductDTO struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Description  string          `json:"descripcion"`
	Quantity     decimal.Decimal `json:"cantidad"`
	Brand        string          `json:"marca"`
	Unit         string          `json:"unidad"`
	Notes        string          `json:"observaciones"`
	ShelfLetter  string          `json:"repisa,omitempty"`
	SlotNumber   string          `json:"estante,omitempty"`
	LocationFree string          `json:"ubicacionLibre,omitempty"`
}

// NewProductDTO mapea la entidad (con repisa resuelta) al DTO.
func NewProductDTO(p *entity.ProductWithShelf) ProductDTO {
	d := ProductDTO{
		ID:          p.ID,
		SKU:         p.SKU,
		Description: p.Description,
		Quantity:    p.Quantity,
		Brand:       p.Brand,
		Unit:        p.Unit,
		Notes:       p.Notes,
		ShelfLetter: p.ShelfLetter,
		SlotNumber:  p.SlotNumber,
	}
	if free, ok := p.Location.FreeText(); ok {
		d.LocationFree = free
	}
	return d
}

// CreateProductRequest alta manual de producto. La ubicación es o bien la
// pareja repisa/estante o bien texto libre, nunca ambas.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required"`
	Description   string          `json:"descripcion"`
	Quantity      decimal.Decimal `json:"cantidad"`
	Brand         string          `json:"marca"`
	Unit          string          `json:"unidad"`
	Notes         string          `json:"observaciones"`
	ShelfLetterID *int64          `json:"repisaId"`
	ShelfSlotID   *int64          `json:"estanteId"`
	LocationFree  string          `json:"ubicacionLibre"`
}

// Location interpreta los campos de ubicación como unión.
func (r CreateProductRequest) Location() entity.Location {
	if r.ShelfLetterID != nil && r.ShelfSlotID != nil && r.LocationFree == "" {
		return entity.ShelfLocation(*r.ShelfLetterID, *r.ShelfSlotID)
	}
	return entity.FreeTextLocation(r.LocationFree)
}

// UpdateProductRequest edición de producto. El cambio de cantidad se registra
// como movimiento, no como edición directa del campo.
type UpdateProductRequest struct {
	SKU           string          `json:"sku" validate:"required"`
	Description   string          `json:"descripcion"`
	Quantity      decimal.Decimal `json:"cantidad"`
	Brand         string          `json:"marca"`
	Unit          string          `json:"unidad"`
	Notes         string          `json:"observaciones"`
	ShelfLetterID *int64          `json:"repisaId"`
	ShelfSlotID   *int64          `json:"estanteId"`
	LocationFree  string          `json:"ubicacionLibre"`
}

// Location interpreta los campos de ubicación como unión.
func (r UpdateProductRequest) Location() entity.Location {
	if r.ShelfLetterID != nil && r.ShelfSlotID != nil && r.LocationFree == "" {
		return entity.ShelfLocation(*r.ShelfLetterID, *r.ShelfSlotID)
	}
	return entity.FreeTextLocation(r.LocationFree)
}

// SearchProductsRequest parámetros de búsqueda avanzada.
type SearchProductsRequest struct {
	Query       string `query:"query"`
	Brand       string `query:"marca"`
	Unit        string `query:"unidad"`
	MinQuantity string `query:"minCantidad"`
	MaxQuantity string `query:"maxCantidad"`
	ShelfLetter string `query:"repisa" validate:"omitempty,shelf_letter"`
	SlotNumber  string `query:"estante"`
	Skip        int    `query:"skip"`
	Take        int    `query:"take"`
	SortBy      string `query:"sortBy"`
	Order       string `query:"order"`
}

// SearchProductsResponse resultado paginado de la búsqueda.
type SearchProductsResponse struct {
	Success  bool         `json:"success"`
	Products []ProductDTO `json:"productos"`
	Total    int          `json:"total"`
}
