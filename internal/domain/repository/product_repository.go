package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
)

// ProductFilter criterios de búsqueda de productos. Tokens se combinan con
// AND; cada token debe coincidir (subcadena, sin distinguir mayúsculas ni
// tildes) con al menos uno de sku/marca/descripción/observaciones.
type ProductFilter struct {
	Tokens      []string
	Brand       string
	Unit        string
	MinQuantity *decimal.Decimal
	MaxQuantity *decimal.Decimal
	ShelfLetter string
	SlotNumber  string
	SortBy      string // campo de orden (lista blanca en el adaptador)
	SortDesc    bool
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create persiste un producto nuevo y asigna su ID.
	// Devuelve domain.ErrDuplicate si el SKU ya existe.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.ProductWithShelf, error)
	ExistsSKU(ctx context.Context, sku string) (bool, error)
	// Update reescribe la fila completa (campos, cantidad y ubicación).
	Update(ctx context.Context, product *entity.Product) error
	Search(ctx context.Context, filter ProductFilter) ([]*entity.ProductWithShelf, int, error)
	// Delete elimina el producto; domain.ErrConflict si hay ventas o
	// movimientos que lo referencian.
	Delete(ctx context.Context, id int64) error
}
