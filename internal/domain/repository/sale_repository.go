package repository

import (
	"context"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas.
type SaleRepository interface {
	// Create persiste la venta con sus items en una sola escritura y
	// asigna los IDs.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	MarkVoided(ctx context.Context, id int64) error
	// ListHistory devuelve las ventas de la más reciente a la más antigua,
	// con los datos actuales de cada producto.
	ListHistory(ctx context.Context) ([]*entity.SaleDetail, error)
	DeleteItemsByProduct(ctx context.Context, productID int64) error
}
