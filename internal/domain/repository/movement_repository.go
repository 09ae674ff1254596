package repository

import (
	"context"
	"time"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
)

// MovementFilter criterios de consulta del log de movimientos. From y to
// acotan por fecha (inclusivo); Type restringe a "ingreso" o "egreso".
// Todos son opcionales.
type MovementFilter struct {
	From *time.Time
	To   *time.Time
	Type string
}

// MovementRepository puerto de persistencia para movimientos de stock.
// Los movimientos son de solo inserción: nunca se actualizan, y solo se
// eliminan en cascada junto con su producto.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve movimientos que cumplen el filtro, del más reciente al
	// más antiguo, con su producto.
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.MovementWithProduct, error)
	Count(ctx context.Context, filter MovementFilter) (int, error)
	DeleteByProduct(ctx context.Context, productID int64) error
}
