package ports

import (
	"context"
	"time"

	"github.com/cvaldivia/bodega-api/internal/domain/repository"
)

// UnitOfWork expone repositorios atados a una misma transacción de BD.
type UnitOfWork interface {
	Products() repository.ProductRepository
	Shelves() repository.ShelfRepository
	Movements() repository.MovementRepository
	Sales() repository.SaleRepository

	// Nested ejecuta fn en una subtransacción (SAVEPOINT). Si fn devuelve
	// error, solo se revierte lo hecho dentro de fn; la transacción padre
	// sigue siendo usable. Lo usa la importación masiva para que el fallo
	// de una fila no tumbe el lote completo.
	Nested(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// TxRunner ejecuta una función dentro de una transacción de BD. Garantiza
// que la actualización del producto y la inserción del movimiento persisten
// juntas o no persisten, y lo mismo para el lote de importación.
type TxRunner interface {
	Run(ctx context.Context, fn func(uow UnitOfWork) error) error

	// RunWithTimeout igual que Run pero con un presupuesto de tiempo propio
	// (lo usa la importación masiva, que puede procesar archivos grandes).
	RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(uow UnitOfWork) error) error
}
