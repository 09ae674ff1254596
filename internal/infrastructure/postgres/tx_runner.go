package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cvaldivia/bodega-api/internal/application/ports"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
)

// Ensure TxRunner implements ports.TxRunner.
var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// txUnit unidad de trabajo atada a una transacción (o subtransacción) pgx.
type txUnit struct {
	tx pgx.Tx
}

var _ ports.UnitOfWork = (*txUnit)(nil)

func (u *txUnit) Products() repository.ProductRepository   { return NewProductRepository(u.tx) }
func (u *txUnit) Shelves() repository.ShelfRepository      { return NewShelfRepository(u.tx) }
func (u *txUnit) Movements() repository.MovementRepository { return NewMovementRepository(u.tx) }
func (u *txUnit) Sales() repository.SaleRepository         { return NewSaleRepository(u.tx) }

// Nested abre una subtransacción (pgx la implementa como SAVEPOINT): si fn
// falla se hace ROLLBACK TO SAVEPOINT y la transacción padre sigue usable.
func (u *txUnit) Nested(ctx context.Context, fn func(uow ports.UnitOfWork) error) error {
	sub, err := u.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	if err := fn(&txUnit{tx: sub}); err != nil {
		_ = sub.Rollback(ctx)
		return err
	}
	if err := sub.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

// Run inicia una transacción, ejecuta fn con la unidad de trabajo atada a la
// tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(uow ports.UnitOfWork) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txUnit{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWithTimeout igual que Run pero acotado por un presupuesto de tiempo.
// El deadline se propaga por el contexto a todas las operaciones de la tx.
func (r *TxRunner) RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(uow ports.UnitOfWork) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.Run(ctx, fn)
}
