// Package stock implementa el servicio de mutación de stock: todo cambio de
// cantidad de un producto pasa por aquí y deja exactamente un movimiento en
// el historial, de forma atómica.
package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/application/ports"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

// UseCase servicio de mutación de stock.
type UseCase struct {
	txRunner ports.TxRunner
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, log: log}
}

// ProductUpdate cambios de campos adicionales que acompañan a una mutación de
// stock (edición de producto). Los campos nil no se tocan.
type ProductUpdate struct {
	SKU         *string
	Description *string
	Brand       *string
	Unit        *string
	Notes       *string
	Location    *entity.Location
}

// ChangeInput entrada de ChangeStock. Delta puede ser negativo (salida);
// el movimiento guarda siempre la magnitud.
type ChangeInput struct {
	ProductID int64
	Delta     decimal.Decimal
	Type      string // entity.MovementIngreso | entity.MovementEgreso
	SaleID    *int64
	Context   string // nota que queda en el movimiento
	Update    *ProductUpdate
}

// ChangeStock lee la cantidad actual, calcula la nueva y, en una sola
// transacción, actualiza el producto (más los campos de Update si vienen) e
// inserta el movimiento. O persisten ambos o ninguno.
//
// Esta capa no verifica piso: una cantidad resultante negativa se permite; la
// suficiencia de stock la valida el flujo de ventas antes de llamar.
func (uc *UseCase) ChangeStock(ctx context.Context, in ChangeInput) (*entity.Product, error) {
	if in.Type != entity.MovementIngreso && in.Type != entity.MovementEgreso {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(uow ports.UnitOfWork) error {
		product, err := uow.Products().GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		if in.Update != nil {
			in.Update.Apply(product)
		}
		product.Quantity = product.Quantity.Add(in.Delta)
		if err := uow.Products().Update(ctx, product); err != nil {
			return err
		}

		mov := &entity.Movement{
			ProductID: product.ID,
			Type:      in.Type,
			Quantity:  in.Delta.Abs(),
			Notes:     in.Context,
			SaleID:    in.SaleID,
		}
		if err := uow.Movements().Create(ctx, mov); err != nil {
			return err
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug().
		Int64("product_id", updated.ID).
		Str("type", in.Type).
		Str("delta", in.Delta.String()).
		Str("quantity", updated.Quantity.String()).
		Msg("stock actualizado")
	return updated, nil
}

// Apply vuelca los campos no nil sobre el producto.
func (u *ProductUpdate) Apply(p *entity.Product) {
	if u.SKU != nil {
		p.SKU = *u.SKU
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Brand != nil {
		p.Brand = *u.Brand
	}
	if u.Unit != nil {
		p.Unit = *u.Unit
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
}
