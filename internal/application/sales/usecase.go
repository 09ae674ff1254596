// Package sales implementa el flujo de ventas: creación con validación de
// stock, anulación con reingreso y consulta de historial.
package sales

import (
	"context"
	"fmt"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/application/ports"
	"github.com/cvaldivia/bodega-api/internal/application/stock"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

// UseCase flujo de ventas.
type UseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	stock       *stock.UseCase
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	stockUC *stock.UseCase,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		stock:       stockUC,
		log:         log,
	}
}

// CreateSale valida que haya items y stock suficiente, crea la venta con sus
// items en una sola escritura y descuenta el stock de cada item registrando
// un movimiento de egreso con referencia a la venta.
//
// La validación de suficiencia ocurre antes de la transacción de la venta:
// dos ventas concurrentes sobre el mismo producto con poco stock pueden pasar
// ambas la validación y dejar cantidad negativa. Es una carrera conocida y
// aceptada de este diseño, no se corrige aquí.
func (uc *UseCase) CreateSale(ctx context.Context, comments string, items []dto.SaleItemRequest) (int64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: debe incluir al menos un producto", domain.ErrInvalidInput)
	}

	for _, item := range items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, fmt.Errorf("%w: producto %d", domain.ErrNotFound, item.ProductID)
		}
		if product.Quantity.LessThan(item.Quantity) {
			name := product.Description
			if name == "" {
				name = product.SKU
			}
			return 0, fmt.Errorf("%w para %s", domain.ErrInsufficientStock, name)
		}
	}

	sale := &entity.Sale{Comments: comments}
	for _, item := range items {
		sale.Items = append(sale.Items, entity.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	err := uc.txRunner.Run(ctx, func(uow ports.UnitOfWork) error {
		return uow.Sales().Create(ctx, sale)
	})
	if err != nil {
		return 0, err
	}

	for _, item := range sale.Items {
		saleID := sale.ID
		_, err := uc.stock.ChangeStock(ctx, stock.ChangeInput{
			ProductID: item.ProductID,
			Delta:     item.Quantity.Neg(),
			Type:      entity.MovementEgreso,
			SaleID:    &saleID,
			Context:   fmt.Sprintf("Venta ID %d", saleID),
		})
		if err != nil {
			return 0, err
		}
	}

	uc.log.Info().Int64("sale_id", sale.ID).Int("items", len(sale.Items)).Msg("venta registrada")
	return sale.ID, nil
}

// VoidSale anula una venta: reingresa la cantidad de cada item con un
// movimiento de ingreso (los movimientos originales no se tocan) y marca la
// venta como anulada. Anular dos veces falla.
func (uc *UseCase) VoidSale(ctx context.Context, saleID int64) error {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.Voided {
		return domain.ErrSaleAlreadyVoided
	}

	for _, item := range sale.Items {
		id := saleID
		_, err := uc.stock.ChangeStock(ctx, stock.ChangeInput{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
			Type:      entity.MovementIngreso,
			SaleID:    &id,
			Context:   fmt.Sprintf("Cancelación Venta ID %d", saleID),
		})
		if err != nil {
			return err
		}
	}

	if err := uc.saleRepo.MarkVoided(ctx, saleID); err != nil {
		return err
	}
	uc.log.Info().Int64("sale_id", saleID).Msg("venta anulada")
	return nil
}

// ListSaleHistory devuelve las ventas de la más reciente a la más antigua.
// Cada item lleva los campos actuales del producto, no una foto al momento de
// la venta.
func (uc *UseCase) ListSaleHistory(ctx context.Context) ([]dto.SaleHistoryDTO, error) {
	sales, err := uc.saleRepo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleHistoryDTO, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.NewSaleHistoryDTO(s))
	}
	return out, nil
}
