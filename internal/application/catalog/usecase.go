// Package catalog implementa las operaciones de catálogo de productos:
// búsqueda avanzada, consulta por SKU, alta (crear o incrementar), edición
// con movimiento de ajuste y borrado con confirmación en cascada.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/application/ports"
	"github.com/cvaldivia/bodega-api/internal/application/stock"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

const (
	defaultTake = 50
	maxTake     = 200

	createNote = "Ingreso manual de producto"
	editNote   = "Edición de producto"
)

// UseCase operaciones de catálogo.
type UseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	stock       *stock.UseCase
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, productRepo repository.ProductRepository, stockUC *stock.UseCase, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, stock: stockUC, log: log}
}

// SearchProducts búsqueda avanzada. El texto libre se parte en tokens que se
// combinan con AND; cada token coincide con sku, marca, descripción u
// observaciones sin distinguir mayúsculas ni tildes.
func (uc *UseCase) SearchProducts(ctx context.Context, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error) {
	filter := repository.ProductFilter{
		Tokens:      strings.Fields(req.Query),
		Brand:       strings.TrimSpace(req.Brand),
		Unit:        strings.TrimSpace(req.Unit),
		ShelfLetter: strings.ToUpper(strings.TrimSpace(req.ShelfLetter)),
		SlotNumber:  strings.TrimSpace(req.SlotNumber),
		SortBy:      req.SortBy,
		SortDesc:    req.Order != "asc",
		Offset:      req.Skip,
	}
	if req.MinQuantity != "" {
		min, err := decimal.NewFromString(req.MinQuantity)
		if err != nil {
			return nil, fmt.Errorf("%w: minCantidad inválida", domain.ErrInvalidInput)
		}
		filter.MinQuantity = &min
	}
	if req.MaxQuantity != "" {
		max, err := decimal.NewFromString(req.MaxQuantity)
		if err != nil {
			return nil, fmt.Errorf("%w: maxCantidad inválida", domain.ErrInvalidInput)
		}
		filter.MaxQuantity = &max
	}
	filter.Limit = req.Take
	if filter.Limit <= 0 {
		filter.Limit = defaultTake
	}
	if filter.Limit > maxTake {
		filter.Limit = maxTake
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, total, err := uc.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("buscar productos: %w", err)
	}

	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductDTO(p))
	}
	return &dto.SearchProductsResponse{Success: true, Products: out, Total: total}, nil
}

// GetProductBySKU obtiene un producto por su SKU exacto.
func (uc *UseCase) GetProductBySKU(ctx context.Context, sku string) (*dto.ProductDTO, error) {
	product, err := uc.productRepo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	d := dto.NewProductDTO(product)
	return &d, nil
}

// CreateProduct alta manual. Si el SKU ya existe no es un error: la cantidad
// recibida se suma al stock existente y los demás campos se actualizan, con
// su movimiento de ingreso correspondiente.
func (uc *UseCase) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*entity.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	if req.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}

	existing, err := uc.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if existing != nil {
		loc := req.Location()
		return uc.stock.ChangeStock(ctx, stock.ChangeInput{
			ProductID: existing.ID,
			Delta:     req.Quantity,
			Type:      entity.MovementIngreso,
			Context:   createNote,
			Update: &stock.ProductUpdate{
				Description: &req.Description,
				Brand:       &req.Brand,
				Unit:        &req.Unit,
				Notes:       &req.Notes,
				Location:    &loc,
			},
		})
	}

	product := &entity.Product{
		SKU:         sku,
		Description: req.Description,
		Quantity:    req.Quantity,
		Brand:       req.Brand,
		Unit:        req.Unit,
		Notes:       req.Notes,
		Location:    req.Location(),
	}
	err = uc.txRunner.Run(ctx, func(uow ports.UnitOfWork) error {
		if err := uow.Products().Create(ctx, product); err != nil {
			return err
		}
		if product.Quantity.GreaterThan(decimal.Zero) {
			mov := &entity.Movement{
				ProductID: product.ID,
				Type:      entity.MovementIngreso,
				Quantity:  product.Quantity,
				Notes:     createNote,
			}
			if err := uow.Movements().Create(ctx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("product_id", product.ID).Str("sku", product.SKU).Msg("producto creado")
	return product, nil
}

// UpdateProduct edición de producto. El cambio de cantidad no se escribe
// directo: se convierte en un movimiento de ajuste (ingreso o egreso por la
// diferencia) para que el historial cuadre siempre con el stock.
func (uc *UseCase) UpdateProduct(ctx context.Context, id int64, req dto.UpdateProductRequest) (*entity.Product, error) {
	current, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	sku := strings.TrimSpace(req.SKU)
	loc := req.Location()
	update := &stock.ProductUpdate{
		SKU:         &sku,
		Description: &req.Description,
		Brand:       &req.Brand,
		Unit:        &req.Unit,
		Notes:       &req.Notes,
		Location:    &loc,
	}

	delta := req.Quantity.Sub(current.Quantity)
	if delta.IsZero() {
		// Sin cambio de cantidad no hay movimiento, solo la edición.
		var updated *entity.Product
		err = uc.txRunner.Run(ctx, func(uow ports.UnitOfWork) error {
			product, err := uow.Products().GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			update.Apply(product)
			if err := uow.Products().Update(ctx, product); err != nil {
				return err
			}
			updated = product
			return nil
		})
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	movType := entity.MovementIngreso
	if delta.IsNegative() {
		movType = entity.MovementEgreso
	}
	return uc.stock.ChangeStock(ctx, stock.ChangeInput{
		ProductID: id,
		Delta:     delta,
		Type:      movType,
		Context:   editNote,
		Update:    update,
	})
}

// DeleteProduct elimina un producto. Sin cascade devuelve domain.ErrConflict
// si existen ventas o movimientos que lo referencian; con cascade se eliminan
// primero esas referencias en la misma transacción.
func (uc *UseCase) DeleteProduct(ctx context.Context, id int64, cascade bool) error {
	if !cascade {
		return uc.txRunner.Run(ctx, func(uow ports.UnitOfWork) error {
			return uow.Products().Delete(ctx, id)
		})
	}
	err := uc.txRunner.Run(ctx, func(uow ports.UnitOfWork) error {
		if err := uow.Sales().DeleteItemsByProduct(ctx, id); err != nil {
			return err
		}
		if err := uow.Movements().DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return uow.Products().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Warn().Int64("product_id", id).Msg("producto eliminado en cascada")
	return nil
}
