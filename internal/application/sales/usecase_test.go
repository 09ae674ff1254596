package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvaldivia/bodega-api/internal/application/apptest"
	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/application/sales"
	"github.com/cvaldivia/bodega-api/internal/application/stock"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

func newSalesUC(store *apptest.Store) *sales.UseCase {
	txRunner := apptest.NewTxRunner(store)
	stockUC := stock.NewUseCase(txRunner, logger.Nop())
	return sales.NewUseCase(txRunner, apptest.NewProductRepo(store), apptest.NewSaleRepo(store), stockUC, logger.Nop())
}

func TestCreateSale_SinItems(t *testing.T) {
	uc := newSalesUC(apptest.NewStore())

	_, err := uc.CreateSale(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_ProductoInexistente(t *testing.T) {
	uc := newSalesUC(apptest.NewStore())

	_, err := uc.CreateSale(context.Background(), "", []dto.SaleItemRequest{
		{ProductID: 42, Quantity: decimal.NewFromInt(1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_StockInsuficienteNoEscribeNada(t *testing.T) {
	store := apptest.NewStore()
	okID := store.SeedProduct("OK-01", "Con stock", decimal.NewFromInt(100))
	shortID := store.SeedProduct("POCO-01", "Sin stock", decimal.NewFromInt(1))
	uc := newSalesUC(store)

	_, err := uc.CreateSale(context.Background(), "", []dto.SaleItemRequest{
		{ProductID: okID, Quantity: decimal.NewFromInt(10)},
		{ProductID: shortID, Quantity: decimal.NewFromInt(5)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Sin stock", "el error identifica al producto")

	// La validación falló antes de escribir: ni venta, ni movimientos, ni
	// descuento del producto que sí tenía stock.
	assert.Empty(t, store.Sales)
	assert.Empty(t, store.Movements)
	assert.True(t, store.Products[okID].Quantity.Equal(decimal.NewFromInt(100)))
}

func TestCreateSale_DescuentaStockYRegistraEgresos(t *testing.T) {
	store := apptest.NewStore()
	id1 := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(100))
	id2 := store.SeedProduct("CLA-02", "Clavo", decimal.NewFromInt(50))
	uc := newSalesUC(store)

	saleID, err := uc.CreateSale(context.Background(), "cliente mostrador", []dto.SaleItemRequest{
		{ProductID: id1, Quantity: decimal.NewFromInt(10)},
		{ProductID: id2, Quantity: decimal.NewFromInt(3)},
	})
	require.NoError(t, err)
	require.NotZero(t, saleID)

	assert.True(t, store.Products[id1].Quantity.Equal(decimal.NewFromInt(90)))
	assert.True(t, store.Products[id2].Quantity.Equal(decimal.NewFromInt(47)))

	sale := store.Sales[saleID]
	assert.Equal(t, "cliente mostrador", sale.Comments)
	assert.False(t, sale.Voided)
	assert.Len(t, sale.Items, 2)

	movs := store.MovementsFor(id1)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementEgreso, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, movs[0].SaleID, "el movimiento referencia a la venta")
	assert.Equal(t, saleID, *movs[0].SaleID)
	assert.Contains(t, movs[0].Notes, "Venta ID")
}

func TestVoidSale_ReingresaStockYMarcaAnulada(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(100))
	uc := newSalesUC(store)

	saleID, err := uc.CreateSale(context.Background(), "", []dto.SaleItemRequest{
		{ProductID: id, Quantity: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)

	require.NoError(t, uc.VoidSale(context.Background(), saleID))

	assert.True(t, store.Products[id].Quantity.Equal(decimal.NewFromInt(100)), "el stock vuelve al valor previo")
	assert.True(t, store.Sales[saleID].Voided)

	// El egreso original sigue ahí; la anulación agrega un ingreso.
	movs := store.MovementsFor(id)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementEgreso, movs[0].Type)
	assert.Equal(t, entity.MovementIngreso, movs[1].Type)
	assert.Contains(t, movs[1].Notes, "Cancelación Venta ID")
}

func TestVoidSale_DosVecesFalla(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(100))
	uc := newSalesUC(store)

	saleID, err := uc.CreateSale(context.Background(), "", []dto.SaleItemRequest{
		{ProductID: id, Quantity: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)

	require.NoError(t, uc.VoidSale(context.Background(), saleID))
	err = uc.VoidSale(context.Background(), saleID)
	assert.ErrorIs(t, err, domain.ErrSaleAlreadyVoided)

	// La segunda anulación no volvió a reingresar stock.
	assert.True(t, store.Products[id].Quantity.Equal(decimal.NewFromInt(100)))
}

func TestVoidSale_Inexistente(t *testing.T) {
	uc := newSalesUC(apptest.NewStore())
	assert.ErrorIs(t, uc.VoidSale(context.Background(), 7), domain.ErrNotFound)
}

func TestListSaleHistory_MapeaProductosActuales(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(100))
	uc := newSalesUC(store)

	saleID, err := uc.CreateSale(context.Background(), "primera", []dto.SaleItemRequest{
		{ProductID: id, Quantity: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)

	history, err := uc.ListSaleHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)

	got := history[0]
	assert.Equal(t, saleID, got.ID)
	assert.Equal(t, "primera", got.Comments)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "TOR-01", got.Products[0].SKU)
	assert.True(t, got.Products[0].Quantity.Equal(decimal.NewFromInt(10)), "la cantidad del historial es la vendida")
}
