package stock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvaldivia/bodega-api/internal/application/apptest"
	"github.com/cvaldivia/bodega-api/internal/application/stock"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

func newStockUC(store *apptest.Store) *stock.UseCase {
	return stock.NewUseCase(apptest.NewTxRunner(store), logger.Nop())
}

func TestChangeStock_IngresoActualizaYRegistraMovimiento(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(10))
	uc := newStockUC(store)

	updated, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(5),
		Type:      entity.MovementIngreso,
		Context:   "Ingreso manual de producto",
	})
	require.NoError(t, err)

	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(15)))

	movs := store.MovementsFor(id)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIngreso, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "Ingreso manual de producto", movs[0].Notes)
}

func TestChangeStock_EgresoGuardaMagnitud(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(10))
	uc := newStockUC(store)

	updated, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(-4),
		Type:      entity.MovementEgreso,
		Context:   "Venta ID 1",
	})
	require.NoError(t, err)

	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(6)))

	movs := store.MovementsFor(id)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(4)), "el movimiento guarda la magnitud, no el signo")
}

func TestChangeStock_PermiteCantidadNegativa(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(2))
	uc := newStockUC(store)

	// Esta capa no valida piso; la suficiencia es del flujo de ventas.
	updated, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(-5),
		Type:      entity.MovementEgreso,
	})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(-3)))
}

func TestChangeStock_TipoInvalido(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(2))
	uc := newStockUC(store)

	_, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(1),
		Type:      "ajuste",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStock_ProductoInexistente(t *testing.T) {
	uc := newStockUC(apptest.NewStore())

	_, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: 99,
		Delta:     decimal.NewFromInt(1),
		Type:      entity.MovementIngreso,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChangeStock_FalloEnMovimientoRevierteElProducto(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(10))
	store.FailMovementCreate = errors.New("sin espacio")
	uc := newStockUC(store)

	_, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(5),
		Type:      entity.MovementIngreso,
	})
	require.Error(t, err)

	// O persisten ambos o ninguno: la cantidad no debe haber cambiado.
	assert.True(t, store.Products[id].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, store.Movements)
}

func TestChangeStock_FalloEnProductoNoDejaMovimiento(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(10))
	store.FailProductUpdate = errors.New("conexión perdida")
	uc := newStockUC(store)

	_, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(5),
		Type:      entity.MovementIngreso,
	})
	require.Error(t, err)

	// La otra dirección de la atomicidad: sin producto actualizado no
	// queda movimiento huérfano.
	assert.True(t, store.Products[id].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, store.Movements)
}

func TestChangeStock_AplicaCamposDeEdicion(t *testing.T) {
	store := apptest.NewStore()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.NewFromInt(10))
	uc := newStockUC(store)

	brand := "Acme"
	notes := "caja dañada"
	_, err := uc.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(1),
		Type:      entity.MovementIngreso,
		Update:    &stock.ProductUpdate{Brand: &brand, Notes: &notes},
	})
	require.NoError(t, err)

	saved := store.Products[id]
	assert.Equal(t, "Acme", saved.Brand)
	assert.Equal(t, "caja dañada", saved.Notes)
	assert.Equal(t, "Tornillo", saved.Description, "los campos no incluidos no se tocan")
}
