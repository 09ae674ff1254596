package movements_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvaldivia/bodega-api/internal/application/apptest"
	"github.com/cvaldivia/bodega-api/internal/application/movements"
	"github.com/cvaldivia/bodega-api/internal/application/stock"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

// seedMovements genera n movimientos de ingreso sobre un mismo producto.
func seedMovements(t *testing.T, store *apptest.Store, n int) int64 {
	t.Helper()
	id := store.SeedProduct("TOR-01", "Tornillo", decimal.Zero)
	stockUC := stock.NewUseCase(apptest.NewTxRunner(store), logger.Nop())
	for i := 0; i < n; i++ {
		_, err := stockUC.ChangeStock(context.Background(), stock.ChangeInput{
			ProductID: id,
			Delta:     decimal.NewFromInt(1),
			Type:      entity.MovementIngreso,
		})
		require.NoError(t, err)
	}
	return id
}

func TestListMovements_Paginacion(t *testing.T) {
	store := apptest.NewStore()
	seedMovements(t, store, 5)
	uc := movements.NewUseCase(apptest.NewMovementRepo(store), logger.Nop())

	out, err := uc.ListMovements(context.Background(), 1, 2, repository.MovementFilter{})
	require.NoError(t, err)

	assert.Len(t, out.Data, 2)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.Limit)
	assert.Equal(t, 5, out.TotalCount)
	assert.Equal(t, 3, out.TotalPages)

	// La última página queda corta.
	out, err = uc.ListMovements(context.Background(), 3, 2, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, out.Data, 1)

	// Fuera de rango: página vacía, mismos totales.
	out, err = uc.ListMovements(context.Background(), 9, 2, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, out.Data)
	assert.Equal(t, 5, out.TotalCount)
}

func TestListMovements_DefaultsDePagina(t *testing.T) {
	store := apptest.NewStore()
	seedMovements(t, store, 1)
	uc := movements.NewUseCase(apptest.NewMovementRepo(store), logger.Nop())

	out, err := uc.ListMovements(context.Background(), 0, 0, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 50, out.Limit)
}

func TestListMovements_IncluyeProducto(t *testing.T) {
	store := apptest.NewStore()
	seedMovements(t, store, 1)
	uc := movements.NewUseCase(apptest.NewMovementRepo(store), logger.Nop())

	out, err := uc.ListMovements(context.Background(), 1, 10, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "TOR-01", out.Data[0].Product.SKU)
	assert.Equal(t, entity.MovementIngreso, out.Data[0].Type)
}

func TestListMovements_FiltroDeFechas(t *testing.T) {
	store := apptest.NewStore()
	seedMovements(t, store, 3)
	uc := movements.NewUseCase(apptest.NewMovementRepo(store), logger.Nop())

	future := time.Now().Add(time.Hour)
	out, err := uc.ListMovements(context.Background(), 1, 10, repository.MovementFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, out.Data)
	assert.Equal(t, 0, out.TotalCount)

	past := time.Now().Add(-time.Hour)
	out, err = uc.ListMovements(context.Background(), 1, 10, repository.MovementFilter{From: &past, To: &future})
	require.NoError(t, err)
	assert.Len(t, out.Data, 3)
}

func TestListMovements_FiltroDeTipo(t *testing.T) {
	store := apptest.NewStore()
	id := seedMovements(t, store, 3)
	stockUC := stock.NewUseCase(apptest.NewTxRunner(store), logger.Nop())
	_, err := stockUC.ChangeStock(context.Background(), stock.ChangeInput{
		ProductID: id,
		Delta:     decimal.NewFromInt(-1),
		Type:      entity.MovementEgreso,
	})
	require.NoError(t, err)
	uc := movements.NewUseCase(apptest.NewMovementRepo(store), logger.Nop())

	out, err := uc.ListMovements(context.Background(), 1, 10, repository.MovementFilter{Type: entity.MovementEgreso})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, entity.MovementEgreso, out.Data[0].Type)
	assert.Equal(t, 1, out.TotalCount)

	out, err = uc.ListMovements(context.Background(), 1, 10, repository.MovementFilter{Type: entity.MovementIngreso})
	require.NoError(t, err)
	assert.Len(t, out.Data, 3)
}
