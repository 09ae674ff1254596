package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvaldivia/bodega-api/internal/application/apptest"
	"github.com/cvaldivia/bodega-api/internal/application/importer"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

// fakeReader devuelve filas fijas en lugar de leer una planilla real.
type fakeReader struct {
	rows [][]string
	err  error
}

func (r *fakeReader) Read(string) ([][]string, error) {
	return r.rows, r.err
}

// tempFile crea un archivo que hace de planilla subida.
func tempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carga.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func newImporter(store *apptest.Store, rows [][]string) *importer.UseCase {
	return importer.NewUseCase(
		apptest.NewTxRunner(store),
		&fakeReader{rows: rows},
		time.Minute,
		logger.Nop(),
	)
}

var importHeaders = []string{"sku", "descripcion", "cantidad", "marca", "unidad", "observaciones", "repisa", "estante"}

func TestExecute_ImportacionCompleta(t *testing.T) {
	store := apptest.NewStore()
	uc := newImporter(store, [][]string{
		importHeaders,
		{"TOR-01", "Tornillo 3/4", "100", "Acme", "caja", "", "B", "4"},
		{"CLA-02", "Clavo 2\"", "50.5", "", "", "a granel", "", ""},
	})

	result, err := uc.Execute(context.Background(), tempFile(t))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	require.Len(t, store.Products, 2)

	// La repisa B se creó con su estante 4 y un aviso lo informa.
	assert.Contains(t, result.Advisories, "Repisa B creada con 1 estantes.")

	tornillo := findBySKU(t, store, "TOR-01")
	ref, ok := tornillo.Location.Shelf()
	require.True(t, ok, "TOR-01 debe quedar con ubicación estructurada")
	assert.Equal(t, store.Shelves[ref.LetterID].Letter, "B")
	assert.Equal(t, store.Slots[ref.SlotID].Number, "4")

	clavo := findBySKU(t, store, "CLA-02")
	free, ok := clavo.Location.FreeText()
	require.True(t, ok)
	assert.Equal(t, "No Posee", free)
	assert.Equal(t, "No Posee", clavo.Brand)

	// Cada producto con cantidad positiva deja su movimiento de ingreso.
	movs := store.MovementsFor(tornillo.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIngreso, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Importación masiva", movs[0].Notes)
}

func TestExecute_RepisaExistenteSoloAgregaEstantes(t *testing.T) {
	store := apptest.NewStore()
	store.SeedShelf("B", "1", "2")
	uc := newImporter(store, [][]string{
		importHeaders,
		{"X1", "Algo", "1", "", "", "", "B", "2"},
		{"X2", "Otro", "1", "", "", "", "B", "9"},
	})

	result, err := uc.Execute(context.Background(), tempFile(t))
	require.NoError(t, err)

	assert.Contains(t, result.Advisories, "Repisa B actualizada con 1 estantes nuevos.")
	assert.Len(t, store.Slots, 3, "solo se agrega el estante 9")
}

func TestExecute_SKUDuplicadoRecibeSufijo(t *testing.T) {
	store := apptest.NewStore()
	store.SeedProduct("TOR-01", "ya existente", decimal.NewFromInt(1))
	uc := newImporter(store, [][]string{
		importHeaders,
		{"TOR-01", "duplicado en tienda", "1", "", "", "", "", ""},
		{"TOR-01", "duplicado en lote", "1", "", "", "", "", ""},
	})

	result, err := uc.Execute(context.Background(), tempFile(t))
	require.NoError(t, err)
	assert.True(t, result.Success)

	// El primero colisiona contra la tienda, el segundo contra el lote y
	// luego contra la tienda de nuevo.
	assert.NotNil(t, findBySKU(t, store, "TOR-01-2"))
	assert.NotNil(t, findBySKU(t, store, "TOR-01-3"))
}

func TestExecute_FilaInvalidaNoTumbaElLote(t *testing.T) {
	store := apptest.NewStore()
	store.FailCreateSKU = "MALO"
	uc := newImporter(store, [][]string{
		importHeaders,
		{"BUENO-1", "ok", "5", "", "", "", "", ""},
		{"MALO", "esta falla", "5", "", "", "", "", ""},
		{"BUENO-2", "ok también", "5", "", "", "", "", ""},
	})

	result, err := uc.Execute(context.Background(), tempFile(t))
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Fila 3: Error al guardar producto")

	// Las filas correctas quedaron guardadas igual.
	assert.Len(t, store.Products, 2)
	assert.NotNil(t, findBySKU(t, store, "BUENO-1"))
	assert.NotNil(t, findBySKU(t, store, "BUENO-2"))
}

func TestExecute_CantidadCeroNoGeneraMovimiento(t *testing.T) {
	store := apptest.NewStore()
	uc := newImporter(store, [][]string{
		importHeaders,
		{"Z1", "sin stock", "0", "", "", "", "", ""},
	})

	result, err := uc.Execute(context.Background(), tempFile(t))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, store.Movements)
}

func TestExecute_AvisosDeNormalizacion(t *testing.T) {
	store := apptest.NewStore()
	uc := newImporter(store, [][]string{
		importHeaders,
		{"", "Sin sku", "abc", "", "", "", "", ""},
	})

	result, err := uc.Execute(context.Background(), tempFile(t))
	require.NoError(t, err)

	assert.True(t, result.Success, "los avisos no son errores")
	assert.Contains(t, result.Advisories, "Fila 2: SKU generado automáticamente.")
	assert.Contains(t, result.Advisories, "Fila 2: cantidad inválida.")
	assert.NotNil(t, findBySKU(t, store, "AUTOGEN2"))
}

func TestExecute_PresupuestoAgotadoAbortaElLote(t *testing.T) {
	store := apptest.NewStore()
	uc := importer.NewUseCase(
		apptest.NewTxRunner(store),
		&fakeReader{rows: [][]string{
			importHeaders,
			{"TOR-01", "Tornillo 3/4", "100", "", "", "", "", ""},
			{"CLA-02", "Clavo 2\"", "50", "", "", "", "", ""},
		}},
		-time.Second,
		logger.Nop(),
	)

	result, err := uc.Execute(context.Background(), tempFile(t))
	require.ErrorIs(t, err, domain.ErrImportTimeout)
	assert.Nil(t, result)

	// El lote completo se revierte: ninguna fila queda confirmada.
	assert.Empty(t, store.Products)
	assert.Empty(t, store.Movements)
}

func TestExecute_EliminaElArchivoTemporal(t *testing.T) {
	store := apptest.NewStore()
	path := tempFile(t)

	uc := newImporter(store, [][]string{importHeaders, {"A1", "x", "1", "", "", "", "", ""}})
	_, err := uc.Execute(context.Background(), path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "el archivo temporal debe eliminarse")
}

func TestExecute_ErrorDeLecturaTambienLimpia(t *testing.T) {
	store := apptest.NewStore()
	path := tempFile(t)

	uc := importer.NewUseCase(
		apptest.NewTxRunner(store),
		&fakeReader{err: os.ErrInvalid},
		time.Minute,
		logger.Nop(),
	)
	_, err := uc.Execute(context.Background(), path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func findBySKU(t *testing.T, store *apptest.Store, sku string) *entity.Product {
	t.Helper()
	for _, p := range store.Products {
		if p.SKU == sku {
			out := p
			return &out
		}
	}
	return nil
}
