package importer

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvaldivia/bodega-api/internal/application/apptest"
)

func TestResolveHeaders_VariantesDeGrafia(t *testing.T) {
	headers := []string{"SKU", "Descripción", "CANTIDAD", "Marca ", "unidad", "Observación", "Repisa", "Estante"}
	got := ResolveHeaders(headers)

	assert.Equal(t, 0, got[fieldSKU])
	assert.Equal(t, 1, got[fieldDescription])
	assert.Equal(t, 2, got[fieldQuantity])
	assert.Equal(t, 3, got[fieldBrand])
	assert.Equal(t, 4, got[fieldUnit])
	assert.Equal(t, 5, got[fieldNotes])
	assert.Equal(t, 6, got[fieldShelfLetter])
	assert.Equal(t, 7, got[fieldSlotNumber])
}

func TestResolveHeaders_ColumnasAusentes(t *testing.T) {
	got := ResolveHeaders([]string{"sku", "cantidad"})

	_, hasBrand := got[fieldBrand]
	assert.False(t, hasBrand, "marca no tiene columna")
	_, hasShelf := got[fieldShelfLetter]
	assert.False(t, hasShelf, "repisa no tiene columna")
}

func TestNormalizeRow_Defaults(t *testing.T) {
	headerMap := ResolveHeaders([]string{"sku", "descripcion", "cantidad", "marca", "unidad"})

	// Fila vacía: SKU autogenerado, descripción y campos de texto por
	// defecto, cantidad cero con aviso.
	row, advisories := NormalizeRow(headerMap, []string{"", "", "", "", ""}, 0)

	assert.Equal(t, 2, row.Num, "la primera fila de datos es la fila 2 de la planilla")
	assert.Equal(t, "AUTOGEN2", row.SKU)
	assert.Equal(t, "No Posee", row.Description)
	assert.Equal(t, "No Posee", row.Brand)
	assert.Equal(t, "No Posee", row.Unit)
	assert.True(t, row.Quantity.IsZero())

	require.Len(t, advisories, 3)
	assert.Contains(t, advisories[0], "SKU generado automáticamente")
	assert.Contains(t, advisories[1], "descripción vacía")
	assert.Contains(t, advisories[2], "cantidad inválida")
}

func TestNormalizeRow_FilaCompleta(t *testing.T) {
	headerMap := ResolveHeaders([]string{"sku", "descripcion", "cantidad", "marca", "unidad", "observaciones", "repisa", "estante"})
	raw := []string{" tor-01 ", "Tornillo 3/4", "12.5", "Acme", "caja", "frágil", "b", "4"}

	row, advisories := NormalizeRow(headerMap, raw, 3)

	assert.Empty(t, advisories)
	assert.Equal(t, 5, row.Num)
	assert.Equal(t, "tor-01", row.SKU)
	assert.Equal(t, "Tornillo 3/4", row.Description)
	assert.True(t, row.Quantity.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "B", row.ShelfLetter, "la letra de repisa se normaliza a mayúscula")
	assert.Equal(t, "4", row.SlotNumber)
}

func TestNormalizeRow_FilaCorta(t *testing.T) {
	headerMap := ResolveHeaders([]string{"sku", "descripcion", "cantidad"})

	// Fila con menos celdas que columnas: las ausentes cuentan como vacías.
	row, _ := NormalizeRow(headerMap, []string{"X1"}, 0)

	assert.Equal(t, "X1", row.SKU)
	assert.Equal(t, "No Posee", row.Description)
	assert.True(t, row.Quantity.IsZero())
}

func TestClassifyLocation(t *testing.T) {
	cases := []struct {
		name   string
		letter string
		slot   string
		want   LocationSpec
	}{
		{"estructurada", "B", "12", LocationSpec{Structured: true, Letter: "B", Slot: "12"}},
		{"letra inválida", "BB", "12", LocationSpec{Free: "BB 12"}},
		{"estante no numérico", "B", "x2", LocationSpec{Free: "B x2"}},
		{"solo letra", "B", "", LocationSpec{Free: "B"}},
		{"solo estante", "", "7", LocationSpec{Free: "7"}},
		{"sin ubicación", "", "", LocationSpec{Free: "No Posee"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := Row{ShelfLetter: tc.letter, SlotNumber: tc.slot}
			assert.Equal(t, tc.want, row.ClassifyLocation())
		})
	}
}

func TestUniqueSKU(t *testing.T) {
	store := apptest.NewStore()
	store.SeedProduct("C", "persistido", decimal.Zero)
	repo := apptest.NewProductRepo(store)
	seen := map[string]struct{}{"A": {}, "A-2": {}}

	got, err := uniqueSKU(context.Background(), repo, "B", seen)
	require.NoError(t, err)
	assert.Equal(t, "B", got)

	got, err = uniqueSKU(context.Background(), repo, "A", seen)
	require.NoError(t, err)
	assert.Equal(t, "A-3", got, "salta los sufijos ya tomados en el lote")

	got, err = uniqueSKU(context.Background(), repo, "C", seen)
	require.NoError(t, err)
	assert.Equal(t, "C-2", got, "salta los SKU ya persistidos")
}
