package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Valor por defecto para campos de texto ausentes.
const noValue = "No Posee"

var (
	shelfLetterRe = regexp.MustCompile(`^[A-Z]$`)
	slotNumberRe  = regexp.MustCompile(`^\d+$`)
)

// Row una fila de importación ya normalizada. Num es el número de fila que ve
// el usuario en su planilla (índice de datos + 2, contando el encabezado).
type Row struct {
	Num         int
	SKU         string
	Description string
	Quantity    decimal.Decimal
	Brand       string
	Unit        string
	Notes       string
	ShelfLetter string
	SlotNumber  string
}

// cell devuelve el valor crudo de un campo lógico, o "" si el campo no tiene
// columna mapeada o la fila es corta.
func cell(headerMap map[string]int, raw []string, field string) string {
	idx, ok := headerMap[field]
	if !ok || idx >= len(raw) {
		return ""
	}
	return raw[idx]
}

// NormalizeRow normaliza una fila cruda aplicando valores por defecto y
// devuelve los avisos generados. index es el índice 0-based dentro de las
// filas de datos.
func NormalizeRow(headerMap map[string]int, raw []string, index int) (Row, []string) {
	num := index + 2
	var advisories []string

	row := Row{Num: num}

	skuRaw := strings.TrimSpace(cell(headerMap, raw, fieldSKU))
	if skuRaw != "" {
		row.SKU = NormalizeSKU(skuRaw)
	} else {
		row.SKU = fmt.Sprintf("AUTOGEN%d", num)
		advisories = append(advisories, fmt.Sprintf("Fila %d: SKU generado automáticamente.", num))
	}

	row.Description = strings.TrimSpace(cell(headerMap, raw, fieldDescription))
	if row.Description == "" {
		row.Description = noValue
		advisories = append(advisories, fmt.Sprintf("Fila %d: descripción vacía.", num))
	}

	qtyRaw := strings.TrimSpace(cell(headerMap, raw, fieldQuantity))
	if qty, err := decimal.NewFromString(qtyRaw); err == nil {
		row.Quantity = qty
	} else {
		row.Quantity = decimal.Zero
		advisories = append(advisories, fmt.Sprintf("Fila %d: cantidad inválida.", num))
	}

	row.Brand = strings.TrimSpace(cell(headerMap, raw, fieldBrand))
	if row.Brand == "" {
		row.Brand = noValue
	}
	row.Unit = strings.TrimSpace(cell(headerMap, raw, fieldUnit))
	if row.Unit == "" {
		row.Unit = noValue
	}
	row.Notes = strings.TrimSpace(cell(headerMap, raw, fieldNotes))

	row.ShelfLetter = strings.ToUpper(strings.TrimSpace(cell(headerMap, raw, fieldShelfLetter)))
	row.SlotNumber = strings.TrimSpace(cell(headerMap, raw, fieldSlotNumber))

	return row, advisories
}

// LocationSpec clasificación de la ubicación de una fila.
type LocationSpec struct {
	Structured bool
	Letter     string // válida solo si Structured
	Slot       string // válida solo si Structured
	Free       string // válida solo si !Structured
}

// ClassifyLocation clasifica la ubicación de la fila: estructurada cuando la
// repisa es una letra A-Z y el estante un número; si no, el contenido que
// haya se concatena como texto libre, y si no hay nada queda "No Posee".
func (r Row) ClassifyLocation() LocationSpec {
	if shelfLetterRe.MatchString(r.ShelfLetter) && slotNumberRe.MatchString(r.SlotNumber) {
		return LocationSpec{Structured: true, Letter: r.ShelfLetter, Slot: r.SlotNumber}
	}
	if r.ShelfLetter != "" || r.SlotNumber != "" {
		free := strings.TrimSpace(r.ShelfLetter + " " + r.SlotNumber)
		return LocationSpec{Free: free}
	}
	return LocationSpec{Free: noValue}
}
