// Package spreadsheet implementa la lectura de planillas xlsx para la
// importación masiva.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelReader lee planillas xlsx con excelize. Usa la primera hoja del
// archivo; la primera fila son los encabezados.
type ExcelReader struct{}

// NewExcelReader construye el lector.
func NewExcelReader() *ExcelReader {
	return &ExcelReader{}
}

// Read devuelve todas las filas de la primera hoja como texto crudo.
func (r *ExcelReader) Read(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("planilla sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	return rows, nil
}
