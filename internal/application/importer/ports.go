package importer

// SpreadsheetReader lee un archivo tabular y devuelve sus filas como texto
// (primera fila = encabezados). La implementación vive en infraestructura.
type SpreadsheetReader interface {
	Read(path string) ([][]string, error)
}
