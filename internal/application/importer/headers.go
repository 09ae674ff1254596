package importer

// Campos lógicos de una fila de importación.
const (
	fieldSKU         = "sku"
	fieldDescription = "descripcion"
	fieldQuantity    = "cantidad"
	fieldBrand       = "marca"
	fieldUnit        = "unidad"
	fieldNotes       = "observaciones"
	fieldShelfLetter = "repisaLetra"
	fieldSlotNumber  = "estanteNumero"
)

// fieldVariants grafías aceptadas por campo lógico. La comparación se hace
// sobre el texto normalizado (minúsculas, sin tildes, sin espacios), así que
// "Descripción", "DESCRIPCION" y "descripcion " mapean igual.
var fieldVariants = []struct {
	field    string
	variants []string
}{
	{fieldSKU, []string{"sku"}},
	{fieldDescription, []string{"descripcion", "descripción"}},
	{fieldQuantity, []string{"cantidad"}},
	{fieldBrand, []string{"marca"}},
	{fieldUnit, []string{"unidad"}},
	{fieldNotes, []string{"observaciones", "observacion", "observación"}},
	{fieldShelfLetter, []string{"repisa", "repisaletra"}},
	{fieldSlotNumber, []string{"estante", "estantenumero"}},
}

// ResolveHeaders mapea cada campo lógico a su índice de columna en el
// encabezado. Los campos sin columna correspondiente quedan fuera del mapa y
// sus valores se tratan como ausentes en todas las filas.
func ResolveHeaders(headers []string) map[string]int {
	out := make(map[string]int, len(fieldVariants))
	for _, fv := range fieldVariants {
		for i, h := range headers {
			matched := false
			for _, v := range fv.variants {
				if normalizeKey(h) == normalizeKey(v) {
					matched = true
					break
				}
			}
			if matched {
				out[fv.field] = i
				break
			}
		}
	}
	return out
}
