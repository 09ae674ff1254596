package entity

// ShelfRef referencia estructurada a una repisa y estante concretos.
type ShelfRef struct {
	LetterID int64
	SlotID   int64
}

// Location ubicación de un producto: o bien una referencia estructurada
// repisa/estante, o bien un texto libre. Nunca ambas a la vez; el tipo hace
// irrepresentable el estado "ambas definidas".
type Location struct {
	shelf *ShelfRef
	free  string
}

// ShelfLocation construye una ubicación estructurada (repisa + estante).
func ShelfLocation(letterID, slotID int64) Location {
	return Location{shelf: &ShelfRef{LetterID: letterID, SlotID: slotID}}
}

// FreeTextLocation construye una ubicación de texto libre.
func FreeTextLocation(text string) Location {
	return Location{free: text}
}

// Shelf devuelve la referencia estructurada y true cuando la ubicación es repisa/estante.
func (l Location) Shelf() (ShelfRef, bool) {
	if l.shelf != nil {
		return *l.shelf, true
	}
	return ShelfRef{}, false
}

// FreeText devuelve el texto libre y true cuando la ubicación no es estructurada.
func (l Location) FreeText() (string, bool) {
	if l.shelf != nil {
		return "", false
	}
	return l.free, true
}

// IsShelf indica si la ubicación es estructurada.
func (l Location) IsShelf() bool {
	return l.shelf != nil
}
