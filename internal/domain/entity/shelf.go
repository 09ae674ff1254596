package entity

// ShelfLetter una repisa identificada por letra (A-Z). Se crea de forma
// perezosa la primera vez que un producto o una importación la referencia.
type ShelfLetter struct {
	ID     int64
	Letter string
}

// ShelfSlot un estante numerado dentro de una repisa. El número es único
// dentro de su repisa.
type ShelfSlot struct {
	ID            int64
	Number        string
	ShelfLetterID int64
}
