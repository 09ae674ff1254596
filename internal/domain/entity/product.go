package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la bodega. Quantity solo se modifica a
// través del servicio de stock (nunca por edición directa del campo): cada
// cambio queda registrado como un Movement.
type Product struct {
	ID          int64
	SKU         string // único global, token ASCII normalizado
	Description string
	Quantity    decimal.Decimal
	Brand       string
	Unit        string
	Notes       string
	Location    Location
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductWithShelf producto con su referencia de repisa/estante resuelta a
// texto (para listados y búsquedas). Letter y SlotNumber quedan vacíos cuando
// la ubicación es de texto libre.
type ProductWithShelf struct {
	Product
	ShelfLetter string
	SlotNumber  string
}
