package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale una venta con sus items. Activa al crearse; la única transición
// posterior permitida es anularla (nunca se elimina).
type Sale struct {
	ID       int64
	Date     time.Time
	Comments string
	Voided   bool
	Items    []SaleItem
}

// SaleItem línea de una venta. Se crea junto con la venta y no se modifica:
// el efecto sobre el stock vive en los Movement asociados.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  decimal.Decimal
}

// SaleItemDetail item de venta con los datos actuales del producto (no una
// foto histórica).
type SaleItemDetail struct {
	SaleItem
	Product ProductWithShelf
}

// SaleDetail venta con items y productos resueltos, para el historial.
type SaleDetail struct {
	ID       int64
	Date     time.Time
	Comments string
	Voided   bool
	Items    []SaleItemDetail
}
