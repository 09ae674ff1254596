package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementIngreso = "ingreso" // entrada
	MovementEgreso  = "egreso"  // salida
)

// Movement registro inmutable de un cambio de cantidad: el historial de
// auditoría de todo el stock. Quantity siempre se guarda como magnitud no
// negativa; el signo lo da Type.
type Movement struct {
	ID        int64
	ProductID int64
	Type      string
	Quantity  decimal.Decimal
	Date      time.Time
	Notes     string
	SaleID    *int64 // referencia a la venta que lo originó, si aplica
}

// MovementWithProduct movimiento con su producto (y repisa del producto)
// resueltos, para el log paginado.
type MovementWithProduct struct {
	Movement
	Product ProductWithShelf
}
