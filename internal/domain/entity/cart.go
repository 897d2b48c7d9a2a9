package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartStatus estado del carrito.
type CartStatus string

const (
	CartStatusOpen   CartStatus = "OPEN"
	CartStatusClosed CartStatus = "CLOSED" // terminal, no se puede reutilizar
)

// CartLine solicitud (variante, cantidad) con el precio unitario capturado al agregar al carrito.
// El precio incluye IVA.
type CartLine struct {
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal precio unitario × cantidad.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart carrito pendiente de un cliente.
type Cart struct {
	ID         string
	CustomerID string
	Status     CartStatus
	Lines      []CartLine
	UpdatedAt  time.Time
}

// Subtotal suma de los subtotales de línea.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
