package entity

import "github.com/shopspring/decimal"

// OrderLineItem línea de un pedido. Inmutable tras su creación.
// AllocatedBranchID guarda la sucursal cuyo stock se descontó, para revertir sin heurísticas.
type OrderLineItem struct {
	ID                string
	OrderID           string
	VariantID         string
	Quantity          int
	UnitPrice         decimal.Decimal
	LineSubtotal      decimal.Decimal
	LineTax           decimal.Decimal
	AllocatedBranchID string
}
