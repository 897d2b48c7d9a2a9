package entity

import "time"

// MovementKind tipo de movimiento del kardex. La cantidad siempre es positiva; el signo lo da el tipo.
type MovementKind string

const (
	MovementKindEntry         MovementKind = "ENTRY"          // entrada
	MovementKindExit          MovementKind = "EXIT"           // salida por venta
	MovementKindAdjustmentIn  MovementKind = "ADJUSTMENT_IN"  // ajuste positivo
	MovementKindAdjustmentOut MovementKind = "ADJUSTMENT_OUT" // ajuste negativo
	MovementKindReturn        MovementKind = "RETURN"         // reintegro por cancelación
)

// Sign +1 para tipos que suman stock, -1 para los que restan, 0 si el tipo es desconocido.
func (k MovementKind) Sign() int {
	switch k {
	case MovementKindEntry, MovementKindAdjustmentIn, MovementKindReturn:
		return 1
	case MovementKindExit, MovementKindAdjustmentOut:
		return -1
	}
	return 0
}

// MovementSource origen del movimiento.
type MovementSource string

const (
	MovementSourceCheckout     MovementSource = "CHECKOUT"
	MovementSourceCancellation MovementSource = "CANCELLATION"
	MovementSourceManual       MovementSource = "MANUAL"
)

// StockMovement hecho inmutable del kardex. Nunca se actualiza ni se borra:
// la suma de movimientos de un par (sucursal, variante) es igual al stock del registro.
type StockMovement struct {
	ID         string
	BranchID   string
	VariantID  string
	Kind       MovementKind
	Quantity   int
	SourceType MovementSource
	SourceID   string
	Actor      string
	CreatedAt  time.Time
}

// SignedQuantity cantidad con el signo implícito del tipo.
func (m *StockMovement) SignedQuantity() int {
	return m.Kind.Sign() * m.Quantity
}
