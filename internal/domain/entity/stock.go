package entity

import "time"

// StockKey identifica una fila de inventario (sucursal, variante).
type StockKey struct {
	BranchID  string
	VariantID string
}

// Less orden total usado para adquirir bloqueos siempre en la misma secuencia.
func (k StockKey) Less(o StockKey) bool {
	if k.BranchID != o.BranchID {
		return k.BranchID < o.BranchID
	}
	return k.VariantID < o.VariantID
}

// InventoryRecord stock disponible de una variante en una sucursal.
// Quantity nunca es negativa; solo se modifica con la fila bloqueada.
type InventoryRecord struct {
	BranchID  string
	VariantID string
	Quantity  int
	MinStock  int
	UpdatedAt time.Time
}

// Key devuelve la llave (sucursal, variante) del registro.
func (r *InventoryRecord) Key() StockKey {
	return StockKey{BranchID: r.BranchID, VariantID: r.VariantID}
}

// BelowMinimum indica si el stock quedó en o por debajo del mínimo configurado.
func (r *InventoryRecord) BelowMinimum() bool {
	return r.MinStock > 0 && r.Quantity <= r.MinStock
}
