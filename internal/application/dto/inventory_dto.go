package dto

// Tipos aceptados por POST /api/inventory/movements.
const (
	ManualMovementEntry      = "ENTRY"
	ManualMovementAdjustment = "ADJUSTMENT"
	ManualMovementTransfer   = "TRANSFER"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// En ADJUSTMENT la cantidad lleva signo (positivo suma, negativo resta); en ENTRY y TRANSFER debe ser positiva.
// TRANSFER usa FromBranchID y ToBranchID en lugar de BranchID.
type RegisterMovementRequest struct {
	BranchID     string `json:"branch_id,omitempty"`
	FromBranchID string `json:"from_branch_id,omitempty"`
	ToBranchID   string `json:"to_branch_id,omitempty"`
	VariantID    string `json:"variant_id"`
	Type         string `json:"type"`
	Quantity     int    `json:"quantity"`
	MinStock     *int   `json:"min_stock,omitempty"`
}

// MovementResponse movimiento registrado y stock resultante.
type MovementResponse struct {
	ID         string `json:"id"`
	BranchID   string `json:"branch_id"`
	VariantID  string `json:"variant_id"`
	Kind       string `json:"kind"`
	Quantity   int    `json:"quantity"`
	StockAfter int    `json:"stock_after"`
}

// ReconciliationItem kardex vs registro para un par (sucursal, variante).
type ReconciliationItem struct {
	BranchID       string `json:"branch_id"`
	VariantID      string `json:"variant_id"`
	RecordQuantity int    `json:"record_quantity"`
	LedgerQuantity int    `json:"ledger_quantity"`
	Balanced       bool   `json:"balanced"`
}

// ReconciliationResponse resultado de la conciliación.
type ReconciliationResponse struct {
	Items      []ReconciliationItem `json:"items"`
	Unbalanced int                  `json:"unbalanced"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un par (sucursal, variante) en o bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	BranchID          string `json:"branch_id"`
	VariantID         string `json:"variant_id"`
	CurrentStock      int    `json:"current_stock"`
	MinStock          int    `json:"min_stock"`
	IdealStock        int    `json:"ideal_stock"`         // ⌈MinStock × 1.5⌉
	SuggestedOrderQty int    `json:"suggested_order_qty"` // IdealStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}
