package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// Apply aplica un movimiento sobre el registro (servicio de dominio del kardex).
// NuevoStock = StockActual + signo(tipo) × cantidad; nunca queda negativo.
// El registro debe estar bloqueado por el llamador.
func Apply(rec *entity.InventoryRecord, kind entity.MovementKind, quantity int, now time.Time) error {
	if quantity <= 0 || kind.Sign() == 0 {
		return domain.ErrInvalidInput
	}
	next := rec.Quantity + kind.Sign()*quantity
	if next < 0 {
		return &domain.InsufficientStockError{VariantID: rec.VariantID, LineIndex: -1, Requested: quantity}
	}
	rec.Quantity = next
	rec.UpdatedAt = now
	return nil
}

// NewMovement construye el movimiento que acompaña a Apply.
func NewMovement(id string, rec *entity.InventoryRecord, kind entity.MovementKind, quantity int,
	source entity.MovementSource, sourceID, actor string, now time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:         id,
		BranchID:   rec.BranchID,
		VariantID:  rec.VariantID,
		Kind:       kind,
		Quantity:   quantity,
		SourceType: source,
		SourceID:   sourceID,
		Actor:      actor,
		CreatedAt:  now,
	}
}

// SignedTotal suma con signo una lista de movimientos.
func SignedTotal(movements []*entity.StockMovement) int {
	total := 0
	for _, m := range movements {
		total += m.SignedQuantity()
	}
	return total
}

// Reconciliation resultado de comparar el kardex con el registro materializado.
type Reconciliation struct {
	BranchID       string
	VariantID      string
	RecordQuantity int
	LedgerQuantity int
}

// Balanced indica si el kardex cuadra con el registro.
func (r Reconciliation) Balanced() bool {
	return r.RecordQuantity == r.LedgerQuantity
}

func (r Reconciliation) String() string {
	return fmt.Sprintf("%s/%s registro=%d kardex=%d", r.BranchID, r.VariantID, r.RecordQuantity, r.LedgerQuantity)
}
