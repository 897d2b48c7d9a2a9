package inventory

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/application/ports"
	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/inventory"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

// RegisterMovementUseCase registra movimientos manuales de inventario de forma transaccional
// (ENTRY, ADJUSTMENT, TRANSFER) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada cambio del registro deja su movimiento en el kardex.
type RegisterMovementUseCase struct {
	txRunner ports.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner ports.TxRunner, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// MovementInputDTO entrada para registrar un movimiento.
// Para ENTRY/ADJUSTMENT: BranchID, VariantID, Type, Quantity (con signo en ADJUSTMENT).
// Para TRANSFER: FromBranchID, ToBranchID, VariantID, Quantity > 0.
type MovementInputDTO struct {
	UserID       string
	BranchID     string
	FromBranchID string
	ToBranchID   string
	VariantID    string
	Type         string
	Quantity     int
	MinStock     *int
}

type step struct {
	key  entity.StockKey
	kind entity.MovementKind
	qty  int
}

// RegisterMovement valida, bloquea las filas en orden (branch_id, variant_id), aplica el movimiento
// y guarda kardex y auditoría en la misma transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) ([]dto.MovementResponse, error) {
	steps, err := planSteps(input)
	if err != nil {
		return nil, err
	}
	if input.MinStock != nil && *input.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}

	var out []dto.MovementResponse
	err = ports.RunWithRetry(ctx, uc.log, "inventory_movement", func(ctx context.Context) error {
		out = out[:0]
		return uc.txRunner.Run(ctx, func(ctx context.Context, r ports.Repos) error {
			now := uc.now()
			txID := uuid.NewString()
			for _, s := range steps {
				// Bloquea la fila en inventory_stock; si no existe arranca en cero
				rec, err := r.Stock.GetForUpdate(ctx, s.key.BranchID, s.key.VariantID)
				if err != nil {
					return err
				}
				if err := inventory.Apply(rec, s.kind, s.qty, now); err != nil {
					return err
				}
				if input.MinStock != nil && input.Type != dto.ManualMovementTransfer {
					rec.MinStock = *input.MinStock
				}
				if err := r.Stock.Upsert(ctx, rec); err != nil {
					return err
				}
				mov := inventory.NewMovement(uuid.NewString(), rec, s.kind, s.qty, entity.MovementSourceManual, txID, input.UserID, now)
				if err := r.Movements.Create(ctx, mov); err != nil {
					return err
				}
				out = append(out, dto.MovementResponse{
					ID:         mov.ID,
					BranchID:   mov.BranchID,
					VariantID:  mov.VariantID,
					Kind:       string(mov.Kind),
					Quantity:   mov.Quantity,
					StockAfter: rec.Quantity,
				})
			}
			detail, _ := json.Marshal(map[string]any{"type": input.Type, "transaction_id": txID, "movements": out})
			return r.Audit.Create(ctx, &entity.AuditEntry{
				ID:         uuid.NewString(),
				Action:     entity.AuditActionStockMovement,
				EntityType: "inventory",
				EntityID:   input.VariantID,
				Actor:      input.UserID,
				Detail:     detail,
				CreatedAt:  now,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// planSteps traduce la solicitud a movimientos del kardex, en orden global de bloqueo.
func planSteps(input MovementInputDTO) ([]step, error) {
	if strings.TrimSpace(input.VariantID) == "" {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case dto.ManualMovementEntry:
		if input.BranchID == "" || input.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		return []step{{entity.StockKey{BranchID: input.BranchID, VariantID: input.VariantID}, entity.MovementKindEntry, input.Quantity}}, nil
	case dto.ManualMovementAdjustment:
		if input.BranchID == "" || input.Quantity == 0 {
			return nil, domain.ErrInvalidInput
		}
		key := entity.StockKey{BranchID: input.BranchID, VariantID: input.VariantID}
		if input.Quantity > 0 {
			return []step{{key, entity.MovementKindAdjustmentIn, input.Quantity}}, nil
		}
		return []step{{key, entity.MovementKindAdjustmentOut, -input.Quantity}}, nil
	case dto.ManualMovementTransfer:
		if input.FromBranchID == "" || input.ToBranchID == "" || input.FromBranchID == input.ToBranchID || input.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		out := step{entity.StockKey{BranchID: input.FromBranchID, VariantID: input.VariantID}, entity.MovementKindAdjustmentOut, input.Quantity}
		in := step{entity.StockKey{BranchID: input.ToBranchID, VariantID: input.VariantID}, entity.MovementKindAdjustmentIn, input.Quantity}
		if in.key.Less(out.key) {
			return []step{in, out}, nil
		}
		return []step{out, in}, nil
	}
	return nil, domain.ErrInvalidInput
}
