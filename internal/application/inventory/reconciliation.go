package inventory

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/domain/inventory"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

// ReconciliationUseCase compara el kardex (Σ movimientos con signo) con el stock materializado.
type ReconciliationUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
}

// NewReconciliationUseCase construye el caso de uso.
func NewReconciliationUseCase(stockRepo repository.StockRepository, movementRepo repository.StockMovementRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{stockRepo: stockRepo, movementRepo: movementRepo}
}

// Reconcile revisa todos los registros, o solo los filtrados por sucursal y/o variante.
// Con ambos filtros se informa el par aunque no tenga registro.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, branchID, variantID string) (*dto.ReconciliationResponse, error) {
	resp := &dto.ReconciliationResponse{Items: []dto.ReconciliationItem{}}
	add := func(branch, variant string, recordQty int) error {
		sum, err := uc.movementRepo.SumSigned(ctx, branch, variant)
		if err != nil {
			return err
		}
		rc := inventory.Reconciliation{BranchID: branch, VariantID: variant, RecordQuantity: recordQty, LedgerQuantity: sum}
		resp.Items = append(resp.Items, dto.ReconciliationItem{
			BranchID:       branch,
			VariantID:      variant,
			RecordQuantity: recordQty,
			LedgerQuantity: sum,
			Balanced:       rc.Balanced(),
		})
		if !rc.Balanced() {
			resp.Unbalanced++
		}
		return nil
	}

	if branchID != "" && variantID != "" {
		rec, err := uc.stockRepo.Get(ctx, branchID, variantID)
		if err != nil {
			return nil, err
		}
		if err := add(branchID, variantID, rec.Quantity); err != nil {
			return nil, err
		}
		return resp, nil
	}

	records, err := uc.stockRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if (branchID != "" && rec.BranchID != branchID) || (variantID != "" && rec.VariantID != variantID) {
			continue
		}
		if err := add(rec.BranchID, rec.VariantID, rec.Quantity); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
