package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: pares (sucursal, variante) en o bajo su mínimo.
type ReplenishmentUseCase struct {
	stockRepo repository.StockRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stockRepo repository.StockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stockRepo: stockRepo}
}

// GenerateReplenishmentList devuelve las sugerencias ordenadas por urgencia.
// branchID puede ser vacío para considerar todas las sucursales.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, branchID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	records, err := uc.stockRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := []dto.ReplenishmentSuggestionDTO{}
	for _, rec := range records {
		if branchID != "" && rec.BranchID != branchID {
			continue
		}
		if !rec.BelowMinimum() {
			continue
		}
		ideal := (rec.MinStock*3 + 1) / 2
		suggested := max(ideal-rec.Quantity, 0)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			BranchID:          rec.BranchID,
			VariantID:         rec.VariantID,
			CurrentStock:      rec.Quantity,
			MinStock:          rec.MinStock,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
		})
	}

	// Primero los agotados, luego mayor déficit relativo al mínimo, luego mayor cantidad sugerida.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.CurrentStock == 0) != (b.CurrentStock == 0) {
			return a.CurrentStock == 0
		}
		// déficit relativo: (min - actual)/min, comparado sin división
		da := (a.MinStock - a.CurrentStock) * b.MinStock
		db := (b.MinStock - b.CurrentStock) * a.MinStock
		if da != db {
			return da > db
		}
		return a.SuggestedOrderQty > b.SuggestedOrderQty
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
