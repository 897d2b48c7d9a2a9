package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// StockMovementRepository puerto del kardex (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListBySource(ctx context.Context, source entity.MovementSource, sourceID string) ([]*entity.StockMovement, error)
	// SumSigned suma con signo los movimientos de un par (sucursal, variante).
	SumSigned(ctx context.Context, branchID, variantID string) (int, error)
}
