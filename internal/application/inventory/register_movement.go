package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) ([]dto.MovementResponse, error) {
	input := MovementInputDTO{
		UserID:       userID,
		BranchID:     in.BranchID,
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		VariantID:    in.VariantID,
		Type:         strings.ToUpper(strings.TrimSpace(in.Type)),
		Quantity:     in.Quantity,
		MinStock:     in.MinStock,
	}
	return uc.RegisterMovement(ctx, input)
}
