package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// BranchRepository puerto de lectura de sucursales.
type BranchRepository interface {
	ListActive(ctx context.Context) ([]*entity.Branch, error)
}
