package cache

import (
	"context"
	"time"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// BranchCache guarda la lista de sucursales activas (cambia poco y se lee en cada checkout).
type BranchCache interface {
	GetActive(ctx context.Context) ([]*entity.Branch, bool, error)
	SetActive(ctx context.Context, branches []*entity.Branch, ttl time.Duration) error
}

type NoopBranchCache struct{}

func (NoopBranchCache) GetActive(_ context.Context) ([]*entity.Branch, bool, error) {
	return nil, false, nil
}

func (NoopBranchCache) SetActive(_ context.Context, _ []*entity.Branch, _ time.Duration) error {
	return nil
}
