package cache

import (
	"context"
	"time"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

var _ repository.BranchRepository = (*CachedBranchRepository)(nil)

// CachedBranchRepository decora un BranchRepository con la caché de sucursales activas.
// Un fallo de la caché nunca bloquea el checkout: se registra y se lee del origen.
type CachedBranchRepository struct {
	next  repository.BranchRepository
	cache BranchCache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedBranchRepository(next repository.BranchRepository, cache BranchCache, ttl time.Duration, log *logger.Logger) *CachedBranchRepository {
	if cache == nil {
		cache = NoopBranchCache{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedBranchRepository{next: next, cache: cache, ttl: ttl, log: log}
}

func (r *CachedBranchRepository) ListActive(ctx context.Context) ([]*entity.Branch, error) {
	branches, hit, err := r.cache.GetActive(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("caché de sucursales no disponible")
	} else if hit {
		return branches, nil
	}

	branches, err = r.next.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetActive(ctx, branches, r.ttl); err != nil {
		r.log.Warn().Err(err).Msg("no se pudo guardar sucursales en caché")
	}
	return branches, nil
}
