package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/cache"
)

type countingBranchRepo struct {
	calls    int
	branches []*entity.Branch
	err      error
}

func (r *countingBranchRepo) ListActive(_ context.Context) ([]*entity.Branch, error) {
	r.calls++
	return r.branches, r.err
}

type mapCache struct {
	stored  []*entity.Branch
	ok      bool
	ttl     time.Duration
	failGet bool
}

func (c *mapCache) GetActive(_ context.Context) ([]*entity.Branch, bool, error) {
	if c.failGet {
		return nil, false, errors.New("redis caído")
	}
	return c.stored, c.ok, nil
}

func (c *mapCache) SetActive(_ context.Context, b []*entity.Branch, ttl time.Duration) error {
	c.stored, c.ok, c.ttl = b, true, ttl
	return nil
}

func TestCachedBranchRepository_MissThenHit(t *testing.T) {
	src := &countingBranchRepo{branches: []*entity.Branch{{ID: "B1", Code: "SJ01", Region: "San José", Active: true}}}
	c := &mapCache{}
	repo := cache.NewCachedBranchRepository(src, c, time.Minute, nil)

	first, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	second, err := repo.ListActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, time.Minute, c.ttl)
	assert.Equal(t, first, second)
}

func TestCachedBranchRepository_CacheFailureFallsBack(t *testing.T) {
	src := &countingBranchRepo{branches: []*entity.Branch{{ID: "B1"}}}
	repo := cache.NewCachedBranchRepository(src, &mapCache{failGet: true}, time.Minute, nil)

	got, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, src.calls)
}

func TestCachedBranchRepository_SourceErrorNotCached(t *testing.T) {
	src := &countingBranchRepo{err: errors.New("db")}
	c := &mapCache{}
	repo := cache.NewCachedBranchRepository(src, c, time.Minute, nil)

	_, err := repo.ListActive(context.Background())
	require.Error(t, err)
	assert.False(t, c.ok)
}

func TestCachedBranchRepository_NoopCache(t *testing.T) {
	src := &countingBranchRepo{branches: []*entity.Branch{{ID: "B1"}}}
	repo := cache.NewCachedBranchRepository(src, nil, time.Minute, nil)
	_, _ = repo.ListActive(context.Background())
	_, _ = repo.ListActive(context.Background())
	assert.Equal(t, 2, src.calls)
}
