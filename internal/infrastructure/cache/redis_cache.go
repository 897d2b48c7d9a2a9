package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

const activeBranchesKey = "omnicanal:branches:active"

type RedisBranchCache struct {
	client *redis.Client
}

func NewRedisBranchCache(addr string, password string, db int) *RedisBranchCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisBranchCache{client: client}
}

func (c *RedisBranchCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisBranchCache) Close() error {
	return c.client.Close()
}

func (c *RedisBranchCache) GetActive(ctx context.Context) ([]*entity.Branch, bool, error) {
	val, err := c.client.Get(ctx, activeBranchesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var branches []*entity.Branch
	if err := json.Unmarshal(val, &branches); err != nil {
		return nil, false, err
	}
	return branches, true, nil
}

func (c *RedisBranchCache) SetActive(ctx context.Context, branches []*entity.Branch, ttl time.Duration) error {
	payload, err := json.Marshal(branches)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeBranchesKey, payload, ttl).Err()
}

// Invalidate borra la entrada; lo usa el flujo que administra sucursales.
func (c *RedisBranchCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeBranchesKey).Err()
}
