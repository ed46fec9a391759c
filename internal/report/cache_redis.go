package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/routes-report/pkg/redis"
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Generation(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) (int64, error)
	ReportKey(generation int64, parts ...string) string
	Ping(ctx context.Context) error
}

// RedisCache stores reports as JSON. Clear bumps a generation counter instead
// of scanning keys; entries of older generations are left to their TTL.
type RedisCache struct {
	store redisStore
	ttl   time.Duration
}

func NewRedisCache(store redisStore, ttl time.Duration) *RedisCache {
	return &RedisCache{store: store, ttl: ttl}
}

func (c *RedisCache) key(ctx context.Context, key CacheKey) (string, error) {
	gen, err := c.store.Generation(ctx)
	if err != nil {
		return "", fmt.Errorf("reading report generation: %w", err)
	}
	return c.store.ReportKey(gen, key.parts()...), nil
}

func (c *RedisCache) Get(ctx context.Context, key CacheKey) (*Report, bool, error) {
	redisKey, err := c.key(ctx, key)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.store.Get(ctx, redisKey)
	if redis.IsMiss(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached report: %w", err)
	}
	var rep Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return nil, false, fmt.Errorf("decoding cached report: %w", err)
	}
	return &rep, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key CacheKey, rep *Report) error {
	redisKey, err := c.key(ctx, key)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return c.store.Set(ctx, redisKey, payload, c.ttl)
}

func (c *RedisCache) Delete(ctx context.Context, key CacheKey) error {
	redisKey, err := c.key(ctx, key)
	if err != nil {
		return err
	}
	return c.store.Del(ctx, redisKey)
}

func (c *RedisCache) Clear(ctx context.Context) error {
	_, err := c.store.BumpGeneration(ctx)
	return err
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}
