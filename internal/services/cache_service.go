// internal/services/cache_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/config"
)

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logrus.WithField("addr", cfg.Addr()).Info("Connected to Redis")
	return client, nil
}

// RedisSummaryCache stores recognition summaries as JSON. Redis errors are
// logged and treated as misses; the cache never fails a request.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) Get(ctx context.Context, key string) (*WineSummary, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("key", key).Warn("Recognition cache read failed")
		}
		return nil, false
	}

	var summary WineSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Discarding corrupt recognition cache entry")
		return nil, false
	}
	return &summary, true
}

func (c *RedisSummaryCache) Set(ctx context.Context, key string, summary *WineSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Recognition cache write failed")
	}
}
