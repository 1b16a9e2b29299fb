package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartadega/smartadega-api/internal/config"
)

// Nothing listens on port 1, so every command fails fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisSummaryCacheDegradesToMiss(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()
	cache := NewRedisSummaryCache(client, time.Hour)

	cache.Set(context.Background(), "recognition:label:abc", &WineSummary{Name: "Malbec"})
	summary, ok := cache.Get(context.Background(), "recognition:label:abc")
	assert.False(t, ok)
	assert.Nil(t, summary)
}

func TestNewRedisClientFailsWhenUnreachable(t *testing.T) {
	_, err := NewRedisClient(config.RedisConfig{Host: "127.0.0.1", Port: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis connection failed")
}
