package cache

import (
	"context"
	"testing"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// testRedis connects to the redis instance from the environment and
// flushes db. Tests are skipped when it cannot be reached.
func testRedis(t *testing.T, db int) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	rdb, err := NewRedisClient(context.Background(), RedisOptions{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err(), "Failed to flush test DB")
	return rdb
}
