package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/infrastructure/lock"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Requiere Redis: REDIS_TEST_ADDR=localhost:6379 go test ./internal/infrastructure/lock/...
func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR no definido")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())

	l := lock.NewRedisLocker(rdb, 5*time.Second, 100*time.Millisecond, logger.Nop())
	key := "test:" + time.Now().Format(time.RFC3339Nano)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)

	_, err = l.Acquire(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	release()
	release2, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)
	release2()
}
