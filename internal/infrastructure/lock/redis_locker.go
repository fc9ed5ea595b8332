package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var _ inventory.Locker = (*RedisLocker)(nil)

const redisKeyPrefix = "almacen:lock:"

// RedisLocker bloqueo distribuido por clave para despliegues con varias instancias.
// El TTL acota cuánto sobrevive un bloqueo si la instancia muere sin liberarlo.
type RedisLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	timeout time.Duration
	backoff time.Duration
	log     *logger.Logger
}

// NewRedisLocker construye el locker sobre un cliente go-redis ya conectado.
func NewRedisLocker(rdb *redis.Client, ttl, timeout time.Duration, log *logger.Logger) *RedisLocker {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisLocker{
		client:  redislock.New(rdb),
		ttl:     ttl,
		timeout: timeout,
		backoff: 25 * time.Millisecond,
		log:     log.Component("redis_locker"),
	}
}

// Acquire obtiene las claves en orden reintentando hasta el timeout.
func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(l.backoff)}
	held := make([]*redislock.Lock, 0, len(keys))
	for _, k := range keys {
		lk, err := l.client.Obtain(waitCtx, redisKeyPrefix+k, l.ttl, opts)
		if err != nil {
			l.release(held)
			if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
				return nil, conflict(ctx, k)
			}
			return nil, err
		}
		held = append(held, lk)
	}
	var once sync.Once
	return func() { once.Do(func() { l.release(held) }) }, nil
}

func (l *RedisLocker) release(locks []*redislock.Lock) {
	// Liberar con contexto propio: el del request puede estar cancelado.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := len(locks) - 1; i >= 0; i-- {
		if err := locks[i].Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", locks[i].Key()).Msg("no se pudo liberar el bloqueo")
		}
	}
}
