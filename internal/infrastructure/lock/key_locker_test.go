package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/infrastructure/lock"
)

func TestKeyLocker_ExclusionMutua(t *testing.T) {
	l := lock.NewKeyLocker(time.Second)
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "stock:a|x")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.Len())
}

func TestKeyLocker_ClavesDisjuntasNoSeBloquean(t *testing.T) {
	l := lock.NewKeyLocker(50 * time.Millisecond)
	r1, err := l.Acquire(context.Background(), "stock:a|x")
	require.NoError(t, err)
	defer r1()

	r2, err := l.Acquire(context.Background(), "stock:a|y")
	require.NoError(t, err)
	r2()
}

func TestKeyLocker_TimeoutDevuelveConflicto(t *testing.T) {
	l := lock.NewKeyLocker(30 * time.Millisecond)
	r1, err := l.Acquire(context.Background(), "stock:a|x")
	require.NoError(t, err)
	defer r1()

	start := time.Now()
	_, err = l.Acquire(context.Background(), "stock:a|y", "stock:a|x")
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Less(t, time.Since(start), time.Second)

	// la clave ya obtenida (a|y) se liberó al fallar
	r3, err := l.Acquire(context.Background(), "stock:a|y")
	require.NoError(t, err)
	r3()
}

func TestKeyLocker_OrdenInversoNoHaceDeadlock(t *testing.T) {
	l := lock.NewKeyLocker(2 * time.Second)
	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "stock:a|x", "stock:a|y")
			if err != nil {
				errs <- err
				return
			}
			release()
		}()
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "stock:a|y", "stock:a|x")
			if err != nil {
				errs <- err
				return
			}
			release()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("acquire: %v", err)
	}
}

func TestKeyLocker_ContextoCanceladoPorLlamador(t *testing.T) {
	l := lock.NewKeyLocker(time.Second)
	r1, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer r1()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyLocker_ReleaseIdempotente(t *testing.T) {
	l := lock.NewKeyLocker(time.Second)
	release, err := l.Acquire(context.Background(), "k", "k")
	require.NoError(t, err)
	release()
	release()
	assert.Equal(t, 0, l.Len())
}
