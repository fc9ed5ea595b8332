package lock

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

var _ inventory.Locker = (*KeyLocker)(nil)

// KeyLocker exclusión mutua por clave dentro del proceso. Cada clave es un semáforo de peso 1
// que se crea bajo demanda y se libera cuando nadie lo usa ni lo espera.
type KeyLocker struct {
	mu      sync.Mutex
	entries map[string]*keyEntry
	timeout time.Duration
}

type keyEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewKeyLocker construye el locker. timeout acota la espera total de Acquire.
func NewKeyLocker(timeout time.Duration) *KeyLocker {
	return &KeyLocker{entries: make(map[string]*keyEntry), timeout: timeout}
}

// Acquire bloquea todas las claves en orden o ninguna.
func (l *KeyLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	held := make([]string, 0, len(keys))
	for _, k := range keys {
		e := l.ref(k)
		if err := e.sem.Acquire(waitCtx, 1); err != nil {
			l.unref(k)
			l.release(held)
			return nil, conflict(ctx, k)
		}
		held = append(held, k)
	}
	var once sync.Once
	return func() { once.Do(func() { l.release(held) }) }, nil
}

func (l *KeyLocker) ref(key string) *keyEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &keyEntry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func (l *KeyLocker) release(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.entries[keys[i]]
		l.mu.Unlock()
		e.sem.Release(1)
		l.unref(keys[i])
	}
}

// Len cantidad de claves vivas (bloqueadas o con espera).
func (l *KeyLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
