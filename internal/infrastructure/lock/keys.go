// Package lock implementa inventory.Locker: en proceso (semáforos por clave) o distribuido (Redis).
package lock

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// normalize ordena y deduplica las claves: es el orden total de adquisición.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// conflict traduce un vencimiento de espera a ErrConcurrencyConflict. Si fue el llamador
// quien canceló, se devuelve su error tal cual.
func conflict(parent context.Context, key string) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return fmt.Errorf("bloqueo %s: %w", key, domain.ErrConcurrencyConflict)
}
