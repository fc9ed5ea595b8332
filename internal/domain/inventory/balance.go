// Package inventory contiene la aritmética pura del ledger de stock (sin I/O).
package inventory

import (
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Pair identifica un balance (item, ubicación). Es la unidad de exclusión mutua del ledger.
type Pair struct {
	ItemID     string
	LocationID string
}

// Key devuelve la clave de bloqueo del par.
func (p Pair) Key() string { return "stock:" + p.ItemID + "|" + p.LocationID }

// SortPairs ordena y deduplica pares por (item, ubicación). Es el orden total con el que
// se adquieren los bloqueos, independiente de la dirección de un traslado.
func SortPairs(pairs []Pair) []Pair {
	out := make([]Pair, 0, len(pairs))
	seen := make(map[Pair]struct{}, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}

// Keys convierte pares en claves de bloqueo preservando el orden.
func Keys(pairs []Pair) []string {
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key()
	}
	return keys
}

// ApplyDelta devuelve el balance resultante de sumar delta al actual.
// Falla con InsufficientStockError si el resultado sería negativo (salidas y origen de traslados).
func ApplyDelta(p Pair, current, delta decimal.Decimal) (decimal.Decimal, error) {
	next := current.Add(delta)
	if next.IsNegative() {
		return current, &domain.InsufficientStockError{
			ItemID:     p.ItemID,
			LocationID: p.LocationID,
			Available:  current,
			Requested:  delta.Neg(),
		}
	}
	return next, nil
}

// AdjustTo valida el valor absoluto de un ajuste y devuelve el delta con signo (target - current).
// El ajuste es una corrección: no pasa por la verificación de stock suficiente, pero target >= 0.
func AdjustTo(current, target decimal.Decimal) (decimal.Decimal, error) {
	if target.IsNegative() {
		return decimal.Zero, domain.NewValidationError("quantity", "el valor ajustado no puede ser negativo")
	}
	if err := CheckScale("quantity", target); err != nil {
		return decimal.Zero, err
	}
	return target.Sub(current), nil
}

// Sum total de una lista de balances.
func Sum(balances []entity.InventoryBalance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Quantity)
	}
	return total
}

// Reconcile verifica la invariante total == Σ balances. Una divergencia es una falla de integridad.
func Reconcile(total decimal.Decimal, balances []entity.InventoryBalance) error {
	for _, b := range balances {
		if b.Quantity.IsNegative() {
			return domain.ErrIntegrity
		}
	}
	if !total.Equal(Sum(balances)) {
		return domain.ErrIntegrity
	}
	return nil
}
