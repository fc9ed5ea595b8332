package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// History lista los movimientos de un item en orden cronológico inverso.
// Lee sin tomar bloqueos del ledger: solo ve lo ya confirmado.
func (r *MovementRecorder) History(ctx context.Context, itemID string, limit, offset int) ([]*entity.Movement, int, error) {
	item, err := r.ledger.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}
	if item == nil {
		return nil, 0, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	limit, offset = clampPage(limit, offset)
	list, err := r.movements.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.movements.CountByItem(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// LocationHistory lista los movimientos de una ubicación en orden cronológico inverso.
func (r *MovementRecorder) LocationHistory(ctx context.Context, locationID string, limit, offset int) ([]*entity.Movement, error) {
	loc, err := r.ledger.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
	}
	limit, offset = clampPage(limit, offset)
	return r.movements.ListByLocation(ctx, locationID, limit, offset)
}

// Correlated devuelve las piernas que comparten correlationID (traslado o aprobación).
func (r *MovementRecorder) Correlated(ctx context.Context, correlationID string) ([]*entity.Movement, error) {
	return r.movements.ListByCorrelation(ctx, correlationID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
