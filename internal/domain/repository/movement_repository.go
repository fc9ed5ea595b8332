package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementRepository puerto append-only para movimientos: no existe Update ni Delete.
// Los listados son en orden cronológico inverso.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Movement, error)
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Movement, error)
	ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.Movement, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
}
