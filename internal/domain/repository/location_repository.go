package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// LocationFilter filtros para listar ubicaciones.
type LocationFilter struct {
	Search string
	Type   string
	Status string
	Limit  int
	Offset int
}

// LocationRepository define el puerto de persistencia para Location.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	// GetForShare lee la ubicación dentro de una tx de modo que su estado no cambie hasta el commit.
	GetForShare(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, f LocationFilter) ([]*entity.Location, error)
}
