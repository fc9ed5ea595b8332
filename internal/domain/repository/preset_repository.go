package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PresetRepository puerto de persistencia para presets (plantillas de requisición).
type PresetRepository interface {
	Create(ctx context.Context, preset *entity.Preset) error
	GetByID(ctx context.Context, id string) (*entity.Preset, error)
	GetByName(ctx context.Context, name string) (*entity.Preset, error)
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, preset *entity.Preset) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Preset, error)
}
