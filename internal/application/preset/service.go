// Package preset casos de uso de plantillas de requisición: CRUD, expansión y estadísticas de uso.
package preset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	tmpl "github.com/jhoicas/almacen-api/internal/domain/preset"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Service casos de uso de presets.
type Service struct {
	presets  repository.PresetRepository
	items    repository.ItemRepository
	requests repository.MaterialRequestRepository
}

// NewService construye el servicio.
func NewService(
	presets repository.PresetRepository,
	items repository.ItemRepository,
	requests repository.MaterialRequestRepository,
) *Service {
	return &Service{presets: presets, items: items, requests: requests}
}

// Line línea de entrada de un preset.
type Line struct {
	ItemID   string
	Quantity decimal.Decimal
	Notes    string
}

// Input datos para crear o reemplazar un preset. Active nil = true al crear, sin cambio al actualizar.
type Input struct {
	Name        string
	Type        string
	Description string
	Active      *bool
	Items       []Line
}

// ItemDetail línea con los datos del item para mostrar.
type ItemDetail struct {
	entity.PresetItem
	Code        string
	Description string
	Active      bool
}

// Detail preset con sus líneas enriquecidas.
type Detail struct {
	*entity.Preset
	Lines []ItemDetail
}

// Create valida y persiste un preset nuevo (nombre único).
func (s *Service) Create(ctx context.Context, in Input) (*entity.Preset, error) {
	items, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Preset{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active == nil || *in.Active,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.presets.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("preset %q: %w", p.Name, domain.ErrDuplicate)
		}
		return nil, err
	}
	return p, nil
}

// Update reemplaza cabecera y líneas. Las solicitudes ya creadas no cambian.
func (s *Service) Update(ctx context.Context, id string, in Input) (*entity.Preset, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Type = in.Type
	p.Description = strings.TrimSpace(in.Description)
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.Items = items
	p.UpdatedAt = time.Now().UTC()
	if err := s.presets.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Deactivate marca el preset como inactivo: deja de ser seleccionable pero sigue siendo
// una procedencia válida para las solicitudes existentes.
func (s *Service) Deactivate(ctx context.Context, id string) (*entity.Preset, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return p, nil
	}
	p.Active = false
	p.UpdatedAt = time.Now().UTC()
	if err := s.presets.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get devuelve el preset con el detalle de cada item.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &Detail{Preset: p, Lines: make([]ItemDetail, 0, len(p.Items))}
	for _, it := range p.Items {
		line := ItemDetail{PresetItem: it}
		item, err := s.items.GetByID(ctx, it.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			line.Code = item.Code
			line.Description = item.Description
			line.Active = item.Active
		}
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

// List lista presets; por defecto solo los activos.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]*entity.Preset, error) {
	return s.presets.List(ctx, includeInactive)
}

// Expand copia las líneas del preset en un borrador editable. Un preset inactivo no se puede seleccionar.
func (s *Service) Expand(ctx context.Context, id string) ([]tmpl.Line, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.NewValidationError("preset_id", "el preset está inactivo")
	}
	return tmpl.Expand(p), nil
}

func (s *Service) get(ctx context.Context, id string) (*entity.Preset, error) {
	p, err := s.presets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *Service) validate(ctx context.Context, in Input) ([]entity.PresetItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if !entity.ValidPresetType(in.Type) {
		return nil, domain.NewValidationError("type", "tipo de preset desconocido")
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "el preset debe tener al menos un item")
	}
	seen := make(map[string]struct{}, len(in.Items))
	out := make([]entity.PresetItem, 0, len(in.Items))
	for _, l := range in.Items {
		if l.ItemID == "" {
			return nil, domain.NewValidationError("item_id", "es obligatorio")
		}
		if _, dup := seen[l.ItemID]; dup {
			return nil, domain.NewValidationError("items", fmt.Sprintf("el item %s está repetido", l.ItemID))
		}
		seen[l.ItemID] = struct{}{}
		if !l.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor a 0")
		}
		if err := domaininv.CheckScale("quantity", l.Quantity); err != nil {
			return nil, err
		}
		item, err := s.items.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("item %s: %w", l.ItemID, domain.ErrNotFound)
		}
		out = append(out, entity.PresetItem{ItemID: l.ItemID, Quantity: l.Quantity, Notes: strings.TrimSpace(l.Notes)})
	}
	return out, nil
}
