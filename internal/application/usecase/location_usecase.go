package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones. No hay borrado físico: las ubicaciones
// se desactivan y conservan sus balances históricos.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una ubicación activa.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.NewValidationError("code", "es obligatorio")
	}
	if !entity.ValidLocationType(in.Type) {
		return nil, domain.NewValidationError("type", "tipo de ubicación desconocido")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("ubicación con código %s: %w", code, domain.ErrDuplicate)
	}
	now := time.Now().UTC()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		Status:    entity.LocationStatusActive,
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// Update actualiza una ubicación (incluye activar o desactivar vía Status).
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewValidationError("code", "es obligatorio")
		}
		if code != loc.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, fmt.Errorf("ubicación con código %s: %w", code, domain.ErrDuplicate)
			}
		}
		loc.Code = code
	}
	if in.Name != nil {
		loc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		if !entity.ValidLocationType(*in.Type) {
			return nil, domain.NewValidationError("type", "tipo de ubicación desconocido")
		}
		loc.Type = *in.Type
	}
	if in.Status != nil {
		if !entity.ValidLocationStatus(*in.Status) {
			return nil, domain.NewValidationError("status", "estado desconocido")
		}
		loc.Status = *in.Status
	}
	if in.Address != nil {
		loc.Address = *in.Address
	}
	if in.Notes != nil {
		loc.Notes = *in.Notes
	}
	loc.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// Deactivate marca la ubicación como INACTIVE. Es idempotente.
func (uc *LocationUseCase) Deactivate(ctx context.Context, id string) (*dto.LocationResponse, error) {
	inactive := entity.LocationStatusInactive
	return uc.Update(ctx, id, dto.UpdateLocationRequest{Status: &inactive})
}

// List lista ubicaciones con filtros y paginación.
func (uc *LocationUseCase) List(ctx context.Context, in dto.LocationListRequest) (*dto.LocationListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.LocationFilter{
		Search: in.Search,
		Type:   in.Type,
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func (uc *LocationUseCase) get(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return loc, nil
}
