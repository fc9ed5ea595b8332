package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del catálogo de items. El inventario solo cambia vía movimientos.
type ItemUseCase struct {
	repo     repository.ItemRepository
	txRunner inventory.TxRunner
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, txRunner inventory.TxRunner) *ItemUseCase {
	return &ItemUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un item con inventario en 0 y un código QR nuevo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.NewValidationError("code", "es obligatorio")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("item con código %s: %w", code, domain.ErrDuplicate)
	}
	status := in.Status
	if status == "" {
		status = entity.ItemStatusOperativo
	}
	if !entity.ValidItemStatus(status) {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:           uuid.New().String(),
		Code:         code,
		Description:  strings.TrimSpace(in.Description),
		Serial:       in.Serial,
		Category:     in.Category,
		Process:      in.Process,
		Status:       status,
		Active:       true,
		Observations: in.Observations,
		QRCode:       newQRCode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un item por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByQRCode resuelve un item escaneado por su código QR.
func (uc *ItemUseCase) GetByQRCode(ctx context.Context, qrCode string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByQRCode(ctx, qrCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("qr %s: %w", qrCode, domain.ErrNotFound)
	}
	return toItemResponse(item), nil
}

// Update actualiza los datos descriptivos de un item.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewValidationError("code", "es obligatorio")
		}
		if code != item.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, fmt.Errorf("item con código %s: %w", code, domain.ErrDuplicate)
			}
		}
		item.Code = code
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Serial != nil {
		item.Serial = *in.Serial
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Process != nil {
		item.Process = *in.Process
	}
	if in.Status != nil {
		if !entity.ValidItemStatus(*in.Status) {
			return nil, domain.NewValidationError("status", "estado desconocido")
		}
		item.Status = *in.Status
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	if in.Observations != nil {
		item.Observations = *in.Observations
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// RegenerateQRCode asigna un código QR nuevo al item (el anterior deja de resolver).
func (uc *ItemUseCase) RegenerateQRCode(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.QRCode = newQRCode()
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista items con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, in dto.ItemListRequest) (*dto.ItemListResponse, error) {
	in.DefaultPage()
	f := repository.ItemFilter{
		Search:   in.Search,
		Category: in.Category,
		Status:   in.Status,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	if in.Active != "" {
		active := in.Active == "true"
		f.Active = &active
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un item. Si tiene movimientos se da de baja lógica (active=false) para
// conservar el historial; si nunca se movió se borra.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) (*dto.DeleteItemResponse, error) {
	out := &dto.DeleteItemResponse{ID: id}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		item, err := tx.Items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		count, err := tx.Movements.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if count == 0 && item.TotalInventory.IsZero() {
			return tx.Items.Delete(ctx, id)
		}
		item.Active = false
		item.UpdatedAt = time.Now().UTC()
		out.SoftDeleted = true
		return tx.Items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *ItemUseCase) get(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

func newQRCode() string { return "ALM-" + strings.ToUpper(uuid.New().String()) }
