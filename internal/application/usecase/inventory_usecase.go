package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// InventoryUseCase adapta los DTOs HTTP al registrador de movimientos y al ledger.
// Cada mutación responde con el estado autoritativo del item después del commit.
type InventoryUseCase struct {
	recorder  *inventory.MovementRecorder
	ledger    *inventory.StockLedger
	locations repository.LocationRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	recorder *inventory.MovementRecorder,
	ledger *inventory.StockLedger,
	locations repository.LocationRepository,
) *InventoryUseCase {
	return &InventoryUseCase{recorder: recorder, ledger: ledger, locations: locations}
}

// RegisterIn registra una entrada de stock.
func (uc *InventoryUseCase) RegisterIn(ctx context.Context, actor entity.Actor, in dto.MovementRequest) (*dto.MovementResultResponse, error) {
	mov, err := uc.recorder.RecordIn(ctx, toMovementInput(actor, in))
	if err != nil {
		return nil, err
	}
	return uc.movementResult(ctx, mov)
}

// RegisterOut registra una salida de stock.
func (uc *InventoryUseCase) RegisterOut(ctx context.Context, actor entity.Actor, in dto.MovementRequest) (*dto.MovementResultResponse, error) {
	mov, err := uc.recorder.RecordOut(ctx, toMovementInput(actor, in))
	if err != nil {
		return nil, err
	}
	return uc.movementResult(ctx, mov)
}

// RegisterAdjust fija el balance del par a in.Quantity.
func (uc *InventoryUseCase) RegisterAdjust(ctx context.Context, actor entity.Actor, in dto.MovementRequest) (*dto.MovementResultResponse, error) {
	mov, err := uc.recorder.RecordAdjust(ctx, toMovementInput(actor, in))
	if err != nil {
		return nil, err
	}
	return uc.movementResult(ctx, mov)
}

// RegisterTransfer traslada stock entre dos ubicaciones.
func (uc *InventoryUseCase) RegisterTransfer(ctx context.Context, actor entity.Actor, in dto.TransferRequest) (*dto.TransferResultResponse, error) {
	res, err := uc.recorder.RecordTransfer(ctx, inventory.TransferInput{
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Actor:          actor.UserID,
		Comment:        in.Comment,
	})
	if err != nil {
		return nil, err
	}
	item, err := uc.ItemBalances(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	return &dto.TransferResultResponse{
		Out:  ToMovementResponse(res.Out),
		In:   ToMovementResponse(res.In),
		Item: *item,
	}, nil
}

// ItemBalances balances del item en todas sus ubicaciones, con el total y la verificación de consistencia.
func (uc *InventoryUseCase) ItemBalances(ctx context.Context, itemID string) (*dto.ItemBalancesResponse, error) {
	view, err := uc.ledger.ItemBalances(ctx, itemID)
	if err != nil {
		return nil, err
	}
	locations, err := uc.locationIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := toItemBalancesResponse(view, locations)
	return &out, nil
}

// ListBalances lista balances filtrados por item y/o ubicación.
func (uc *InventoryUseCase) ListBalances(ctx context.Context, in dto.BalanceListRequest) ([]dto.BalanceResponse, error) {
	list, err := uc.ledger.List(ctx, repository.BalanceFilter{
		ItemID:      in.ItemID,
		LocationID:  in.LocationID,
		IncludeZero: in.IncludeZero,
	})
	if err != nil {
		return nil, err
	}
	locations, err := uc.locationIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBalanceResponse(b, locations[b.LocationID]))
	}
	return out, nil
}

// History historial paginado de movimientos de un item (más reciente primero).
func (uc *InventoryUseCase) History(ctx context.Context, itemID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	list, total, err := uc.recorder.History(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Items: toMovementResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// LocationHistory historial paginado de movimientos de una ubicación.
func (uc *InventoryUseCase) LocationHistory(ctx context.Context, locationID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	list, err := uc.recorder.LocationHistory(ctx, locationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Items: toMovementResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Correlated piernas de un mismo traslado o de una misma aprobación.
func (uc *InventoryUseCase) Correlated(ctx context.Context, correlationID string) ([]dto.MovementResponse, error) {
	list, err := uc.recorder.Correlated(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("correlación %s: %w", correlationID, domain.ErrNotFound)
	}
	return toMovementResponses(list), nil
}

// Verify comprueba la consistencia total == Σ balances de un item.
func (uc *InventoryUseCase) Verify(ctx context.Context, itemID string) error {
	return uc.ledger.Verify(ctx, itemID)
}

func (uc *InventoryUseCase) movementResult(ctx context.Context, mov *entity.Movement) (*dto.MovementResultResponse, error) {
	item, err := uc.ItemBalances(ctx, mov.ItemID)
	if err != nil {
		return nil, err
	}
	return &dto.MovementResultResponse{Movement: ToMovementResponse(mov), Item: *item}, nil
}

func (uc *InventoryUseCase) locationIndex(ctx context.Context) (map[string]*entity.Location, error) {
	list, err := uc.locations.List(ctx, repository.LocationFilter{})
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*entity.Location, len(list))
	for _, l := range list {
		idx[l.ID] = l
	}
	return idx, nil
}

func toMovementInput(actor entity.Actor, in dto.MovementRequest) inventory.MovementInput {
	return inventory.MovementInput{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Actor:      actor.UserID,
		Comment:    in.Comment,
	}
}
