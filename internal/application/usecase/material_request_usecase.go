package usecase

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/approval"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// MaterialRequestUseCase adapta los DTOs HTTP al motor de aprobación.
type MaterialRequestUseCase struct {
	engine *approval.Engine
	items  repository.ItemRepository
}

// NewMaterialRequestUseCase construye el caso de uso.
func NewMaterialRequestUseCase(engine *approval.Engine, items repository.ItemRepository) *MaterialRequestUseCase {
	return &MaterialRequestUseCase{engine: engine, items: items}
}

// Create registra una solicitud PENDING a nombre del actor.
func (uc *MaterialRequestUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateMaterialRequestRequest) (*dto.MaterialRequestResponse, error) {
	input := approval.CreateInput{
		TicketID: in.TicketID,
		Items:    make([]approval.CreateLine, 0, len(in.Items)),
		Notes:    in.Notes,
		PresetID: in.PresetID,
		Actor:    actor,
	}
	for _, l := range in.Items {
		input.Items = append(input.Items, approval.CreateLine{ItemID: l.ItemID, Quantity: l.QuantityRequested, Notes: l.Notes})
	}
	req, err := uc.engine.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return uc.response(ctx, req)
}

// GetByID obtiene una solicitud visible para el actor.
func (uc *MaterialRequestUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.MaterialRequestResponse, error) {
	req, err := uc.engine.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return uc.response(ctx, req)
}

// List lista solicitudes; un técnico solo ve las suyas.
func (uc *MaterialRequestUseCase) List(ctx context.Context, actor entity.Actor, in dto.MaterialRequestListRequest) (*dto.MaterialRequestListResponse, error) {
	in.DefaultPage()
	list, err := uc.engine.List(ctx, repository.MaterialRequestFilter{
		TicketID:    in.TicketID,
		Status:      in.Status,
		RequestedBy: in.RequestedBy,
		PresetID:    in.PresetID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}, actor)
	if err != nil {
		return nil, err
	}
	items, err := uc.itemIndex(ctx, list...)
	if err != nil {
		return nil, err
	}
	out := &dto.MaterialRequestListResponse{
		Items: make([]dto.MaterialRequestResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, r := range list {
		out.Items = append(out.Items, toMaterialRequestResponse(r, items))
	}
	return out, nil
}

// Approve aprueba la solicitud descontando el stock de locationID.
func (uc *MaterialRequestUseCase) Approve(ctx context.Context, actor entity.Actor, id, locationID string, in dto.ApproveMaterialRequestRequest) (*dto.ApproveMaterialRequestResponse, error) {
	lines := make([]approval.LineQuantity, 0, len(in.Items))
	for _, l := range in.Items {
		lines = append(lines, approval.LineQuantity{ItemID: l.ItemID, Quantity: l.QuantityApproved})
	}
	res, err := uc.engine.Approve(ctx, approval.ApproveInput{
		RequestID:             id,
		Items:                 lines,
		FulfillmentLocationID: locationID,
		Notes:                 in.Notes,
		Actor:                 actor,
	})
	if err != nil {
		return nil, err
	}
	req, err := uc.response(ctx, res.Request)
	if err != nil {
		return nil, err
	}
	return &dto.ApproveMaterialRequestResponse{Request: *req, Movements: toMovementResponses(res.Movements)}, nil
}

// Reject rechaza una solicitud PENDING con motivo.
func (uc *MaterialRequestUseCase) Reject(ctx context.Context, actor entity.Actor, id string, in dto.RejectMaterialRequestRequest) (*dto.MaterialRequestResponse, error) {
	req, err := uc.engine.Reject(ctx, approval.RejectInput{RequestID: id, Reason: in.Reason, Actor: actor})
	if err != nil {
		return nil, err
	}
	return uc.response(ctx, req)
}

// Cancel cancela una solicitud PENDING.
func (uc *MaterialRequestUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.MaterialRequestResponse, error) {
	req, err := uc.engine.Cancel(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return uc.response(ctx, req)
}

// Deliver registra la entrega de una solicitud APPROVED.
func (uc *MaterialRequestUseCase) Deliver(ctx context.Context, actor entity.Actor, id string, in dto.DeliverMaterialRequestRequest) (*dto.MaterialRequestResponse, error) {
	lines := make([]approval.LineQuantity, 0, len(in.Items))
	for _, l := range in.Items {
		lines = append(lines, approval.LineQuantity{ItemID: l.ItemID, Quantity: l.QuantityDelivered})
	}
	req, err := uc.engine.Deliver(ctx, approval.DeliverInput{RequestID: id, Items: lines, Actor: actor})
	if err != nil {
		return nil, err
	}
	return uc.response(ctx, req)
}

func (uc *MaterialRequestUseCase) response(ctx context.Context, req *entity.MaterialRequest) (*dto.MaterialRequestResponse, error) {
	items, err := uc.itemIndex(ctx, req)
	if err != nil {
		return nil, err
	}
	out := toMaterialRequestResponse(req, items)
	return &out, nil
}

func (uc *MaterialRequestUseCase) itemIndex(ctx context.Context, reqs ...*entity.MaterialRequest) (map[string]*entity.Item, error) {
	idx := make(map[string]*entity.Item)
	for _, r := range reqs {
		for _, l := range r.Items {
			if _, ok := idx[l.ItemID]; ok {
				continue
			}
			item, err := uc.items.GetByID(ctx, l.ItemID)
			if err != nil {
				return nil, err
			}
			idx[l.ItemID] = item
		}
	}
	return idx, nil
}
