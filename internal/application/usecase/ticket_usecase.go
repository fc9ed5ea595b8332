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

// TicketUseCase órdenes de trabajo de las que salen las solicitudes de material.
type TicketUseCase struct {
	repo repository.TicketRepository
}

// NewTicketUseCase construye el caso de uso.
func NewTicketUseCase(repo repository.TicketRepository) *TicketUseCase {
	return &TicketUseCase{repo: repo}
}

// Create abre un ticket en OPEN a nombre de actor. Sin prioridad se asume MEDIUM.
func (uc *TicketUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "es obligatorio")
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.TicketPriorityMedium
	}
	if !entity.ValidTicketPriority(priority) {
		return nil, domain.NewValidationError("priority", "prioridad desconocida")
	}
	now := time.Now().UTC()
	t := &entity.Ticket{
		ID:          uuid.New().String(),
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		Status:      entity.TicketStatusOpen,
		Location:    strings.TrimSpace(in.Location),
		RequestedBy: actor.UserID,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.ScheduledAt != nil {
		at := in.ScheduledAt.UTC()
		t.ScheduledAt = &at
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTicketResponse(t), nil
}

// GetByID obtiene un ticket.
func (uc *TicketUseCase) GetByID(ctx context.Context, id string) (*dto.TicketResponse, error) {
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTicketResponse(t), nil
}

// UpdateStatus mueve el ticket de estado. DONE y CANCELED no admiten más cambios.
func (uc *TicketUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateTicketStatusRequest) (*dto.TicketResponse, error) {
	if !entity.ValidTicketStatus(in.Status) {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == in.Status {
		return toTicketResponse(t), nil
	}
	if !entity.CanTransitionTicket(t.Status, in.Status) {
		return nil, &domain.InvalidStateTransitionError{Entity: "ticket", From: t.Status, To: in.Status}
	}
	t.Status = in.Status
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return toTicketResponse(t), nil
}

// List lista tickets, los más recientes primero.
func (uc *TicketUseCase) List(ctx context.Context, in dto.TicketListRequest) (*dto.TicketListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.TicketFilter{
		Search:      in.Search,
		Status:      in.Status,
		Priority:    in.Priority,
		RequestedBy: in.RequestedBy,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TicketResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTicketResponse(t))
	}
	return &dto.TicketListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func (uc *TicketUseCase) get(ctx context.Context, id string) (*entity.Ticket, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("ticket %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}
