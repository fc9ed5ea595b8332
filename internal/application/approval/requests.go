package approval

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	tmpl "github.com/jhoicas/almacen-api/internal/domain/preset"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CreateLine línea de una solicitud nueva.
type CreateLine struct {
	ItemID   string
	Quantity decimal.Decimal
	Notes    string
}

// CreateInput entrada de Create. Con PresetID las líneas se comparan contra la expansión
// vigente del preset para marcar ModifiedFromPreset.
type CreateInput struct {
	TicketID string
	Items    []CreateLine
	Notes    string
	PresetID string
	Actor    entity.Actor
}

// Create registra una solicitud PENDING con folio consecutivo. Las líneas se copian por valor:
// editar el preset después no altera la solicitud.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*entity.MaterialRequest, error) {
	ticketID := strings.TrimSpace(in.TicketID)
	if ticketID == "" {
		return nil, domain.NewValidationError("ticket_id", "es obligatorio")
	}
	ticket, err := e.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, domain.ErrNotFound)
	}
	if !ticket.AcceptsRequests() {
		return nil, domain.NewValidationError("ticket_id", fmt.Sprintf("el ticket está cerrado (%s)", ticket.Status))
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la solicitud debe tener al menos un item")
	}
	seen := make(map[string]struct{}, len(in.Items))
	draft := make([]tmpl.Line, 0, len(in.Items))
	for _, l := range in.Items {
		if l.ItemID == "" {
			return nil, domain.NewValidationError("item_id", "es obligatorio")
		}
		if _, dup := seen[l.ItemID]; dup {
			return nil, domain.NewValidationError("items", fmt.Sprintf("el item %s está repetido", l.ItemID))
		}
		seen[l.ItemID] = struct{}{}
		if !l.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity_requested", "la cantidad debe ser mayor a 0")
		}
		if err := domaininv.CheckScale("quantity_requested", l.Quantity); err != nil {
			return nil, err
		}
		item, err := e.items.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("item %s: %w", l.ItemID, domain.ErrNotFound)
		}
		if !item.Active {
			return nil, domain.NewValidationError("item_id", fmt.Sprintf("el item %s está inactivo", item.Code))
		}
		draft = append(draft, tmpl.Line{ItemID: l.ItemID, Quantity: l.Quantity, Notes: l.Notes})
	}

	modified := false
	if in.PresetID != "" {
		p, err := e.presets.GetByID(ctx, in.PresetID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("preset %s: %w", in.PresetID, domain.ErrNotFound)
		}
		if !p.Active {
			return nil, domain.NewValidationError("preset_id", "el preset está inactivo")
		}
		modified = tmpl.Modified(draft, tmpl.Expand(p))
	}

	now := e.recorder.Now()
	req := &entity.MaterialRequest{
		ID:                 uuid.New().String(),
		TicketID:           ticketID,
		RequestedBy:        in.Actor.UserID,
		Status:             entity.RequestStatusPending,
		Notes:              strings.TrimSpace(in.Notes),
		PresetID:           in.PresetID,
		ModifiedFromPreset: modified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, l := range draft {
		req.Items = append(req.Items, entity.MaterialRequestItem{
			ItemID:            l.ItemID,
			QuantityRequested: l.Quantity,
			QuantityApproved:  decimal.Zero,
			QuantityDelivered: decimal.Zero,
			QuantityReturned:  decimal.Zero,
			Notes:             l.Notes,
		})
	}
	err = e.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("request_id", req.ID).Str("folio", req.Folio).Str("ticket_id", req.TicketID).
		Bool("modified_from_preset", modified).Msg("solicitud creada")
	return req, nil
}

// Get obtiene una solicitud. Un técnico solo ve las suyas.
func (e *Engine) Get(ctx context.Context, id string, actor entity.Actor) (*entity.MaterialRequest, error) {
	req, err := e.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("solicitud %s: %w", id, domain.ErrNotFound)
	}
	if actor.Role == entity.RoleTecnico && req.RequestedBy != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

// List lista solicitudes (más recientes primero). Un técnico solo ve las suyas.
func (e *Engine) List(ctx context.Context, f repository.MaterialRequestFilter, actor entity.Actor) ([]*entity.MaterialRequest, error) {
	if f.Status != "" && !entity.ValidRequestStatus(f.Status) {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	if actor.Role == entity.RoleTecnico {
		f.RequestedBy = actor.UserID
	}
	return e.requests.List(ctx, f)
}
