package usecase

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:             it.ID,
		Code:           it.Code,
		Description:    it.Description,
		Serial:         it.Serial,
		Category:       it.Category,
		Process:        it.Process,
		Status:         it.Status,
		Active:         it.Active,
		Observations:   it.Observations,
		QRCode:         it.QRCode,
		TotalInventory: it.TotalInventory,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Name:      l.Name,
		Type:      l.Type,
		Status:    l.Status,
		Address:   l.Address,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ToMovementResponse convierte un movimiento del ledger al DTO de salida.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                    m.ID,
		CorrelationID:         m.CorrelationID,
		Type:                  m.Type,
		Direction:             m.Direction,
		ItemID:                m.ItemID,
		LocationID:            m.LocationID,
		CounterpartLocationID: m.CounterpartLocationID,
		Quantity:              m.Quantity,
		ResultingBalance:      m.ResultingBalance,
		Actor:                 m.Actor,
		Comment:               m.Comment,
		Reference:             m.Reference,
		CreatedAt:             m.CreatedAt,
	}
}

func toMovementResponses(list []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

func toBalanceResponse(b entity.InventoryBalance, loc *entity.Location) dto.BalanceResponse {
	r := dto.BalanceResponse{
		ItemID:     b.ItemID,
		LocationID: b.LocationID,
		Quantity:   b.Quantity,
		UpdatedAt:  b.UpdatedAt,
	}
	if loc != nil {
		r.LocationCode = loc.Code
		r.LocationName = loc.Name
	}
	return r
}

func toItemBalancesResponse(v *inventory.ItemBalances, locations map[string]*entity.Location) dto.ItemBalancesResponse {
	out := dto.ItemBalancesResponse{
		ItemID:         v.Item.ID,
		ItemCode:       v.Item.Code,
		Description:    v.Item.Description,
		TotalInventory: v.Item.TotalInventory,
		Balances:       make([]dto.BalanceResponse, 0, len(v.Balances)),
		Consistent:     v.Consistent,
	}
	for _, b := range v.Balances {
		out.Balances = append(out.Balances, toBalanceResponse(b, locations[b.LocationID]))
	}
	return out
}

func toMaterialRequestResponse(r *entity.MaterialRequest, items map[string]*entity.Item) dto.MaterialRequestResponse {
	out := dto.MaterialRequestResponse{
		ID:                    r.ID,
		Folio:                 r.Folio,
		TicketID:              r.TicketID,
		RequestedBy:           r.RequestedBy,
		Status:                r.Status,
		Notes:                 r.Notes,
		RejectionReason:       r.RejectionReason,
		PresetID:              r.PresetID,
		ModifiedFromPreset:    r.ModifiedFromPreset,
		FulfillmentLocationID: r.FulfillmentLocationID,
		ApprovedBy:            r.ApprovedBy,
		ApprovedAt:            r.ApprovedAt,
		ApprovalNotes:         r.ApprovalNotes,
		DeliveredBy:           r.DeliveredBy,
		DeliveredAt:           r.DeliveredAt,
		Items:                 make([]dto.MaterialRequestItemResponse, 0, len(r.Items)),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	for _, l := range r.Items {
		line := dto.MaterialRequestItemResponse{
			ID:                l.ID,
			ItemID:            l.ItemID,
			QuantityRequested: l.QuantityRequested,
			QuantityApproved:  l.QuantityApproved,
			QuantityDelivered: l.QuantityDelivered,
			QuantityReturned:  l.QuantityReturned,
			Notes:             l.Notes,
		}
		if it := items[l.ItemID]; it != nil {
			line.ItemCode = it.Code
			line.ItemDescription = it.Description
		}
		out.Items = append(out.Items, line)
	}
	return out
}

func toTicketResponse(t *entity.Ticket) *dto.TicketResponse {
	return &dto.TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Location:    t.Location,
		ScheduledAt: t.ScheduledAt,
		RequestedBy: t.RequestedBy,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
