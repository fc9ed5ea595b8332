package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequestLine línea de una solicitud nueva.
type MaterialRequestLine struct {
	ItemID            string          `json:"item_id" validate:"required"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	Notes             string          `json:"notes" validate:"max=500"`
}

// PresetDraftLine línea de la expansión de un preset.
type PresetDraftLine struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

// CreateMaterialRequestRequest body para POST /api/material-requests.
type CreateMaterialRequestRequest struct {
	TicketID string                `json:"ticket_id" validate:"required,max=100"`
	Items    []MaterialRequestLine `json:"items" validate:"required,min=1,dive"`
	Notes    string                `json:"notes" validate:"max=1000"`
	PresetID string                `json:"preset_id"`
}

// ApprovedLine cantidad aprobada para un item de la solicitud.
type ApprovedLine struct {
	ItemID           string          `json:"item_id" validate:"required"`
	QuantityApproved decimal.Decimal `json:"quantity_approved"`
}

// ApproveMaterialRequestRequest body para POST /api/material-requests/:id/approve?location_id=.
type ApproveMaterialRequestRequest struct {
	Items []ApprovedLine `json:"items" validate:"required,min=1,dive"`
	Notes string         `json:"notes" validate:"max=1000"`
}

// RejectMaterialRequestRequest body para POST /api/material-requests/:id/reject.
type RejectMaterialRequestRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// DeliveredLine cantidad entregada de un item.
type DeliveredLine struct {
	ItemID            string          `json:"item_id" validate:"required"`
	QuantityDelivered decimal.Decimal `json:"quantity_delivered"`
}

// DeliverMaterialRequestRequest body para POST /api/material-requests/:id/deliver.
type DeliverMaterialRequestRequest struct {
	Items []DeliveredLine `json:"items" validate:"dive"`
}

// MaterialRequestListRequest filtros de listado (query).
type MaterialRequestListRequest struct {
	PageRequest
	TicketID    string `query:"ticket_id"`
	Status      string `query:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED DELIVERED PARTIAL CANCELLED"`
	RequestedBy string `query:"requested_by"`
	PresetID    string `query:"preset_id"`
}

// MaterialRequestItemResponse línea de una solicitud.
type MaterialRequestItemResponse struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	ItemCode          string          `json:"item_code,omitempty"`
	ItemDescription   string          `json:"item_description,omitempty"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityApproved  decimal.Decimal `json:"quantity_approved"`
	QuantityDelivered decimal.Decimal `json:"quantity_delivered"`
	QuantityReturned  decimal.Decimal `json:"quantity_returned"`
	Notes             string          `json:"notes,omitempty"`
}

// MaterialRequestResponse salida de una solicitud.
type MaterialRequestResponse struct {
	ID                    string                        `json:"id"`
	Folio                 string                        `json:"folio"`
	TicketID              string                        `json:"ticket_id"`
	RequestedBy           string                        `json:"requested_by"`
	Status                string                        `json:"status"`
	Notes                 string                        `json:"notes,omitempty"`
	RejectionReason       string                        `json:"rejection_reason,omitempty"`
	PresetID              string                        `json:"preset_id,omitempty"`
	ModifiedFromPreset    bool                          `json:"modified_from_preset"`
	FulfillmentLocationID string                        `json:"fulfillment_location_id,omitempty"`
	ApprovedBy            string                        `json:"approved_by,omitempty"`
	ApprovedAt            *time.Time                    `json:"approved_at,omitempty"`
	ApprovalNotes         string                        `json:"approval_notes,omitempty"`
	DeliveredBy           string                        `json:"delivered_by,omitempty"`
	DeliveredAt           *time.Time                    `json:"delivered_at,omitempty"`
	Items                 []MaterialRequestItemResponse `json:"items"`
	CreatedAt             time.Time                     `json:"created_at"`
	UpdatedAt             time.Time                     `json:"updated_at"`
}

// ApproveMaterialRequestResponse solicitud aprobada más las salidas generadas.
type ApproveMaterialRequestResponse struct {
	Request   MaterialRequestResponse `json:"request"`
	Movements []MovementResponse      `json:"movements"`
}

// MaterialRequestListResponse lista paginada de solicitudes.
type MaterialRequestListResponse struct {
	Items []MaterialRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
