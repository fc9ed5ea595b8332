package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de material.
const (
	RequestStatusPending   = "PENDING"
	RequestStatusApproved  = "APPROVED"
	RequestStatusRejected  = "REJECTED"
	RequestStatusDelivered = "DELIVERED"
	RequestStatusPartial   = "PARTIAL"
	RequestStatusCancelled = "CANCELLED"
)

// requestTransitions transiciones permitidas; los estados sin entrada son terminales.
var requestTransitions = map[string][]string{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled},
	RequestStatusApproved: {RequestStatusDelivered, RequestStatusPartial},
}

// CanTransition indica si una solicitud puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range requestTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus indica si el estado no admite más transiciones.
func IsTerminalStatus(s string) bool {
	return len(requestTransitions[s]) == 0
}

// ValidRequestStatus indica si s es un estado conocido.
func ValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusDelivered, RequestStatusPartial, RequestStatusCancelled:
		return true
	}
	return false
}

// MaterialRequest solicitud de material asociada a un ticket de mantenimiento.
// PresetID registra la procedencia (plantilla de la que se expandió), si la hay.
type MaterialRequest struct {
	ID                    string
	Folio                 string
	TicketID              string
	RequestedBy           string
	Status                string
	Notes                 string
	RejectionReason       string
	PresetID              string
	ModifiedFromPreset    bool
	FulfillmentLocationID string
	ApprovedBy            string
	ApprovedAt            *time.Time
	ApprovalNotes         string
	DeliveredBy           string
	DeliveredAt           *time.Time
	Items                 []MaterialRequestItem
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// MaterialRequestItem línea de una solicitud.
// QuantityApproved y QuantityDelivered solo los escribe el motor de aprobación:
// QuantityApproved <= QuantityRequested y QuantityDelivered <= QuantityApproved.
type MaterialRequestItem struct {
	ID                string
	RequestID         string
	ItemID            string
	QuantityRequested decimal.Decimal
	QuantityApproved  decimal.Decimal
	QuantityDelivered decimal.Decimal
	QuantityReturned  decimal.Decimal
	Notes             string
}
