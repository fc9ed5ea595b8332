package entity

import "time"

// Prioridades de ticket.
const (
	TicketPriorityLow    = "LOW"
	TicketPriorityMedium = "MEDIUM"
	TicketPriorityHigh   = "HIGH"
	TicketPriorityUrgent = "URGENT"
)

// Estados de ticket. DONE y CANCELED son terminales.
const (
	TicketStatusOpen       = "OPEN"
	TicketStatusInProgress = "IN_PROGRESS"
	TicketStatusDone       = "DONE"
	TicketStatusCanceled   = "CANCELED"
)

// Ticket orden de trabajo de mantenimiento. Las solicitudes de material se originan en un ticket.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Priority    string
	Status      string
	Location    string // texto libre: sitio donde se hace el trabajo, no una ubicación de inventario
	ScheduledAt *time.Time
	RequestedBy string
	AssignedTo  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AcceptsRequests indica si se le pueden crear solicitudes de material.
func (t *Ticket) AcceptsRequests() bool {
	return t.Status != TicketStatusDone && t.Status != TicketStatusCanceled
}

var ticketTransitions = map[string][]string{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusDone, TicketStatusCanceled},
	TicketStatusInProgress: {TicketStatusOpen, TicketStatusDone, TicketStatusCanceled},
}

// CanTransitionTicket indica si el ticket puede pasar de from a to.
func CanTransitionTicket(from, to string) bool {
	for _, s := range ticketTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidTicketPriority indica si p es una prioridad conocida.
func ValidTicketPriority(p string) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ValidTicketStatus indica si s es un estado de ticket conocido.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusDone, TicketStatusCanceled:
		return true
	}
	return false
}
