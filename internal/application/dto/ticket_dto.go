package dto

import "time"

// CreateTicketRequest entrada para abrir un ticket. El solicitante es el usuario autenticado.
type CreateTicketRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Location    string     `json:"location" validate:"max=200"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	AssignedTo  string     `json:"assigned_to"`
}

// UpdateTicketStatusRequest cambio de estado de un ticket.
type UpdateTicketStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE CANCELED"`
}

// TicketListRequest filtros de listado (query).
type TicketListRequest struct {
	PageRequest
	Search      string `query:"search"`
	Status      string `query:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE CANCELED"`
	Priority    string `query:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	RequestedBy string `query:"requested_by"`
}

// TicketResponse salida de un ticket.
type TicketResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Location    string     `json:"location"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	RequestedBy string     `json:"requested_by"`
	AssignedTo  string     `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TicketListResponse lista paginada de tickets.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
