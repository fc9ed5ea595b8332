package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// TicketFilter filtros para listar tickets.
type TicketFilter struct {
	Search      string // título o sitio
	Status      string
	Priority    string
	RequestedBy string
	Limit       int
	Offset      int
}

// TicketRepository define el puerto de persistencia para Ticket.
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	Update(ctx context.Context, ticket *entity.Ticket) error
	List(ctx context.Context, f TicketFilter) ([]*entity.Ticket, error)
}
