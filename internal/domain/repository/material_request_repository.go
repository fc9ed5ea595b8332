package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MaterialRequestFilter filtros para listar solicitudes de material.
type MaterialRequestFilter struct {
	TicketID    string
	Status      string
	RequestedBy string
	PresetID    string
	From        *time.Time
	To          *time.Time
	Limit       int // 0 = sin límite
	Offset      int
}

// MaterialRequestRepository puerto de persistencia para solicitudes y sus líneas.
type MaterialRequestRepository interface {
	// Create asigna el folio consecutivo y persiste cabecera y líneas.
	Create(ctx context.Context, request *entity.MaterialRequest) error
	GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error)
	// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error)
	// Update persiste estado, datos de aprobación/entrega y cantidades de las líneas.
	Update(ctx context.Context, request *entity.MaterialRequest) error
	List(ctx context.Context, f MaterialRequestFilter) ([]*entity.MaterialRequest, error)
}
