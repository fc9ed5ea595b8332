package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// BalanceFilter filtros para listar balances.
type BalanceFilter struct {
	ItemID      string
	LocationID  string
	IncludeZero bool
}

// BalanceRepository puerto para leer/escribir balances por (item, ubicación).
// Get y GetForUpdate devuelven un balance en cero si el par aún no existe.
type BalanceRepository interface {
	Get(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error)
	// GetForUpdate bloquea el par hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error)
	Upsert(ctx context.Context, balance *entity.InventoryBalance) error
	ListByItem(ctx context.Context, itemID string) ([]entity.InventoryBalance, error)
	List(ctx context.Context, f BalanceFilter) ([]entity.InventoryBalance, error)
}
