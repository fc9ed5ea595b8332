package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemFilter filtros para listar items.
type ItemFilter struct {
	Search   string // descripción, código o serie (sin distinguir acentos ni mayúsculas)
	Category string
	Status   string
	Active   *bool
	Limit    int
	Offset   int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los Get devuelven (nil, nil) si el registro no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	GetByQRCode(ctx context.Context, qrCode string) (*entity.Item, error)
	// GetForUpdate lee el item dentro de una tx de modo que su estado no cambie hasta el commit.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// Update no modifica TotalInventory: el agregado solo lo mueve AddInventory.
	Update(ctx context.Context, item *entity.Item) error
	// AddInventory suma delta al inventario total desnormalizado. Solo lo usa el ledger dentro de su transacción.
	AddInventory(ctx context.Context, itemID string, delta decimal.Decimal) error
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
}
