package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación en memoria de BalanceRepository.
type BalanceRepo struct {
	s  *Store
	tx *state
}

func (r *BalanceRepo) Get(_ context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	var out *entity.InventoryBalance
	err := r.s.view(r.tx, func(st *state) error {
		out = lookupBalance(st, itemID, locationID)
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a Get: la exclusión por par la da el Locker de la capa de aplicación.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	return r.Get(ctx, itemID, locationID)
}

func lookupBalance(st *state, itemID, locationID string) *entity.InventoryBalance {
	if b, ok := st.balances[domaininv.Pair{ItemID: itemID, LocationID: locationID}]; ok {
		return &b
	}
	return &entity.InventoryBalance{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}
}

func (r *BalanceRepo) Upsert(_ context.Context, b *entity.InventoryBalance) error {
	return r.s.update(r.tx, func(st *state) error {
		st.balances[domaininv.Pair{ItemID: b.ItemID, LocationID: b.LocationID}] = *b
		return nil
	})
}

func (r *BalanceRepo) ListByItem(ctx context.Context, itemID string) ([]entity.InventoryBalance, error) {
	return r.List(ctx, repository.BalanceFilter{ItemID: itemID, IncludeZero: true})
}

func (r *BalanceRepo) List(_ context.Context, f repository.BalanceFilter) ([]entity.InventoryBalance, error) {
	list := []entity.InventoryBalance{}
	err := r.s.view(r.tx, func(st *state) error {
		for p, b := range st.balances {
			if f.ItemID != "" && p.ItemID != f.ItemID {
				continue
			}
			if f.LocationID != "" && p.LocationID != f.LocationID {
				continue
			}
			if !f.IncludeZero && b.Quantity.IsZero() {
				continue
			}
			list = append(list, b)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].ItemID != list[j].ItemID {
			return list[i].ItemID < list[j].ItemID
		}
		return list[i].LocationID < list[j].LocationID
	})
	return list, err
}
