package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/search"
	"github.com/shopspring/decimal"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s  *Store
	tx *state
}

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, it := range st.items {
			if it.Code == item.Code || (item.QRCode != "" && it.QRCode == item.QRCode) {
				return domain.ErrDuplicate
			}
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.find(func(it *entity.Item) bool { return it.ID == id })
}

func (r *ItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	return r.find(func(it *entity.Item) bool { return it.Code == code })
}

func (r *ItemRepo) GetByQRCode(_ context.Context, qrCode string) (*entity.Item, error) {
	return r.find(func(it *entity.Item) bool { return it.QRCode == qrCode })
}

// GetForUpdate lee el item y agenda para el commit la verificación de que Active no cambió.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil || item == nil {
		return item, err
	}
	active := item.Active
	r.s.guard(r.tx, func(st *state) error {
		if cur, ok := st.items[id]; !ok || cur.Active != active {
			return fmt.Errorf("item %s cambió durante la transacción: %w", id, domain.ErrConcurrencyConflict)
		}
		return nil
	})
	return item, nil
}

func (r *ItemRepo) find(match func(*entity.Item) bool) (*entity.Item, error) {
	var out *entity.Item
	err := r.s.view(r.tx, func(st *state) error {
		for _, it := range st.items {
			if match(&it) {
				cp := it
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.s.update(r.tx, func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, it := range st.items {
			if id != item.ID && (it.Code == item.Code || (item.QRCode != "" && it.QRCode == item.QRCode)) {
				return domain.ErrDuplicate
			}
		}
		next := *item
		next.TotalInventory = cur.TotalInventory
		next.CreatedAt = cur.CreatedAt
		st.items[item.ID] = next
		return nil
	})
}

func (r *ItemRepo) AddInventory(_ context.Context, itemID string, delta decimal.Decimal) error {
	return r.s.update(r.tx, func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
		}
		it.TotalInventory = it.TotalInventory.Add(delta)
		st.items[itemID] = it
		return nil
	})
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	var list []*entity.Item
	err := r.s.view(r.tx, func(st *state) error {
		for _, it := range st.items {
			if f.Category != "" && it.Category != f.Category {
				continue
			}
			if f.Status != "" && it.Status != f.Status {
				continue
			}
			if f.Active != nil && it.Active != *f.Active {
				continue
			}
			if !search.Contains(f.Search, it.Code, it.Description, it.Serial) {
				continue
			}
			cp := it
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, f.Limit, f.Offset), err
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}
