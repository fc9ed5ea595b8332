package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/search"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación en memoria de LocationRepository.
type LocationRepo struct {
	s  *Store
	tx *state
}

func (r *LocationRepo) Create(_ context.Context, loc *entity.Location) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.locations[loc.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, l := range st.locations {
			if l.Code == loc.Code {
				return domain.ErrDuplicate
			}
		}
		st.locations[loc.ID] = *loc
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.s.view(r.tx, func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	var out *entity.Location
	err := r.s.view(r.tx, func(st *state) error {
		for _, l := range st.locations {
			if l.Code == code {
				cp := l
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForShare lee la ubicación y agenda para el commit la verificación de que su estado no cambió.
func (r *LocationRepo) GetForShare(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := r.GetByID(ctx, id)
	if err != nil || loc == nil {
		return loc, err
	}
	status := loc.Status
	r.s.guard(r.tx, func(st *state) error {
		if cur, ok := st.locations[id]; !ok || cur.Status != status {
			return fmt.Errorf("ubicación %s cambió durante la transacción: %w", id, domain.ErrConcurrencyConflict)
		}
		return nil
	})
	return loc, nil
}

func (r *LocationRepo) Update(_ context.Context, loc *entity.Location) error {
	return r.s.update(r.tx, func(st *state) error {
		cur, ok := st.locations[loc.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, l := range st.locations {
			if id != loc.ID && l.Code == loc.Code {
				return domain.ErrDuplicate
			}
		}
		next := *loc
		next.CreatedAt = cur.CreatedAt
		st.locations[loc.ID] = next
		return nil
	})
}

func (r *LocationRepo) List(_ context.Context, f repository.LocationFilter) ([]*entity.Location, error) {
	var list []*entity.Location
	err := r.s.view(r.tx, func(st *state) error {
		for _, l := range st.locations {
			if f.Type != "" && l.Type != f.Type {
				continue
			}
			if f.Status != "" && l.Status != f.Status {
				continue
			}
			if !search.Contains(f.Search, l.Code, l.Name) {
				continue
			}
			cp := l
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, f.Limit, f.Offset), err
}
