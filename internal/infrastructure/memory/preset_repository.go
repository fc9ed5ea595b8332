package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PresetRepository = (*PresetRepo)(nil)

// PresetRepo implementación en memoria de PresetRepository. El nombre es único sin distinguir mayúsculas.
type PresetRepo struct {
	s *Store
}

func (r *PresetRepo) Create(_ context.Context, p *entity.Preset) error {
	return r.s.update(nil, func(st *state) error {
		if _, ok := st.presets[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, cur := range st.presets {
			if strings.EqualFold(cur.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		st.presets[p.ID] = copyPreset(p)
		return nil
	})
}

func (r *PresetRepo) GetByID(_ context.Context, id string) (*entity.Preset, error) {
	var out *entity.Preset
	err := r.s.view(nil, func(st *state) error {
		if p, ok := st.presets[id]; ok {
			cp := copyPreset(&p)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *PresetRepo) GetByName(_ context.Context, name string) (*entity.Preset, error) {
	var out *entity.Preset
	err := r.s.view(nil, func(st *state) error {
		for _, p := range st.presets {
			if strings.EqualFold(p.Name, name) {
				cp := copyPreset(&p)
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *PresetRepo) Update(_ context.Context, p *entity.Preset) error {
	return r.s.update(nil, func(st *state) error {
		cur, ok := st.presets[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, other := range st.presets {
			if id != p.ID && strings.EqualFold(other.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		next := copyPreset(p)
		next.CreatedAt = cur.CreatedAt
		st.presets[p.ID] = next
		return nil
	})
}

func (r *PresetRepo) List(_ context.Context, includeInactive bool) ([]*entity.Preset, error) {
	list := []*entity.Preset{}
	err := r.s.view(nil, func(st *state) error {
		for _, p := range st.presets {
			if !includeInactive && !p.Active {
				continue
			}
			cp := copyPreset(&p)
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, err
}

func copyPreset(p *entity.Preset) entity.Preset {
	cp := *p
	cp.Items = append([]entity.PresetItem(nil), p.Items...)
	return cp
}
