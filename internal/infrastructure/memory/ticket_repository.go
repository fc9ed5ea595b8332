package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/search"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo implementación en memoria de TicketRepository.
type TicketRepo struct {
	s *Store
}

func (r *TicketRepo) Create(_ context.Context, t *entity.Ticket) error {
	return r.s.update(nil, func(st *state) error {
		if _, ok := st.tickets[t.ID]; ok {
			return domain.ErrDuplicate
		}
		st.tickets[t.ID] = *t
		return nil
	})
}

func (r *TicketRepo) GetByID(_ context.Context, id string) (*entity.Ticket, error) {
	var out *entity.Ticket
	err := r.s.view(nil, func(st *state) error {
		if t, ok := st.tickets[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *TicketRepo) Update(_ context.Context, t *entity.Ticket) error {
	return r.s.update(nil, func(st *state) error {
		cur, ok := st.tickets[t.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := *t
		next.CreatedAt = cur.CreatedAt
		st.tickets[t.ID] = next
		return nil
	})
}

func (r *TicketRepo) List(_ context.Context, f repository.TicketFilter) ([]*entity.Ticket, error) {
	var list []*entity.Ticket
	err := r.s.view(nil, func(st *state) error {
		for _, t := range st.tickets {
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.Priority != "" && t.Priority != f.Priority {
				continue
			}
			if f.RequestedBy != "" && t.RequestedBy != f.RequestedBy {
				continue
			}
			if !search.Contains(f.Search, t.Title, t.Location) {
				continue
			}
			cp := t
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, f.Limit, f.Offset), err
}
