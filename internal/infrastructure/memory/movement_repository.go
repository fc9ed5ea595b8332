package memory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo append-only en memoria. El orden de inserción desempata movimientos con
// el mismo CreatedAt.
type MovementRepo struct {
	s  *Store
	tx *state
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.s.update(r.tx, func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.Movement, error) {
	return r.reverse(func(m *entity.Movement) bool { return m.ItemID == itemID }, limit, offset)
}

func (r *MovementRepo) ListByLocation(_ context.Context, locationID string, limit, offset int) ([]*entity.Movement, error) {
	return r.reverse(func(m *entity.Movement) bool { return m.LocationID == locationID }, limit, offset)
}

func (r *MovementRepo) ListByCorrelation(_ context.Context, correlationID string) ([]*entity.Movement, error) {
	var list []*entity.Movement
	err := r.s.view(r.tx, func(st *state) error {
		for i := range st.movements {
			if st.movements[i].CorrelationID == correlationID {
				cp := st.movements[i]
				list = append(list, &cp)
			}
		}
		return nil
	})
	return list, err
}

func (r *MovementRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	n := 0
	err := r.s.view(r.tx, func(st *state) error {
		for i := range st.movements {
			if st.movements[i].ItemID == itemID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *MovementRepo) reverse(match func(*entity.Movement) bool, limit, offset int) ([]*entity.Movement, error) {
	list := []*entity.Movement{}
	err := r.s.view(r.tx, func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if match(&st.movements[i]) {
				cp := st.movements[i]
				list = append(list, &cp)
			}
		}
		return nil
	})
	return page(list, limit, offset), err
}
