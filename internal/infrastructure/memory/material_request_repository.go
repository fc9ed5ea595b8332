package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)

// MaterialRequestRepo implementación en memoria de MaterialRequestRepository.
type MaterialRequestRepo struct {
	s  *Store
	tx *state
}

func (r *MaterialRequestRepo) Create(_ context.Context, req *entity.MaterialRequest) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.requests[req.ID]; ok {
			return domain.ErrDuplicate
		}
		st.requestSeq++
		req.Folio = fmt.Sprintf("MR-%06d", st.requestSeq)
		for i := range req.Items {
			if req.Items[i].ID == "" {
				req.Items[i].ID = uuid.New().String()
			}
			req.Items[i].RequestID = req.ID
		}
		st.requests[req.ID] = copyRequest(req)
		return nil
	})
}

func (r *MaterialRequestRepo) GetByID(_ context.Context, id string) (*entity.MaterialRequest, error) {
	var out *entity.MaterialRequest
	err := r.s.view(r.tx, func(st *state) error {
		if req, ok := st.requests[id]; ok {
			cp := copyRequest(&req)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRequestRepo) Update(_ context.Context, req *entity.MaterialRequest) error {
	return r.s.update(r.tx, func(st *state) error {
		cur, ok := st.requests[req.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := copyRequest(req)
		next.Folio = cur.Folio
		next.CreatedAt = cur.CreatedAt
		st.requests[req.ID] = next
		return nil
	})
}

func (r *MaterialRequestRepo) List(_ context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, error) {
	list := []*entity.MaterialRequest{}
	err := r.s.view(r.tx, func(st *state) error {
		for _, req := range st.requests {
			if f.TicketID != "" && req.TicketID != f.TicketID {
				continue
			}
			if f.Status != "" && req.Status != f.Status {
				continue
			}
			if f.RequestedBy != "" && req.RequestedBy != f.RequestedBy {
				continue
			}
			if f.PresetID != "" && req.PresetID != f.PresetID {
				continue
			}
			if f.From != nil && req.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && req.CreatedAt.After(*f.To) {
				continue
			}
			cp := copyRequest(&req)
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Folio > list[j].Folio
	})
	return page(list, f.Limit, f.Offset), err
}

func copyRequest(req *entity.MaterialRequest) entity.MaterialRequest {
	cp := *req
	cp.Items = append([]entity.MaterialRequestItem(nil), req.Items...)
	if req.ApprovedAt != nil {
		t := *req.ApprovedAt
		cp.ApprovedAt = &t
	}
	if req.DeliveredAt != nil {
		t := *req.DeliveredAt
		cp.DeliveredAt = &t
	}
	return cp
}
