package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)

const requestColumns = `id, folio, ticket_id, requested_by, status, notes, rejection_reason,
	COALESCE(preset_id::text, ''), modified_from_preset, COALESCE(fulfillment_location_id::text, ''),
	approved_by, approved_at, approval_notes, delivered_by, delivered_at, created_at, updated_at`

const requestItemColumns = `id, request_id, item_id, quantity_requested, quantity_approved,
	quantity_delivered, quantity_returned, notes`

// MaterialRequestRepo implementación de MaterialRequestRepository sobre PostgreSQL.
type MaterialRequestRepo struct {
	q Querier
}

// NewMaterialRequestRepository construye el adaptador.
func NewMaterialRequestRepository(q Querier) *MaterialRequestRepo {
	return &MaterialRequestRepo{q: q}
}

// Create toma el siguiente valor de material_request_folio_seq como folio e inserta cabecera y líneas.
func (r *MaterialRequestRepo) Create(ctx context.Context, req *entity.MaterialRequest) error {
	return atomic(ctx, r.q, func(q Querier) error {
		var seq int64
		if err := q.QueryRow(ctx, `SELECT nextval('material_request_folio_seq')`).Scan(&seq); err != nil {
			return mapError("next folio", err)
		}
		folio := fmt.Sprintf("MR-%06d", seq)
		_, err := q.Exec(ctx, `
			INSERT INTO material_requests (id, folio, ticket_id, requested_by, status, notes, rejection_reason,
				preset_id, modified_from_preset, fulfillment_location_id, approved_by, approved_at, approval_notes,
				delivered_by, delivered_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, $9, NULLIF($10, '')::uuid,
				$11, $12, $13, $14, $15, $16, $17)`,
			req.ID, folio, req.TicketID, req.RequestedBy, req.Status, req.Notes, req.RejectionReason,
			req.PresetID, req.ModifiedFromPreset, req.FulfillmentLocationID, req.ApprovedBy, req.ApprovedAt,
			req.ApprovalNotes, req.DeliveredBy, req.DeliveredAt, req.CreatedAt, req.UpdatedAt,
		)
		if err != nil {
			return mapError("create material request", err)
		}
		for i := range req.Items {
			line := &req.Items[i]
			if line.ID == "" {
				line.ID = uuid.New().String()
			}
			line.RequestID = req.ID
			_, err := q.Exec(ctx, `
				INSERT INTO material_request_items (id, request_id, position, item_id, quantity_requested,
					quantity_approved, quantity_delivered, quantity_returned, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				line.ID, line.RequestID, i, line.ItemID, line.QuantityRequested,
				line.QuantityApproved, line.QuantityDelivered, line.QuantityReturned, line.Notes,
			)
			if err != nil {
				return mapError("create material request item", err)
			}
		}
		req.Folio = folio
		return nil
	})
}

func (r *MaterialRequestRepo) GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM material_requests WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; las líneas solo se modifican a través de ella.
func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM material_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *MaterialRequestRepo) get(ctx context.Context, query, id string) (*entity.MaterialRequest, error) {
	if !validID(id) {
		return nil, nil
	}
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get material request", err)
	}
	if err := r.loadItems(ctx, []*entity.MaterialRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *MaterialRequestRepo) Update(ctx context.Context, req *entity.MaterialRequest) error {
	return atomic(ctx, r.q, func(q Querier) error {
		tag, err := q.Exec(ctx, `
			UPDATE material_requests SET status = $2, notes = $3, rejection_reason = $4,
				fulfillment_location_id = NULLIF($5, '')::uuid, approved_by = $6, approved_at = $7,
				approval_notes = $8, delivered_by = $9, delivered_at = $10, updated_at = $11
			WHERE id = $1`,
			req.ID, req.Status, req.Notes, req.RejectionReason, req.FulfillmentLocationID, req.ApprovedBy,
			req.ApprovedAt, req.ApprovalNotes, req.DeliveredBy, req.DeliveredAt, req.UpdatedAt,
		)
		if err != nil {
			return mapError("update material request", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("solicitud %s: %w", req.ID, domain.ErrNotFound)
		}
		for _, line := range req.Items {
			_, err := q.Exec(ctx, `
				UPDATE material_request_items SET quantity_approved = $2, quantity_delivered = $3,
					quantity_returned = $4
				WHERE id = $1`,
				line.ID, line.QuantityApproved, line.QuantityDelivered, line.QuantityReturned,
			)
			if err != nil {
				return mapError("update material request item", err)
			}
		}
		return nil
	})
}

func (r *MaterialRequestRepo) List(ctx context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.TicketID != "" {
		add("ticket_id = $%d", f.TicketID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.RequestedBy != "" {
		add("requested_by = $%d", f.RequestedBy)
	}
	if f.PresetID != "" {
		if !validID(f.PresetID) {
			return []*entity.MaterialRequest{}, nil
		}
		add("preset_id = $%d", f.PresetID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + requestColumns + ` FROM material_requests`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, folio DESC`
	query, args = withPage(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list material requests", err)
	}
	list := []*entity.MaterialRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, mapError("scan material request", err)
		}
		list = append(list, req)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError("list material requests", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga las líneas de todas las solicitudes en una sola consulta, en orden de captura.
func (r *MaterialRequestRepo) loadItems(ctx context.Context, reqs []*entity.MaterialRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]string, len(reqs))
	byID := make(map[string]*entity.MaterialRequest, len(reqs))
	for i, req := range reqs {
		ids[i] = req.ID
		byID[req.ID] = req
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+requestItemColumns+`
		FROM material_request_items WHERE request_id = ANY($1::uuid[])
		ORDER BY request_id, position`, ids)
	if err != nil {
		return mapError("list material request items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.MaterialRequestItem
		err := rows.Scan(&line.ID, &line.RequestID, &line.ItemID, &line.QuantityRequested,
			&line.QuantityApproved, &line.QuantityDelivered, &line.QuantityReturned, &line.Notes)
		if err != nil {
			return mapError("scan material request item", err)
		}
		if req := byID[line.RequestID]; req != nil {
			req.Items = append(req.Items, line)
		}
	}
	return rows.Err()
}

func scanRequest(row pgx.Row) (*entity.MaterialRequest, error) {
	var req entity.MaterialRequest
	err := row.Scan(&req.ID, &req.Folio, &req.TicketID, &req.RequestedBy, &req.Status, &req.Notes,
		&req.RejectionReason, &req.PresetID, &req.ModifiedFromPreset, &req.FulfillmentLocationID,
		&req.ApprovedBy, &req.ApprovedAt, &req.ApprovalNotes, &req.DeliveredBy, &req.DeliveredAt,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
