package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, correlation_id, type, direction, item_id, location_id,
	COALESCE(counterpart_location_id::text, ''), quantity, resulting_balance, actor, comment, reference, created_at`

// MovementRepo adaptador append-only de la tabla movements. El trigger de la tabla rechaza UPDATE y DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, correlation_id, type, direction, item_id, location_id, counterpart_location_id,
			quantity, resulting_balance, actor, comment, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CorrelationID, m.Type, m.Direction, m.ItemID, m.LocationID, m.CounterpartLocationID,
		m.Quantity, m.ResultingBalance, m.Actor, m.Comment, m.Reference, m.CreatedAt,
	)
	return mapError("create movement", err)
}

func (r *MovementRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Movement, error) {
	if !validID(itemID) {
		return []*entity.Movement{}, nil
	}
	query, args := withPage(`SELECT `+movementColumns+` FROM movements WHERE item_id = $1 ORDER BY seq DESC`,
		[]any{itemID}, limit, offset)
	return r.list(ctx, query, args...)
}

func (r *MovementRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Movement, error) {
	if !validID(locationID) {
		return []*entity.Movement{}, nil
	}
	query, args := withPage(`SELECT `+movementColumns+` FROM movements WHERE location_id = $1 ORDER BY seq DESC`,
		[]any{locationID}, limit, offset)
	return r.list(ctx, query, args...)
}

func (r *MovementRepo) ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.Movement, error) {
	if !validID(correlationID) {
		return []*entity.Movement{}, nil
	}
	return r.list(ctx, `SELECT `+movementColumns+` FROM movements WHERE correlation_id = $1 ORDER BY seq DESC`, correlationID)
}

func (r *MovementRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	if !validID(itemID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		return 0, mapError("count movements", err)
	}
	return n, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list movements", err)
	}
	defer rows.Close()
	list := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan movement", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.CorrelationID, &m.Type, &m.Direction, &m.ItemID, &m.LocationID,
		&m.CounterpartLocationID, &m.Quantity, &m.ResultingBalance, &m.Actor, &m.Comment, &m.Reference, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
