package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/search"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id, code, name, type, status, address, notes, created_at, updated_at`

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, code, name, type, status, address, notes, search_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Code, l.Name, l.Type, l.Status, l.Address, l.Notes, search.Document(l.Code, l.Name),
		l.CreatedAt, l.UpdatedAt,
	)
	return mapError("create location", err)
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getBy(ctx, "id", id, "")
}

func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.getBy(ctx, "code", code, "")
}

// GetForShare lee la ubicación con FOR SHARE: un cambio de estado concurrente espera al fin de la tx.
func (r *LocationRepo) GetForShare(ctx context.Context, id string) (*entity.Location, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getBy(ctx, "id", id, "FOR SHARE")
}

func (r *LocationRepo) getBy(ctx context.Context, column, value, lockClause string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE ` + column + ` = $1 ` + lockClause
	l, err := scanLocation(r.q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get location", err)
	}
	return l, nil
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `
		UPDATE locations SET code = $2, name = $3, type = $4, status = $5, address = $6, notes = $7,
			search_text = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.Code, l.Name, l.Type, l.Status, l.Address, l.Notes, search.Document(l.Code, l.Name), l.UpdatedAt,
	)
	if err != nil {
		return mapError("update location", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ubicación %s: %w", l.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *LocationRepo) List(ctx context.Context, f repository.LocationFilter) ([]*entity.Location, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if s := search.Normalize(f.Search); s != "" {
		add("search_text LIKE '%%' || $%d || '%%'", s)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	query := `SELECT ` + locationColumns + ` FROM locations`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY name`
	query, args = withPage(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list locations", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, mapError("scan location", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.Code, &l.Name, &l.Type, &l.Status, &l.Address, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
