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

var _ repository.TicketRepository = (*TicketRepo)(nil)

const ticketColumns = `id, title, description, priority, status, location, scheduled_at, requested_by,
	assigned_to, created_at, updated_at`

// TicketRepo implementación de TicketRepository sobre PostgreSQL.
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador.
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, title, description, priority, status, location, scheduled_at,
			requested_by, assigned_to, search_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Priority, t.Status, t.Location, t.ScheduledAt,
		t.RequestedBy, t.AssignedTo, search.Document(t.Title, t.Location), t.CreatedAt, t.UpdatedAt,
	)
	return mapError("create ticket", err)
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get ticket", err)
	}
	return t, nil
}

func (r *TicketRepo) Update(ctx context.Context, t *entity.Ticket) error {
	query := `
		UPDATE tickets SET title = $2, description = $3, priority = $4, status = $5, location = $6,
			scheduled_at = $7, assigned_to = $8, search_text = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Priority, t.Status, t.Location, t.ScheduledAt,
		t.AssignedTo, search.Document(t.Title, t.Location), t.UpdatedAt,
	)
	if err != nil {
		return mapError("update ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]*entity.Ticket, error) {
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
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Priority != "" {
		add("priority = $%d", f.Priority)
	}
	if f.RequestedBy != "" {
		add("requested_by = $%d", f.RequestedBy)
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`
	query, args = withPage(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list tickets", err)
	}
	defer rows.Close()
	var list []*entity.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, mapError("scan ticket", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.Location, &t.ScheduledAt,
		&t.RequestedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
