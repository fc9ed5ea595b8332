package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/search"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, description, serial, category, process, status, active,
	observations, qr_code, total_inventory, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Acepta pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, code, description, serial, category, process, status, active,
			observations, qr_code, total_inventory, search_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Description, item.Serial, item.Category, item.Process, item.Status, item.Active,
		item.Observations, item.QRCode, item.TotalInventory, itemSearchText(item), item.CreatedAt, item.UpdatedAt,
	)
	return mapError("create item", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getBy(ctx, "id", id)
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getBy(ctx, "code", code)
}

// GetForUpdate bloquea la fila del item hasta el fin de la tx. Es el mismo bloqueo que toma
// AddInventory, adelantado para que el estado leído siga vigente al escribir.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR NO KEY UPDATE`
	item, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get item for update", err)
	}
	return item, nil
}

func (r *ItemRepo) GetByQRCode(ctx context.Context, qrCode string) (*entity.Item, error) {
	return r.getBy(ctx, "qr_code", qrCode)
}

func (r *ItemRepo) getBy(ctx context.Context, column, value string) (*entity.Item, error) {
	if column == "id" && !validID(value) {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE ` + column + ` = $1`
	item, err := scanItem(r.q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get item", err)
	}
	return item, nil
}

// Update no toca total_inventory: el agregado solo se mueve con AddInventory.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET code = $2, description = $3, serial = $4, category = $5, process = $6,
			status = $7, active = $8, observations = $9, qr_code = $10, search_text = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Description, item.Serial, item.Category, item.Process,
		item.Status, item.Active, item.Observations, item.QRCode, itemSearchText(item), item.UpdatedAt,
	)
	if err != nil {
		return mapError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ItemRepo) AddInventory(ctx context.Context, itemID string, delta decimal.Decimal) error {
	if !validID(itemID) {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET total_inventory = total_inventory + $2, updated_at = now() WHERE id = $1`,
		itemID, delta)
	if err != nil {
		return mapError("add item inventory", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
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
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Active != nil {
		add("active = $%d", *f.Active)
	}
	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY code`
	query, args = withPage(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, mapError("scan item", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return mapError("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Code, &it.Description, &it.Serial, &it.Category, &it.Process, &it.Status, &it.Active,
		&it.Observations, &it.QRCode, &it.TotalInventory, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func itemSearchText(it *entity.Item) string {
	return search.Document(it.Code, it.Description, it.Serial)
}

// validID indica si id puede existir en una columna UUID. Un id mal formado se trata como
// inexistente en lugar de fallar con 22P02.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// withPage agrega LIMIT/OFFSET si limit > 0.
func withPage(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		return query, args
	}
	args = append(args, limit, offset)
	return query + fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}
