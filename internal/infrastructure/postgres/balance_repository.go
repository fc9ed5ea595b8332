package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre la tabla inventory_balances.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Acepta pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get devuelve el balance del par o uno en cero si no existe la fila.
func (r *BalanceRepo) Get(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM inventory_balances WHERE item_id = $1 AND location_id = $2`
	return r.get(ctx, query, itemID, locationID)
}

// GetForUpdate crea la fila en cero si falta y la bloquea (SELECT ... FOR UPDATE) hasta el fin de la tx.
// Insertar primero garantiza que siempre haya una fila que bloquear, incluso para el primer movimiento.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_balances (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (item_id, location_id) DO NOTHING`, itemID, locationID)
	if err != nil {
		return nil, mapError("ensure balance row", err)
	}
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM inventory_balances WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	return r.get(ctx, query, itemID, locationID)
}

func (r *BalanceRepo) get(ctx context.Context, query, itemID, locationID string) (*entity.InventoryBalance, error) {
	var b entity.InventoryBalance
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryBalance{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, mapError("get balance", err)
	}
	return &b, nil
}

func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.InventoryBalance) error {
	query := `
		INSERT INTO inventory_balances (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, b.ItemID, b.LocationID, b.Quantity, b.UpdatedAt)
	return mapError("upsert balance", err)
}

func (r *BalanceRepo) ListByItem(ctx context.Context, itemID string) ([]entity.InventoryBalance, error) {
	return r.List(ctx, repository.BalanceFilter{ItemID: itemID, IncludeZero: true})
}

func (r *BalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]entity.InventoryBalance, error) {
	var (
		conds []string
		args  []any
	)
	if f.ItemID != "" {
		if !validID(f.ItemID) {
			return []entity.InventoryBalance{}, nil
		}
		args = append(args, f.ItemID)
		conds = append(conds, fmt.Sprintf("item_id = $%d", len(args)))
	}
	if f.LocationID != "" {
		if !validID(f.LocationID) {
			return []entity.InventoryBalance{}, nil
		}
		args = append(args, f.LocationID)
		conds = append(conds, fmt.Sprintf("location_id = $%d", len(args)))
	}
	if !f.IncludeZero {
		conds = append(conds, "quantity <> 0")
	}
	query := `SELECT item_id, location_id, quantity, updated_at FROM inventory_balances`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY item_id, location_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list balances", err)
	}
	defer rows.Close()
	list := []entity.InventoryBalance{}
	for rows.Next() {
		var b entity.InventoryBalance
		if err := rows.Scan(&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, mapError("scan balance", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
