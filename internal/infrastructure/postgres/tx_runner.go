package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera por bloqueos de fila
// dentro de cada transacción (SET LOCAL lock_timeout); 0 = sin límite.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapError("set lock_timeout", err)
		}
	}
	if err := fn(txRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// ReadOnly ejecuta fn sobre una instantánea consistente (REPEATABLE READ, solo lectura).
// No toma bloqueos de fila: las lecturas no esperan a los escritores.
func (r *TxRunner) ReadOnly(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return mapError("begin read-only transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit read-only transaction", err)
	}
	return nil
}

func txRepos(q Querier) repository.Tx {
	return repository.Tx{
		Items:     NewItemRepository(q),
		Locations: NewLocationRepository(q),
		Balances:  NewBalanceRepository(q),
		Movements: NewMovementRepository(q),
		Requests:  NewMaterialRequestRepository(q),
	}
}
