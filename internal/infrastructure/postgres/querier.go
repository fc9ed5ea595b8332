package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repos funcionan con cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// atomic ejecuta fn dentro de una transacción. Si q ya es una tx se usa tal cual;
// si es el pool se abre una nueva. Para escrituras de varias sentencias (cabecera + líneas).
func atomic(ctx context.Context, q Querier, fn func(Querier) error) error {
	if tx, ok := q.(pgx.Tx); ok {
		return fn(tx)
	}
	db, ok := q.(interface {
		Begin(ctx context.Context) (pgx.Tx, error)
	})
	if !ok {
		return fn(q)
	}
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error { return fn(tx) })
}
