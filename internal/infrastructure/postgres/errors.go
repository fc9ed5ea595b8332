package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeLockNotAvailable    = "55P03" // lock_timeout
	codeDeadlockDetected    = "40P01"
	codeSerialization       = "40001"
)

// mapError envuelve err con op y lo traduce a un error de dominio cuando el código lo permite.
// Los conflictos de bloqueo quedan como domain.ErrConcurrencyConflict (reintentables).
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrDuplicate)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.NewValidationError("", "el registro está referenciado o referencia datos inexistentes ("+pgErr.ConstraintName+")"))
		case codeCheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrIntegrity)
		case codeLockNotAvailable, codeDeadlockDetected, codeSerialization:
			return fmt.Errorf("%s: %w", op, domain.ErrConcurrencyConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
