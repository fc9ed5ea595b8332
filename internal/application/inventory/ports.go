package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger: o se confirma todo lo escrito en fn o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
	// ReadOnly entrega una instantánea consistente (total del item y balances leídos juntos).
	ReadOnly(ctx context.Context, fn func(tx repository.Tx) error) error
}

// Locker exclusión mutua por clave (par item/ubicación, solicitud).
// Acquire ordena y deduplica las claves antes de bloquear, de modo que dos llamadores con
// conjuntos solapados nunca se bloquean en orden inverso. Si no obtiene todas las claves
// dentro del tiempo configurado devuelve domain.ErrConcurrencyConflict sin retener ninguna.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// Metrics instrumentación del ledger. Las implementaciones no deben bloquear.
type Metrics interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	ObserveLockWait(elapsed time.Duration)
}

// NopMetrics no registra nada.
type NopMetrics struct{}

func (NopMetrics) ObserveOperation(string, string, time.Duration) {}
func (NopMetrics) ObserveLockWait(time.Duration)                  {}

// Resultados de operación para métricas.
const (
	OutcomeOK                = "ok"
	OutcomeValidation        = "validation"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeInvalidState      = "invalid_state"
	OutcomeConflict          = "conflict"
	OutcomeError             = "error"
)

// Outcome clasifica un error de operación.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNoItemsApproved):
		return OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return OutcomeInvalidState
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return OutcomeConflict
	}
	return OutcomeError
}
