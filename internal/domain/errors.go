package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrValidation             = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrConcurrencyConflict    = errors.New("conflicto de concurrencia, reintente la operación")
	ErrNoItemsApproved        = errors.New("debe aprobar al menos un item con cantidad mayor a 0")
	ErrIntegrity              = errors.New("inconsistencia entre inventario total y balances por ubicación")
)

// ValidationError describe una entrada malformada o faltante. Nunca se reintenta.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientStockError indica qué item y ubicación no alcanzan para la operación,
// para que el llamador ajuste la cantidad o elija otra ubicación.
type InsufficientStockError struct {
	ItemID     string
	LocationID string
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para item %s en ubicación %s: disponible %s, solicitado %s",
		e.ItemID, e.LocationID, e.Available.String(), e.Requested.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidStateTransitionError se devuelve al operar sobre una entidad que no está en un estado elegible.
type InvalidStateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s: no se puede pasar de %s a %s", e.Entity, e.From, e.To)
}

// Is permite errors.Is(err, ErrInvalidStateTransition).
func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}
