package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// MovementRecorder registra movimientos de inventario (IN, OUT, ADJUST, TRANSFER).
// Cada operación bloquea sus pares (item, ubicación) en orden fijo, abre una transacción,
// aplica el cambio en el ledger y agrega un registro de auditoría por pierna.
type MovementRecorder struct {
	ledger    *StockLedger
	txRunner  TxRunner
	locker    Locker
	movements repository.MovementRepository
	metrics   Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementRecorder construye el registrador. metrics y log pueden ser nil.
func NewMovementRecorder(
	ledger *StockLedger,
	txRunner TxRunner,
	locker Locker,
	movements repository.MovementRepository,
	metrics Metrics,
	log *logger.Logger,
) *MovementRecorder {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MovementRecorder{
		ledger:    ledger,
		txRunner:  txRunner,
		locker:    locker,
		movements: movements,
		metrics:   metrics,
		log:       log.Component("movement_recorder"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// MovementInput entrada para IN, OUT y ADJUST. En ADJUST Quantity es el valor absoluto final.
type MovementInput struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	Actor      string
	Comment    string
	Reference  string
}

// TransferInput entrada para un traslado entre ubicaciones.
type TransferInput struct {
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	Actor          string
	Comment        string
}

// TransferResult las dos piernas de un traslado (comparten CorrelationID).
type TransferResult struct {
	Out *entity.Movement
	In  *entity.Movement
}

// RecordIn registra una entrada. qty > 0; la ubicación debe estar activa.
func (r *MovementRecorder) RecordIn(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	start := time.Now()
	mov, err := r.recordIn(ctx, in)
	r.observe("record_in", start, err)
	return mov, err
}

func (r *MovementRecorder) recordIn(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	if _, err := r.requireItem(ctx, in.ItemID, true); err != nil {
		return nil, err
	}
	if _, err := r.requireLocation(ctx, in.LocationID, "location_id", true); err != nil {
		return nil, err
	}
	p := inventory.Pair{ItemID: in.ItemID, LocationID: in.LocationID}
	var mov *entity.Movement
	err := r.Exclusive(ctx, []inventory.Pair{p}, nil, func(tx repository.Tx) error {
		if err := requireActiveInTx(ctx, tx, in.ItemID, in.LocationID, "location_id"); err != nil {
			return err
		}
		now := r.now()
		bal, err := r.ledger.adjustBalance(ctx, tx, p, in.Quantity, now, true)
		if err != nil {
			return err
		}
		mov = newMovement(entity.MovementTypeIN, entity.DirectionIN, in, in.Quantity, bal.Quantity, now)
		return tx.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordOut registra una salida. Falla con InsufficientStockError si balance < qty.
func (r *MovementRecorder) RecordOut(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	start := time.Now()
	mov, err := r.recordOut(ctx, in)
	r.observe("record_out", start, err)
	return mov, err
}

func (r *MovementRecorder) recordOut(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	if _, err := r.requireItem(ctx, in.ItemID, false); err != nil {
		return nil, err
	}
	if _, err := r.requireLocation(ctx, in.LocationID, "location_id", false); err != nil {
		return nil, err
	}
	p := inventory.Pair{ItemID: in.ItemID, LocationID: in.LocationID}
	var mov *entity.Movement
	err := r.Exclusive(ctx, []inventory.Pair{p}, nil, func(tx repository.Tx) error {
		var err error
		mov, err = r.RecordOutInTx(ctx, tx, in, "", r.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordOutInTx ejecuta una salida usando la transacción del llamador, que ya debe tener
// bloqueado el par (ver Exclusive). correlationID vacío genera uno propio.
func (r *MovementRecorder) RecordOutInTx(
	ctx context.Context,
	tx repository.Tx,
	in MovementInput,
	correlationID string,
	now time.Time,
) (*entity.Movement, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	p := inventory.Pair{ItemID: in.ItemID, LocationID: in.LocationID}
	bal, err := r.ledger.adjustBalance(ctx, tx, p, in.Quantity.Neg(), now, true)
	if err != nil {
		return nil, err
	}
	mov := newMovement(entity.MovementTypeOUT, entity.DirectionOUT, in, in.Quantity.Neg(), bal.Quantity, now)
	if correlationID != "" {
		mov.CorrelationID = correlationID
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordAdjust fija el balance del par en in.Quantity (>= 0). El movimiento guarda el delta
// con signo (nuevo - anterior) y el valor nuevo como balance resultante. Un ajuste al mismo
// valor se registra igual, con delta 0.
func (r *MovementRecorder) RecordAdjust(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	start := time.Now()
	mov, err := r.recordAdjust(ctx, in)
	r.observe("record_adjust", start, err)
	return mov, err
}

func (r *MovementRecorder) recordAdjust(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if in.Quantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "el valor ajustado no puede ser negativo")
	}
	if err := inventory.CheckScale("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if _, err := r.requireItem(ctx, in.ItemID, false); err != nil {
		return nil, err
	}
	if _, err := r.requireLocation(ctx, in.LocationID, "location_id", false); err != nil {
		return nil, err
	}
	p := inventory.Pair{ItemID: in.ItemID, LocationID: in.LocationID}
	var mov *entity.Movement
	err := r.Exclusive(ctx, []inventory.Pair{p}, nil, func(tx repository.Tx) error {
		now := r.now()
		bal, delta, err := r.ledger.setBalance(ctx, tx, p, in.Quantity, now)
		if err != nil {
			return err
		}
		mov = newMovement(entity.MovementTypeADJUST, directionOf(delta), in, delta, bal.Quantity, now)
		return tx.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordTransfer mueve qty del origen al destino como una sola unidad: o se ven las dos
// piernas o ninguna. El destino debe estar activo; el origen puede estar inactivo.
func (r *MovementRecorder) RecordTransfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	start := time.Now()
	res, err := r.recordTransfer(ctx, in)
	r.observe("record_transfer", start, err)
	return res, err
}

func (r *MovementRecorder) recordTransfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	if in.FromLocationID != "" && in.FromLocationID == in.ToLocationID {
		return nil, domain.NewValidationError("to_location_id", "la ubicación destino debe ser distinta del origen")
	}
	if _, err := r.requireItem(ctx, in.ItemID, true); err != nil {
		return nil, err
	}
	if _, err := r.requireLocation(ctx, in.FromLocationID, "from_location_id", false); err != nil {
		return nil, err
	}
	if _, err := r.requireLocation(ctx, in.ToLocationID, "to_location_id", true); err != nil {
		return nil, err
	}

	from := inventory.Pair{ItemID: in.ItemID, LocationID: in.FromLocationID}
	to := inventory.Pair{ItemID: in.ItemID, LocationID: in.ToLocationID}
	var res *TransferResult
	err := r.Exclusive(ctx, []inventory.Pair{from, to}, nil, func(tx repository.Tx) error {
		if err := requireActiveInTx(ctx, tx, in.ItemID, in.ToLocationID, "to_location_id"); err != nil {
			return err
		}
		now := r.now()
		outBal, err := r.ledger.adjustBalance(ctx, tx, from, in.Quantity.Neg(), now, false)
		if err != nil {
			return err
		}
		inBal, err := r.ledger.adjustBalance(ctx, tx, to, in.Quantity, now, false)
		if err != nil {
			return err
		}
		correlationID := uuid.New().String()
		base := MovementInput{ItemID: in.ItemID, Actor: in.Actor, Comment: in.Comment}

		base.LocationID = in.FromLocationID
		out := newMovement(entity.MovementTypeTRANSFER, entity.DirectionOUT, base, in.Quantity.Neg(), outBal.Quantity, now)
		out.CorrelationID = correlationID
		out.CounterpartLocationID = in.ToLocationID

		base.LocationID = in.ToLocationID
		inMov := newMovement(entity.MovementTypeTRANSFER, entity.DirectionIN, base, in.Quantity, inBal.Quantity, now)
		inMov.CorrelationID = correlationID
		inMov.CounterpartLocationID = in.FromLocationID

		if err := tx.Movements.Create(ctx, out); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, inMov); err != nil {
			return err
		}
		res = &TransferResult{Out: out, In: inMov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Exclusive adquiere los bloqueos de los pares (más extraKeys) y ejecuta fn en una transacción.
// Dentro de la tx las filas se bloquean en el mismo orden total (item, ubicación) antes de fn,
// de modo que ninguna combinación de operaciones puede bloquearse en orden inverso.
func (r *MovementRecorder) Exclusive(
	ctx context.Context,
	pairs []inventory.Pair,
	extraKeys []string,
	fn func(tx repository.Tx) error,
) error {
	sorted := inventory.SortPairs(pairs)
	keys := append(inventory.Keys(sorted), extraKeys...)

	waitStart := time.Now()
	release, err := r.locker.Acquire(ctx, keys...)
	r.metrics.ObserveLockWait(time.Since(waitStart))
	if err != nil {
		return err
	}
	defer release()

	return r.txRunner.Run(ctx, func(tx repository.Tx) error {
		for _, p := range sorted {
			if _, err := tx.Balances.GetForUpdate(ctx, p.ItemID, p.LocationID); err != nil {
				return err
			}
		}
		return fn(tx)
	})
}

// Now reloj del registrador (UTC).
func (r *MovementRecorder) Now() time.Time { return r.now() }

func (r *MovementRecorder) observe(op string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := Outcome(err)
	r.metrics.ObserveOperation(op, outcome, elapsed)
	switch outcome {
	case OutcomeOK:
		r.log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("movimiento registrado")
	case OutcomeConflict:
		r.log.Warn().Str("op", op).Err(err).Msg("conflicto de concurrencia")
	case OutcomeError:
		r.log.Error().Str("op", op).Err(err).Msg("error registrando movimiento")
	}
}

func (r *MovementRecorder) requireItem(ctx context.Context, itemID string, mustBeActive bool) (*entity.Item, error) {
	if itemID == "" {
		return nil, domain.NewValidationError("item_id", "es obligatorio")
	}
	item, err := r.ledger.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if mustBeActive && !item.Active {
		return nil, domain.NewValidationError("item_id", "el item está inactivo")
	}
	return item, nil
}

func (r *MovementRecorder) requireLocation(ctx context.Context, locationID, field string, mustBeActive bool) (*entity.Location, error) {
	if locationID == "" {
		return nil, domain.NewValidationError(field, "es obligatorio")
	}
	loc, err := r.ledger.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
	}
	if mustBeActive && !loc.IsActive() {
		return nil, domain.NewValidationError(field, "la ubicación está inactiva")
	}
	return loc, nil
}

// requireActiveInTx repite, ya con los pares bloqueados, la validación de que el item y la
// ubicación que recibe stock siguen activos. La lectura deja ambos fijos hasta el commit.
func requireActiveInTx(ctx context.Context, tx repository.Tx, itemID, locationID, field string) error {
	item, err := tx.Items.GetForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if !item.Active {
		return domain.NewValidationError("item_id", "el item está inactivo")
	}
	loc, err := tx.Locations.GetForShare(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
	}
	if !loc.IsActive() {
		return domain.NewValidationError(field, "la ubicación está inactiva")
	}
	return nil
}

func requirePositive(q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.NewValidationError("quantity", "la cantidad debe ser mayor a 0")
	}
	return inventory.CheckScale("quantity", q)
}

func directionOf(delta decimal.Decimal) string {
	if delta.IsNegative() {
		return entity.DirectionOUT
	}
	return entity.DirectionIN
}

func newMovement(movType, direction string, in MovementInput, qty, resulting decimal.Decimal, now time.Time) *entity.Movement {
	id := uuid.New().String()
	return &entity.Movement{
		ID:               id,
		CorrelationID:    id,
		Type:             movType,
		Direction:        direction,
		ItemID:           in.ItemID,
		LocationID:       in.LocationID,
		Quantity:         qty,
		ResultingBalance: resulting,
		Actor:            in.Actor,
		Comment:          in.Comment,
		Reference:        in.Reference,
		CreatedAt:        now,
	}
}

// IsRetryable indica si el error es transitorio (conflicto de concurrencia).
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrConcurrencyConflict)
}
