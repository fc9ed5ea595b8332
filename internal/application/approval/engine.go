// Package approval implementa el ciclo de vida de las solicitudes de material:
// creación (con procedencia de preset), aprobación con descuento de stock, rechazo,
// cancelación y registro de entrega.
package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Engine motor de aprobación/entrega. Es el único que escribe QuantityApproved y
// QuantityDelivered, y el único que genera salidas (OUT) a partir de solicitudes.
type Engine struct {
	recorder  *inventory.MovementRecorder
	txRunner  inventory.TxRunner
	requests  repository.MaterialRequestRepository
	items     repository.ItemRepository
	locations repository.LocationRepository
	presets   repository.PresetRepository
	tickets   repository.TicketRepository
	metrics   inventory.Metrics
	log       *logger.Logger
}

// NewEngine construye el motor. metrics y log pueden ser nil.
func NewEngine(
	recorder *inventory.MovementRecorder,
	txRunner inventory.TxRunner,
	requests repository.MaterialRequestRepository,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	presets repository.PresetRepository,
	tickets repository.TicketRepository,
	metrics inventory.Metrics,
	log *logger.Logger,
) *Engine {
	if metrics == nil {
		metrics = inventory.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		recorder:  recorder,
		txRunner:  txRunner,
		requests:  requests,
		items:     items,
		locations: locations,
		presets:   presets,
		tickets:   tickets,
		metrics:   metrics,
		log:       log.Component("approval"),
	}
}

// LineQuantity cantidad por item (aprobada o entregada).
type LineQuantity struct {
	ItemID   string
	Quantity decimal.Decimal
}

// ApproveInput entrada de Approve. Las líneas no mencionadas quedan aprobadas en 0.
type ApproveInput struct {
	RequestID             string
	Items                 []LineQuantity
	FulfillmentLocationID string
	Notes                 string
	Actor                 entity.Actor
}

// ApproveResult solicitud aprobada y las salidas generadas (comparten CorrelationID).
type ApproveResult struct {
	Request   *entity.MaterialRequest
	Movements []*entity.Movement
}

// Approve valida todas las líneas contra el stock de la ubicación y, solo si todas alcanzan,
// registra una salida por línea aprobada y pasa la solicitud a APPROVED. Los pares afectados
// y la solicitud quedan bloqueados desde la validación hasta el commit.
func (e *Engine) Approve(ctx context.Context, in ApproveInput) (*ApproveResult, error) {
	start := time.Now()
	res, err := e.approve(ctx, in)
	e.observe("approve", in.RequestID, start, err)
	return res, err
}

func (e *Engine) approve(ctx context.Context, in ApproveInput) (*ApproveResult, error) {
	if in.RequestID == "" {
		return nil, domain.NewValidationError("request_id", "es obligatorio")
	}
	if in.FulfillmentLocationID == "" {
		return nil, domain.NewValidationError("location_id", "es obligatorio")
	}
	loc, err := e.locations.GetByID(ctx, in.FulfillmentLocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", in.FulfillmentLocationID, domain.ErrNotFound)
	}

	req, err := e.requests.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("solicitud %s: %w", in.RequestID, domain.ErrNotFound)
	}
	if req.Status != entity.RequestStatusPending {
		return nil, transitionError(req.Status, entity.RequestStatusApproved)
	}
	approved, err := approvedByItem(req, in.Items)
	if err != nil {
		return nil, err
	}

	pairs := make([]domaininv.Pair, 0, len(approved))
	for itemID := range approved {
		pairs = append(pairs, domaininv.Pair{ItemID: itemID, LocationID: in.FulfillmentLocationID})
	}

	var res *ApproveResult
	err = e.recorder.Exclusive(ctx, pairs, []string{requestKey(in.RequestID)}, func(tx repository.Tx) error {
		locked, err := tx.Requests.GetForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("solicitud %s: %w", in.RequestID, domain.ErrNotFound)
		}
		if locked.Status != entity.RequestStatusPending {
			return transitionError(locked.Status, entity.RequestStatusApproved)
		}

		// Validación completa antes de cualquier salida, en el orden de las líneas.
		for _, line := range locked.Items {
			q, ok := approved[line.ItemID]
			if !ok {
				continue
			}
			bal, err := tx.Balances.GetForUpdate(ctx, line.ItemID, in.FulfillmentLocationID)
			if err != nil {
				return err
			}
			if bal.Quantity.LessThan(q) {
				return &domain.InsufficientStockError{
					ItemID:     line.ItemID,
					LocationID: in.FulfillmentLocationID,
					Available:  bal.Quantity,
					Requested:  q,
				}
			}
		}

		now := e.recorder.Now()
		correlationID := uuid.New().String()
		movements := make([]*entity.Movement, 0, len(pairs))
		for _, p := range domaininv.SortPairs(pairs) {
			mov, err := e.recorder.RecordOutInTx(ctx, tx, inventory.MovementInput{
				ItemID:     p.ItemID,
				LocationID: p.LocationID,
				Quantity:   approved[p.ItemID],
				Actor:      in.Actor.UserID,
				Comment:    "Aprobación " + locked.Folio,
				Reference:  locked.Folio,
			}, correlationID, now)
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}

		for i := range locked.Items {
			locked.Items[i].QuantityApproved = approved[locked.Items[i].ItemID]
		}
		locked.Status = entity.RequestStatusApproved
		locked.FulfillmentLocationID = in.FulfillmentLocationID
		locked.ApprovedBy = in.Actor.UserID
		locked.ApprovedAt = &now
		locked.ApprovalNotes = strings.TrimSpace(in.Notes)
		locked.UpdatedAt = now
		if err := tx.Requests.Update(ctx, locked); err != nil {
			return err
		}
		res = &ApproveResult{Request: locked, Movements: movements}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// approvedByItem valida las cantidades aprobadas contra las solicitadas (0 <= aprobada <= solicitada)
// y devuelve solo las líneas con cantidad > 0.
func approvedByItem(req *entity.MaterialRequest, lines []LineQuantity) (map[string]decimal.Decimal, error) {
	requested := make(map[string]decimal.Decimal, len(req.Items))
	for _, it := range req.Items {
		requested[it.ItemID] = it.QuantityRequested
	}
	out := make(map[string]decimal.Decimal, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		limit, ok := requested[l.ItemID]
		if !ok {
			return nil, domain.NewValidationError("items", fmt.Sprintf("el item %s no pertenece a la solicitud", l.ItemID))
		}
		if _, dup := seen[l.ItemID]; dup {
			return nil, domain.NewValidationError("items", fmt.Sprintf("el item %s está repetido", l.ItemID))
		}
		seen[l.ItemID] = struct{}{}
		if l.Quantity.IsNegative() {
			return nil, domain.NewValidationError("quantity_approved", "no puede ser negativa")
		}
		if err := domaininv.CheckScale("quantity_approved", l.Quantity); err != nil {
			return nil, err
		}
		if l.Quantity.GreaterThan(limit) {
			return nil, domain.NewValidationError("quantity_approved",
				fmt.Sprintf("item %s: aprobada %s supera la solicitada %s", l.ItemID, l.Quantity.String(), limit.String()))
		}
		if l.Quantity.IsPositive() {
			out[l.ItemID] = l.Quantity
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrNoItemsApproved
	}
	return out, nil
}

// RejectInput entrada de Reject.
type RejectInput struct {
	RequestID string
	Reason    string
	Actor     entity.Actor
}

// Reject pasa una solicitud PENDING a REJECTED. Exige motivo; no toca el ledger.
func (e *Engine) Reject(ctx context.Context, in RejectInput) (*entity.MaterialRequest, error) {
	start := time.Now()
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		err := domain.NewValidationError("reason", "el motivo de rechazo es obligatorio")
		e.observe("reject", in.RequestID, start, err)
		return nil, err
	}
	req, err := e.transition(ctx, in.RequestID, entity.RequestStatusRejected, func(req *entity.MaterialRequest) error {
		req.RejectionReason = reason
		return nil
	})
	e.observe("reject", in.RequestID, start, err)
	return req, err
}

// Cancel pasa una solicitud PENDING a CANCELLED. Un técnico solo cancela las suyas.
func (e *Engine) Cancel(ctx context.Context, requestID string, actor entity.Actor) (*entity.MaterialRequest, error) {
	start := time.Now()
	req, err := e.transition(ctx, requestID, entity.RequestStatusCancelled, func(req *entity.MaterialRequest) error {
		if actor.Role == entity.RoleTecnico && req.RequestedBy != actor.UserID {
			return domain.ErrForbidden
		}
		return nil
	})
	e.observe("cancel", requestID, start, err)
	return req, err
}

// DeliverInput entrada de Deliver. Las líneas no mencionadas se consideran entregadas en 0.
type DeliverInput struct {
	RequestID string
	Items     []LineQuantity
	Actor     entity.Actor
}

// Deliver registra lo entregado de una solicitud APPROVED: DELIVERED si cada línea se entregó
// completa, PARTIAL si no. El stock ya salió en la aprobación: no toca el ledger.
func (e *Engine) Deliver(ctx context.Context, in DeliverInput) (*entity.MaterialRequest, error) {
	start := time.Now()
	req, err := e.deliver(ctx, in)
	e.observe("deliver", in.RequestID, start, err)
	return req, err
}

func (e *Engine) deliver(ctx context.Context, in DeliverInput) (*entity.MaterialRequest, error) {
	delivered := make(map[string]decimal.Decimal, len(in.Items))
	for _, l := range in.Items {
		if _, dup := delivered[l.ItemID]; dup {
			return nil, domain.NewValidationError("items", fmt.Sprintf("el item %s está repetido", l.ItemID))
		}
		if l.Quantity.IsNegative() {
			return nil, domain.NewValidationError("quantity_delivered", "no puede ser negativa")
		}
		if err := domaininv.CheckScale("quantity_delivered", l.Quantity); err != nil {
			return nil, err
		}
		delivered[l.ItemID] = l.Quantity
	}

	return e.mutate(ctx, in.RequestID, func(req *entity.MaterialRequest, now time.Time) error {
		if req.Status != entity.RequestStatusApproved {
			return transitionError(req.Status, entity.RequestStatusDelivered)
		}
		known := make(map[string]struct{}, len(req.Items))
		complete := true
		for i := range req.Items {
			line := &req.Items[i]
			known[line.ItemID] = struct{}{}
			q := delivered[line.ItemID]
			if q.GreaterThan(line.QuantityApproved) {
				return domain.NewValidationError("quantity_delivered",
					fmt.Sprintf("item %s: entregada %s supera la aprobada %s", line.ItemID, q.String(), line.QuantityApproved.String()))
			}
			line.QuantityDelivered = q
			if !q.Equal(line.QuantityApproved) {
				complete = false
			}
		}
		for itemID := range delivered {
			if _, ok := known[itemID]; !ok {
				return domain.NewValidationError("items", fmt.Sprintf("el item %s no pertenece a la solicitud", itemID))
			}
		}
		req.Status = entity.RequestStatusPartial
		if complete {
			req.Status = entity.RequestStatusDelivered
		}
		req.DeliveredBy = in.Actor.UserID
		req.DeliveredAt = &now
		return nil
	})
}

// transition aplica un cambio de estado simple validado por la máquina de estados.
func (e *Engine) transition(
	ctx context.Context,
	requestID, to string,
	apply func(req *entity.MaterialRequest) error,
) (*entity.MaterialRequest, error) {
	return e.mutate(ctx, requestID, func(req *entity.MaterialRequest, _ time.Time) error {
		if !entity.CanTransition(req.Status, to) {
			return transitionError(req.Status, to)
		}
		if err := apply(req); err != nil {
			return err
		}
		req.Status = to
		return nil
	})
}

// mutate bloquea la solicitud, aplica fn y persiste en una transacción.
func (e *Engine) mutate(
	ctx context.Context,
	requestID string,
	fn func(req *entity.MaterialRequest, now time.Time) error,
) (*entity.MaterialRequest, error) {
	if requestID == "" {
		return nil, domain.NewValidationError("request_id", "es obligatorio")
	}
	var out *entity.MaterialRequest
	err := e.recorder.Exclusive(ctx, nil, []string{requestKey(requestID)}, func(tx repository.Tx) error {
		req, err := tx.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("solicitud %s: %w", requestID, domain.ErrNotFound)
		}
		now := e.recorder.Now()
		if err := fn(req, now); err != nil {
			return err
		}
		req.UpdatedAt = now
		if err := tx.Requests.Update(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) observe(op, requestID string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := inventory.Outcome(err)
	e.metrics.ObserveOperation(op, outcome, elapsed)
	switch outcome {
	case inventory.OutcomeOK:
		e.log.Info().Str("op", op).Str("request_id", requestID).Dur("elapsed", elapsed).Msg("solicitud actualizada")
	case inventory.OutcomeConflict:
		e.log.Warn().Str("op", op).Str("request_id", requestID).Err(err).Msg("conflicto de concurrencia")
	case inventory.OutcomeError:
		e.log.Error().Str("op", op).Str("request_id", requestID).Err(err).Msg("error en solicitud")
	}
}

func requestKey(id string) string { return "request:" + id }

func transitionError(from, to string) error {
	return &domain.InvalidStateTransitionError{Entity: "solicitud", From: from, To: to}
}
