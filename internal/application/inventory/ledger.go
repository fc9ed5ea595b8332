package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockLedger mantiene los balances por (item, ubicación) y el agregado del item.
// Es el único que escribe InventoryBalance y TotalInventory, siempre dentro de la
// transacción del llamador para que ambos se confirmen juntos.
type StockLedger struct {
	txRunner  TxRunner
	items     repository.ItemRepository
	locations repository.LocationRepository
	balances  repository.BalanceRepository
}

// NewStockLedger construye el ledger.
func NewStockLedger(
	txRunner TxRunner,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	balances repository.BalanceRepository,
) *StockLedger {
	return &StockLedger{
		txRunner:  txRunner,
		items:     items,
		locations: locations,
		balances:  balances,
	}
}

// ItemBalances vista de un item con sus balances por ubicación.
// Consistent es false si el agregado del item no coincide con la suma (falla de integridad).
type ItemBalances struct {
	Item       *entity.Item
	Balances   []entity.InventoryBalance
	Total      decimal.Decimal
	Consistent bool
}

// GetBalance devuelve la cantidad del item en la ubicación (0 si el par nunca tuvo movimientos).
func (l *StockLedger) GetBalance(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	if itemID == "" {
		return decimal.Zero, domain.NewValidationError("item_id", "es obligatorio")
	}
	if locationID == "" {
		return decimal.Zero, domain.NewValidationError("location_id", "es obligatorio")
	}
	item, err := l.items.GetByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	loc, err := l.locations.GetByID(ctx, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	if loc == nil {
		return decimal.Zero, fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
	}
	bal, err := l.balances.Get(ctx, itemID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return bal.Quantity, nil
}

// ItemBalances lee el item y sus balances en una misma instantánea.
func (l *StockLedger) ItemBalances(ctx context.Context, itemID string) (*ItemBalances, error) {
	var out *ItemBalances
	err := l.txRunner.ReadOnly(ctx, func(tx repository.Tx) error {
		item, err := tx.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
		}
		balances, err := tx.Balances.ListByItem(ctx, itemID)
		if err != nil {
			return err
		}
		total := inventory.Sum(balances)
		out = &ItemBalances{
			Item:       item,
			Balances:   balances,
			Total:      total,
			Consistent: inventory.Reconcile(item.TotalInventory, balances) == nil,
		}
		return nil
	})
	return out, err
}

// List lista balances con filtros (por defecto omite los pares en cero).
func (l *StockLedger) List(ctx context.Context, f repository.BalanceFilter) ([]entity.InventoryBalance, error) {
	return l.balances.List(ctx, f)
}

// Verify comprueba totalInventory(item) == Σ balances sobre una instantánea consistente.
// Devuelve domain.ErrIntegrity si difieren o si algún balance es negativo.
func (l *StockLedger) Verify(ctx context.Context, itemID string) error {
	view, err := l.ItemBalances(ctx, itemID)
	if err != nil {
		return err
	}
	if err := inventory.Reconcile(view.Item.TotalInventory, view.Balances); err != nil {
		return fmt.Errorf("item %s: total %s, suma %s: %w",
			itemID, view.Item.TotalInventory.String(), view.Total.String(), err)
	}
	return nil
}

// adjustBalance suma delta al par dentro de tx. Falla con InsufficientStockError si el
// balance quedaría negativo. Con touchTotal=false no toca el agregado del item (piernas
// de un traslado, cuyo efecto neto sobre el total es 0).
func (l *StockLedger) adjustBalance(
	ctx context.Context,
	tx repository.Tx,
	p inventory.Pair,
	delta decimal.Decimal,
	now time.Time,
	touchTotal bool,
) (*entity.InventoryBalance, error) {
	bal, err := tx.Balances.GetForUpdate(ctx, p.ItemID, p.LocationID)
	if err != nil {
		return nil, err
	}
	next, err := inventory.ApplyDelta(p, bal.Quantity, delta)
	if err != nil {
		return nil, err
	}
	return l.write(ctx, tx, bal, next, delta, now, touchTotal)
}

// setBalance fija el valor absoluto del par (ajuste). Devuelve el balance y el delta aplicado.
func (l *StockLedger) setBalance(
	ctx context.Context,
	tx repository.Tx,
	p inventory.Pair,
	target decimal.Decimal,
	now time.Time,
) (*entity.InventoryBalance, decimal.Decimal, error) {
	bal, err := tx.Balances.GetForUpdate(ctx, p.ItemID, p.LocationID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	delta, err := inventory.AdjustTo(bal.Quantity, target)
	if err != nil {
		return nil, decimal.Zero, err
	}
	bal, err = l.write(ctx, tx, bal, target, delta, now, true)
	return bal, delta, err
}

func (l *StockLedger) write(
	ctx context.Context,
	tx repository.Tx,
	bal *entity.InventoryBalance,
	next, delta decimal.Decimal,
	now time.Time,
	touchTotal bool,
) (*entity.InventoryBalance, error) {
	bal.Quantity = next
	bal.UpdatedAt = now
	if err := tx.Balances.Upsert(ctx, bal); err != nil {
		return nil, err
	}
	if touchTotal && !delta.IsZero() {
		if err := tx.Items.AddInventory(ctx, bal.ItemID, delta); err != nil {
			return nil, err
		}
	}
	return bal, nil
}
