package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/lock"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

type fixture struct {
	store    *memory.Store
	ledger   *inventory.StockLedger
	recorder *inventory.MovementRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLocker(t, lock.NewKeyLocker(time.Second))
}

func newFixtureWithLocker(t *testing.T, locker inventory.Locker) *fixture {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	ledger := inventory.NewStockLedger(txRunner, store.Items(), store.Locations(), store.Balances())
	recorder := inventory.NewMovementRecorder(ledger, txRunner, locker, store.Movements(), nil, logger.Nop())
	return &fixture{store: store, ledger: ledger, recorder: recorder}
}

// signalLocker avisa por acquiring cada vez que alguien pide un lock, antes de esperarlo.
type signalLocker struct {
	inventory.Locker
	acquiring chan struct{}
}

func newSignalLocker() *signalLocker {
	return &signalLocker{Locker: lock.NewKeyLocker(5 * time.Second), acquiring: make(chan struct{}, 8)}
}

func (l *signalLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	l.acquiring <- struct{}{}
	return l.Locker.Acquire(ctx, keys...)
}

func (f *fixture) item(t *testing.T, id string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.store.Items().Create(context.Background(), &entity.Item{
		ID: id, Code: "C-" + id, Description: "item " + id, Status: entity.ItemStatusOperativo,
		Active: true, QRCode: "QR-" + id, TotalInventory: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) location(t *testing.T, id, status string) {
	t.Helper()
	require.NoError(t, f.store.Locations().Create(context.Background(), &entity.Location{
		ID: id, Code: "L-" + id, Name: "loc " + id, Type: entity.LocationTypeWarehouse, Status: status,
	}))
}

func (f *fixture) balance(t *testing.T, itemID, locationID string) decimal.Decimal {
	t.Helper()
	q, err := f.ledger.GetBalance(context.Background(), itemID, locationID)
	require.NoError(t, err)
	return q
}

func (f *fixture) assertConsistent(t *testing.T, itemID string) {
	t.Helper()
	require.NoError(t, f.ledger.Verify(context.Background(), itemID))
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func in(item, loc string, qty int64) inventory.MovementInput {
	return inventory.MovementInput{ItemID: item, LocationID: loc, Quantity: d(qty), Actor: "u-1"}
}
