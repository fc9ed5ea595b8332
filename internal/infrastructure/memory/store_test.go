package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seed(t *testing.T) (*memory.Store, *memory.TxRunner) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Items().Create(ctx, &entity.Item{ID: "I1", Code: "I1", Active: true, QRCode: "QR-I1", TotalInventory: decimal.Zero}))
	for _, id := range []string{"A", "B"} {
		require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: id, Code: id, Status: entity.LocationStatusActive}))
	}
	return store, memory.NewTxRunner(store)
}

func put(ctx context.Context, tx repository.Tx, loc string, qty int64) error {
	if err := tx.Balances.Upsert(ctx, &entity.InventoryBalance{ItemID: "I1", LocationID: loc, Quantity: d(qty)}); err != nil {
		return err
	}
	return tx.Items.AddInventory(ctx, "I1", d(qty))
}

func total(t *testing.T, store *memory.Store) decimal.Decimal {
	t.Helper()
	it, err := store.Items().GetByID(context.Background(), "I1")
	require.NoError(t, err)
	return it.TotalInventory
}

func TestTxRunner_TxLentaNoBloqueaOtroPar(t *testing.T) {
	store, runner := seed(t)
	ctx := context.Background()
	inside := make(chan struct{})
	release := make(chan struct{})
	slow := make(chan error, 1)

	go func() {
		slow <- runner.Run(ctx, func(tx repository.Tx) error {
			if err := put(ctx, tx, "A", 5); err != nil {
				return err
			}
			close(inside)
			<-release
			return nil
		})
	}()
	<-inside

	fast := make(chan error, 1)
	go func() {
		fast <- runner.Run(ctx, func(tx repository.Tx) error { return put(ctx, tx, "B", 3) })
	}()
	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("la tx sobre B esperó a la tx abierta sobre A")
	}
	assert.True(t, d(3).Equal(total(t, store)), "lo no confirmado de A no es visible")

	close(release)
	require.NoError(t, <-slow)
	assert.True(t, d(8).Equal(total(t, store)), "los incrementos de ambas tx se combinan en el commit")

	bals, err := store.Balances().ListByItem(ctx, "I1")
	require.NoError(t, err)
	assert.Len(t, bals, 2)
}

func TestTxRunner_ErrorDescartaEscrituras(t *testing.T) {
	store, runner := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runner.Run(ctx, func(tx repository.Tx) error {
		if err := put(ctx, tx, "A", 7); err != nil {
			return err
		}
		b, err := tx.Balances.Get(ctx, "I1", "A")
		require.NoError(t, err)
		assert.True(t, d(7).Equal(b.Quantity), "la tx ve sus propias escrituras")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, total(t, store).IsZero())
	b, err := store.Balances().Get(ctx, "I1", "A")
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())
}

func TestTxRunner_CambioConcurrenteDeUbicacionAbortaCommit(t *testing.T) {
	store, runner := seed(t)
	ctx := context.Background()

	err := runner.Run(ctx, func(tx repository.Tx) error {
		loc, err := tx.Locations.GetForShare(ctx, "A")
		require.NoError(t, err)
		require.True(t, loc.IsActive())

		// Otra escritura desactiva la ubicación antes del commit.
		inactive := *loc
		inactive.Status = entity.LocationStatusInactive
		require.NoError(t, store.Locations().Update(ctx, &inactive))

		return put(ctx, tx, "A", 4)
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.True(t, total(t, store).IsZero(), "el commit abortado no aplica nada")
}

func TestTxRunner_CommitsConcurrentesSumanTodo(t *testing.T) {
	store, runner := seed(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, runner.Run(ctx, func(tx repository.Tx) error {
				return tx.Items.AddInventory(ctx, "I1", d(1))
			}))
		}()
	}
	wg.Wait()
	assert.True(t, d(50).Equal(total(t, store)))
}

func TestTxRunner_ReadOnlyRechazaEscrituras(t *testing.T) {
	_, runner := seed(t)
	ctx := context.Background()
	err := runner.ReadOnly(ctx, func(tx repository.Tx) error { return put(ctx, tx, "A", 1) })
	assert.Error(t, err)
}

func TestTicketRepo(t *testing.T) {
	store := memory.NewStore()
	repo := store.Tickets()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	tickets := []*entity.Ticket{
		{ID: "t1", Title: "Fuga de agua", Location: "Baño piso 2", Priority: entity.TicketPriorityHigh, Status: entity.TicketStatusOpen, RequestedBy: "tec-1", CreatedAt: base},
		{ID: "t2", Title: "Pintura", Location: "Recepción", Priority: entity.TicketPriorityLow, Status: entity.TicketStatusOpen, RequestedBy: "tec-2", CreatedAt: base.Add(time.Hour)},
		{ID: "t3", Title: "Luminarias", Location: "Bodega", Priority: entity.TicketPriorityHigh, Status: entity.TicketStatusDone, RequestedBy: "tec-1", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, tk := range tickets {
		require.NoError(t, repo.Create(ctx, tk))
	}
	assert.ErrorIs(t, repo.Create(ctx, tickets[0]), domain.ErrDuplicate)

	all, err := repo.List(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "t3", all[0].ID, "más reciente primero")

	high, err := repo.List(ctx, repository.TicketFilter{Priority: entity.TicketPriorityHigh, Status: entity.TicketStatusOpen})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "t1", high[0].ID)

	byPlace, err := repo.List(ctx, repository.TicketFilter{Search: "bano"})
	require.NoError(t, err)
	require.Len(t, byPlace, 1)
	assert.Equal(t, "t1", byPlace[0].ID)

	mine, err := repo.List(ctx, repository.TicketFilter{RequestedBy: "tec-1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "t1", mine[0].ID)

	upd := *tickets[1]
	upd.Status = entity.TicketStatusInProgress
	upd.CreatedAt = time.Time{}
	require.NoError(t, repo.Update(ctx, &upd))
	got, err := repo.GetByID(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusInProgress, got.Status)
	assert.Equal(t, base.Add(time.Hour), got.CreatedAt)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Ticket{ID: "nope"}), domain.ErrNotFound)
}
