package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

func TestRecorder_EscenarioCompleto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)

	assert.True(t, f.balance(t, "X", "A").IsZero())

	mov, err := f.recorder.RecordIn(ctx, in("X", "A", 50))
	require.NoError(t, err)
	assert.True(t, d(50).Equal(mov.ResultingBalance))
	f.assertConsistent(t, "X")

	mov, err = f.recorder.RecordOut(ctx, in("X", "A", 20))
	require.NoError(t, err)
	assert.True(t, d(30).Equal(mov.ResultingBalance))
	assert.True(t, d(-20).Equal(mov.Quantity))
	f.assertConsistent(t, "X")

	tr, err := f.recorder.RecordTransfer(ctx, inventory.TransferInput{
		ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: d(10), Actor: "u-1",
	})
	require.NoError(t, err)
	assert.True(t, d(20).Equal(f.balance(t, "X", "A")))
	assert.True(t, d(10).Equal(f.balance(t, "X", "B")))
	assert.Equal(t, tr.Out.CorrelationID, tr.In.CorrelationID)
	f.assertConsistent(t, "X")

	mov, err = f.recorder.RecordAdjust(ctx, in("X", "A", 15))
	require.NoError(t, err)
	assert.True(t, d(15).Equal(f.balance(t, "X", "A")))
	assert.True(t, d(-5).Equal(mov.Quantity))
	assert.True(t, d(15).Equal(mov.ResultingBalance))
	f.assertConsistent(t, "X")

	view, err := f.ledger.ItemBalances(ctx, "X")
	require.NoError(t, err)
	assert.True(t, d(25).Equal(view.Item.TotalInventory))
	assert.True(t, view.Consistent)
}

func TestRecorder_AjusteIdempotente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 7))
	require.NoError(t, err)

	first, err := f.recorder.RecordAdjust(ctx, in("X", "A", 12))
	require.NoError(t, err)
	second, err := f.recorder.RecordAdjust(ctx, in("X", "A", 12))
	require.NoError(t, err)

	assert.True(t, d(12).Equal(first.ResultingBalance))
	assert.True(t, d(12).Equal(second.ResultingBalance))
	assert.True(t, d(5).Equal(first.Quantity))
	assert.True(t, second.Quantity.IsZero())
	assert.NotEqual(t, first.ID, second.ID)

	history, total, err := f.recorder.History(ctx, "X", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, second.ID, history[0].ID)
	f.assertConsistent(t, "X")
}

func TestRecorder_TrasladoIdaYVuelta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 8))
	require.NoError(t, err)
	_, err = f.recorder.RecordIn(ctx, in("X", "B", 3))
	require.NoError(t, err)

	go1, err := f.recorder.RecordTransfer(ctx, inventory.TransferInput{ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: d(5)})
	require.NoError(t, err)
	back, err := f.recorder.RecordTransfer(ctx, inventory.TransferInput{ItemID: "X", FromLocationID: "B", ToLocationID: "A", Quantity: d(5)})
	require.NoError(t, err)

	assert.True(t, d(8).Equal(f.balance(t, "X", "A")))
	assert.True(t, d(3).Equal(f.balance(t, "X", "B")))
	assert.NotEqual(t, go1.Out.CorrelationID, back.Out.CorrelationID)

	for _, res := range []*inventory.TransferResult{go1, back} {
		legs, err := f.recorder.Correlated(ctx, res.Out.CorrelationID)
		require.NoError(t, err)
		require.Len(t, legs, 2)
		assert.Equal(t, entity.MovementTypeTRANSFER, legs[0].Type)
		assert.Equal(t, entity.DirectionOUT, legs[0].Direction)
		assert.Equal(t, entity.DirectionIN, legs[1].Direction)
		assert.True(t, legs[0].Quantity.Add(legs[1].Quantity).IsZero())
	}

	_, total, err := f.recorder.History(ctx, "X", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, total) // 2 entradas + 4 piernas
	f.assertConsistent(t, "X")
}

func TestRecorder_SalidaSinStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 4))
	require.NoError(t, err)

	_, err = f.recorder.RecordOut(ctx, in("X", "A", 5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "X", ise.ItemID)
	assert.Equal(t, "A", ise.LocationID)
	assert.True(t, d(4).Equal(ise.Available))
	assert.True(t, d(5).Equal(ise.Requested))

	assert.True(t, d(4).Equal(f.balance(t, "X", "A")))
	_, total, err := f.recorder.History(ctx, "X", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRecorder_TrasladoSinStockNoDejaPiernas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 2))
	require.NoError(t, err)

	_, err = f.recorder.RecordTransfer(ctx, inventory.TransferInput{ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: d(3)})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, d(2).Equal(f.balance(t, "X", "A")))
	assert.True(t, f.balance(t, "X", "B").IsZero())
	_, total, err := f.recorder.History(ctx, "X", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRecorder_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "Z", entity.LocationStatusInactive)

	_, err := f.recorder.RecordIn(ctx, in("X", "A", 0))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.recorder.RecordOut(ctx, in("X", "A", -1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.recorder.RecordAdjust(ctx, in("X", "A", -3))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.recorder.RecordIn(ctx, in("X", "Z", 1))
	assert.ErrorIs(t, err, domain.ErrValidation, "ubicación inactiva no recibe stock")

	_, err = f.recorder.RecordIn(ctx, in("NOPE", "A", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.recorder.RecordIn(ctx, in("X", "NOPE", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.recorder.RecordTransfer(ctx, inventory.TransferInput{ItemID: "X", FromLocationID: "A", ToLocationID: "A", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.recorder.RecordTransfer(ctx, inventory.TransferInput{ItemID: "X", FromLocationID: "A", ToLocationID: "Z", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrValidation, "destino inactivo")
}

func TestRecorder_UbicacionInactivaPermiteSalidaYAjuste(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 9))
	require.NoError(t, err)

	loc, err := f.store.Locations().GetByID(ctx, "A")
	require.NoError(t, err)
	loc.Status = entity.LocationStatusInactive
	require.NoError(t, f.store.Locations().Update(ctx, loc))

	_, err = f.recorder.RecordOut(ctx, in("X", "A", 4))
	require.NoError(t, err)
	_, err = f.recorder.RecordAdjust(ctx, in("X", "A", 0))
	require.NoError(t, err)
	f.assertConsistent(t, "X")
}

func TestRecorder_SalidasConcurrentesMismoPar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 10))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.recorder.RecordOut(ctx, in("X", "A", 6))
		}(i)
	}
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.True(t, d(4).Equal(f.balance(t, "X", "A")))
	f.assertConsistent(t, "X")
}

func TestRecorder_TrasladosCruzadosConcurrentes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 100))
	require.NoError(t, err)
	_, err = f.recorder.RecordIn(ctx, in("X", "B", 100))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.recorder.RecordTransfer(ctx, inventory.TransferInput{ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: d(1)})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.recorder.RecordTransfer(ctx, inventory.TransferInput{ItemID: "X", FromLocationID: "B", ToLocationID: "A", Quantity: d(1)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, d(100).Equal(f.balance(t, "X", "A")))
	assert.True(t, d(100).Equal(f.balance(t, "X", "B")))
	f.assertConsistent(t, "X")
}

func TestRecorder_DecimalesFraccionarios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)

	_, err := f.recorder.RecordIn(ctx, inventory.MovementInput{ItemID: "X", LocationID: "A", Quantity: decimal.RequireFromString("2.5")})
	require.NoError(t, err)
	_, err = f.recorder.RecordOut(ctx, inventory.MovementInput{ItemID: "X", LocationID: "A", Quantity: decimal.RequireFromString("0.75")})
	require.NoError(t, err)
	assert.Equal(t, "1.75", f.balance(t, "X", "A").String())
	f.assertConsistent(t, "X")
}

func TestRecorder_RechazaDecimalesFueraDeEscala(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)
	q := decimal.RequireFromString

	_, err := f.recorder.RecordIn(ctx, inventory.MovementInput{ItemID: "X", LocationID: "A", Quantity: q("0.0001")})
	require.NoError(t, err)
	_, err = f.recorder.RecordIn(ctx, inventory.MovementInput{ItemID: "X", LocationID: "B", Quantity: q("0.0001")})
	require.NoError(t, err)

	_, err = f.recorder.RecordIn(ctx, inventory.MovementInput{ItemID: "X", LocationID: "A", Quantity: q("0.00006")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.recorder.RecordOut(ctx, inventory.MovementInput{ItemID: "X", LocationID: "A", Quantity: q("0.00005")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.recorder.RecordAdjust(ctx, inventory.MovementInput{ItemID: "X", LocationID: "A", Quantity: q("0.00015")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.recorder.RecordTransfer(ctx, inventory.TransferInput{
		ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: q("0.00005"),
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)

	// nada de lo rechazado quedó escrito
	assert.True(t, q("0.0001").Equal(f.balance(t, "X", "A")))
	assert.True(t, q("0.0001").Equal(f.balance(t, "X", "B")))
	_, total, err := f.recorder.History(ctx, "X", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	f.assertConsistent(t, "X")
}

// holdPair retiene el lock de (item, ubicación) hasta que se cierre el canal devuelto.
func holdPair(t *testing.T, f *fixture, locker *signalLocker, itemID, locationID string) (release chan struct{}, done chan error) {
	t.Helper()
	release = make(chan struct{})
	done = make(chan error, 1)
	inside := make(chan struct{})
	go func() {
		done <- f.recorder.Exclusive(context.Background(), []domaininv.Pair{{ItemID: itemID, LocationID: locationID}}, nil,
			func(repository.Tx) error {
				close(inside)
				<-release
				return nil
			})
	}()
	<-locker.acquiring
	<-inside
	return release, done
}

func TestRecorder_UbicacionDesactivadaMientrasEsperaElLock(t *testing.T) {
	ctx := context.Background()
	locker := newSignalLocker()
	f := newFixtureWithLocker(t, locker)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)

	release, held := holdPair(t, f, locker, "X", "A")
	result := make(chan error, 1)
	go func() {
		_, err := f.recorder.RecordIn(ctx, in("X", "A", 5))
		result <- err
	}()
	<-locker.acquiring // la entrada ya pasó la validación previa y espera el lock

	loc, err := f.store.Locations().GetByID(ctx, "A")
	require.NoError(t, err)
	loc.Status = entity.LocationStatusInactive
	require.NoError(t, f.store.Locations().Update(ctx, loc))
	close(release)
	require.NoError(t, <-held)

	err = <-result
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location_id", verr.Field)
	assert.True(t, f.balance(t, "X", "A").IsZero())
	f.assertConsistent(t, "X")
}

func TestRecorder_ItemDesactivadoMientrasEsperaElLock(t *testing.T) {
	ctx := context.Background()
	locker := newSignalLocker()
	f := newFixtureWithLocker(t, locker)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 10))
	require.NoError(t, err)
	<-locker.acquiring

	release, held := holdPair(t, f, locker, "X", "A")
	result := make(chan error, 1)
	go func() {
		_, err := f.recorder.RecordTransfer(ctx, inventory.TransferInput{
			ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: d(4), Actor: "u-1",
		})
		result <- err
	}()
	<-locker.acquiring

	item, err := f.store.Items().GetByID(ctx, "X")
	require.NoError(t, err)
	item.Active = false
	require.NoError(t, f.store.Items().Update(ctx, item))
	close(release)
	require.NoError(t, <-held)

	err = <-result
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "item_id", verr.Field)
	assert.True(t, d(10).Equal(f.balance(t, "X", "A")))
	assert.True(t, f.balance(t, "X", "B").IsZero())
	f.assertConsistent(t, "X")
}

func TestRecorder_ParesDisjuntosNoSeEsperan(t *testing.T) {
	ctx := context.Background()
	locker := newSignalLocker()
	f := newFixtureWithLocker(t, locker)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)

	release, held := holdPair(t, f, locker, "X", "A")
	result := make(chan error, 1)
	go func() {
		_, err := f.recorder.RecordIn(ctx, in("X", "B", 3))
		result <- err
	}()
	<-locker.acquiring
	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("la entrada en B esperó a la transacción abierta sobre A")
	}
	close(release)
	require.NoError(t, <-held)
	assert.True(t, d(3).Equal(f.balance(t, "X", "B")))
	f.assertConsistent(t, "X")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, inventory.IsRetryable(domain.ErrConcurrencyConflict))
	assert.True(t, inventory.IsRetryable(fmt.Errorf("par X/A: %w", domain.ErrConcurrencyConflict)))
	assert.False(t, inventory.IsRetryable(nil))
	assert.False(t, inventory.IsRetryable(domain.ErrInsufficientStock))
	assert.False(t, inventory.IsRetryable(domain.NewValidationError("quantity", "inválida")))
}
