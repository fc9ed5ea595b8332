package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

func TestLedger_GetBalanceParInexistenteEsCero(t *testing.T) {
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	assert.True(t, f.balance(t, "X", "A").IsZero())

	_, err := f.ledger.GetBalance(context.Background(), "X", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.GetBalance(context.Background(), "X", "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_VerifyDetectaDivergencia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 10))
	require.NoError(t, err)
	require.NoError(t, f.ledger.Verify(ctx, "X"))

	// Corrupción deliberada del agregado por fuera del ledger.
	require.NoError(t, f.store.Items().AddInventory(ctx, "X", d(1)))

	assert.ErrorIs(t, f.ledger.Verify(ctx, "X"), domain.ErrIntegrity)
	view, err := f.ledger.ItemBalances(ctx, "X")
	require.NoError(t, err)
	assert.False(t, view.Consistent)
}

func TestLedger_ListOmiteCeros(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "X")
	f.location(t, "A", entity.LocationStatusActive)
	f.location(t, "B", entity.LocationStatusActive)
	_, err := f.recorder.RecordIn(ctx, in("X", "A", 3))
	require.NoError(t, err)
	_, err = f.recorder.RecordIn(ctx, in("X", "B", 3))
	require.NoError(t, err)
	_, err = f.recorder.RecordOut(ctx, in("X", "B", 3))
	require.NoError(t, err)

	list, err := f.ledger.List(ctx, repository.BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].LocationID)

	all, err := f.ledger.List(ctx, repository.BalanceFilter{ItemID: "X", IncludeZero: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
