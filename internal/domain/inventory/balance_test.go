package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestApplyDelta_NoPermiteNegativo(t *testing.T) {
	p := inventory.Pair{ItemID: "x", LocationID: "a"}

	next, err := inventory.ApplyDelta(p, d(10), d(-6))
	require.NoError(t, err)
	assert.True(t, next.Equal(d(4)))

	_, err = inventory.ApplyDelta(p, d(4), d(-6))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "x", stockErr.ItemID)
	assert.Equal(t, "a", stockErr.LocationID)
	assert.True(t, stockErr.Available.Equal(d(4)))
	assert.True(t, stockErr.Requested.Equal(d(6)))
}

func TestAdjustTo(t *testing.T) {
	delta, err := inventory.AdjustTo(d(20), d(15))
	require.NoError(t, err)
	assert.True(t, delta.Equal(d(-5)))

	delta, err = inventory.AdjustTo(d(15), d(15))
	require.NoError(t, err)
	assert.True(t, delta.IsZero())

	_, err = inventory.AdjustTo(d(15), d(-1))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSortPairs_OrdenIndependienteDeDireccion(t *testing.T) {
	ab := inventory.SortPairs([]inventory.Pair{{"x", "b"}, {"x", "a"}})
	ba := inventory.SortPairs([]inventory.Pair{{"x", "a"}, {"x", "b"}})
	assert.Equal(t, ab, ba)
	assert.Equal(t, "a", ab[0].LocationID)

	dedup := inventory.SortPairs([]inventory.Pair{{"y", "a"}, {"x", "a"}, {"y", "a"}})
	assert.Len(t, dedup, 2)
	assert.Equal(t, "x", dedup[0].ItemID)
}

func TestReconcile(t *testing.T) {
	balances := []entity.InventoryBalance{
		{ItemID: "x", LocationID: "a", Quantity: d(20)},
		{ItemID: "x", LocationID: "b", Quantity: d(10)},
	}
	assert.NoError(t, inventory.Reconcile(d(30), balances))
	assert.ErrorIs(t, inventory.Reconcile(d(31), balances), domain.ErrIntegrity)

	balances[1].Quantity = d(-1)
	assert.ErrorIs(t, inventory.Reconcile(d(19), balances), domain.ErrIntegrity)
}
