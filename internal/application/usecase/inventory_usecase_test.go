package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestInventoryUseCase_RespuestaConEstadoPosterior(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")
	a := f.newLocation(t, "A")
	b := f.newLocation(t, "B")

	res, err := f.inventory.RegisterIn(ctx, admin, dto.MovementRequest{ItemID: it.ID, LocationID: a.ID, Quantity: d(50), Comment: "compra"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIN, res.Movement.Type)
	assert.Equal(t, admin.UserID, res.Movement.Actor)
	assert.True(t, res.Item.TotalInventory.Equal(d(50)))
	assert.True(t, res.Item.Consistent)

	tr, err := f.inventory.RegisterTransfer(ctx, admin, dto.TransferRequest{ItemID: it.ID, FromLocationID: a.ID, ToLocationID: b.ID, Quantity: d(20)})
	require.NoError(t, err)
	assert.Equal(t, tr.Out.CorrelationID, tr.In.CorrelationID)
	assert.True(t, tr.Item.TotalInventory.Equal(d(50)))
	require.Len(t, tr.Item.Balances, 2)
	byLoc := map[string]string{}
	for _, bal := range tr.Item.Balances {
		byLoc[bal.LocationCode] = bal.Quantity.String()
	}
	assert.Equal(t, map[string]string{"A": "30", "B": "20"}, byLoc)

	adj, err := f.inventory.RegisterAdjust(ctx, admin, dto.MovementRequest{ItemID: it.ID, LocationID: b.ID, Quantity: d(15)})
	require.NoError(t, err)
	assert.True(t, adj.Movement.Quantity.Equal(d(-5)))
	assert.True(t, adj.Item.TotalInventory.Equal(d(45)))
	require.NoError(t, f.inventory.Verify(ctx, it.ID))

	hist, err := f.inventory.History(ctx, it.ID, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, hist.Page.Total)
	require.Len(t, hist.Items, 2)
	assert.Equal(t, entity.MovementTypeADJUST, hist.Items[0].Type)
}

func TestInventoryUseCase_SalidaSinStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")
	a := f.newLocation(t, "A")

	_, err := f.inventory.RegisterOut(ctx, admin, dto.MovementRequest{ItemID: it.ID, LocationID: a.ID, Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := f.inventory.ListBalances(ctx, dto.BalanceListRequest{ItemID: it.ID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInventoryUseCase_MovimientosCorrelacionados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")
	a := f.newLocation(t, "A")
	b := f.newLocation(t, "B")

	_, err := f.inventory.RegisterIn(ctx, admin, dto.MovementRequest{ItemID: it.ID, LocationID: a.ID, Quantity: d(10)})
	require.NoError(t, err)
	tr, err := f.inventory.RegisterTransfer(ctx, admin, dto.TransferRequest{ItemID: it.ID, FromLocationID: a.ID, ToLocationID: b.ID, Quantity: d(4)})
	require.NoError(t, err)

	legs, err := f.inventory.Correlated(ctx, tr.Out.CorrelationID)
	require.NoError(t, err)
	require.Len(t, legs, 2)
	for _, leg := range legs {
		assert.Equal(t, entity.MovementTypeTRANSFER, leg.Type)
	}
	assert.ElementsMatch(t, []string{entity.DirectionOUT, entity.DirectionIN}, []string{legs[0].Direction, legs[1].Direction})

	_, err = f.inventory.Correlated(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
