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

func TestItemUseCase_CreateYBuscarPorQR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	it := f.newItem(t, "CAB-12")
	assert.Equal(t, entity.ItemStatusOperativo, it.Status)
	assert.True(t, it.Active)
	assert.True(t, it.TotalInventory.IsZero())
	require.NotEmpty(t, it.QRCode)

	found, err := f.items.GetByQRCode(ctx, it.QRCode)
	require.NoError(t, err)
	assert.Equal(t, it.ID, found.ID)

	_, err = f.items.Create(ctx, dto.CreateItemRequest{Code: "CAB-12", Description: "otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemUseCase_RegenerarQR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")

	updated, err := f.items.RegenerateQRCode(ctx, it.ID)
	require.NoError(t, err)
	assert.NotEqual(t, it.QRCode, updated.QRCode)

	_, err = f.items.GetByQRCode(ctx, it.QRCode)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_UpdateNoTocaInventario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")
	loc := f.newLocation(t, "W")
	_, err := f.inventory.RegisterIn(ctx, admin, dto.MovementRequest{ItemID: it.ID, LocationID: loc.ID, Quantity: d(7)})
	require.NoError(t, err)

	desc := "Cable calibre 12"
	bad := "ROTO"
	_, err = f.items.Update(ctx, it.ID, dto.UpdateItemRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := f.items.Update(ctx, it.ID, dto.UpdateItemRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)

	got, err := f.items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalInventory.Equal(d(7)))
}

func TestItemUseCase_ListBusquedaSinAcentos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.items.Create(ctx, dto.CreateItemRequest{Code: "T-1", Description: "Tubería de cobre"})
	require.NoError(t, err)
	f.newItem(t, "OTRO")

	res, err := f.items.List(ctx, dto.ItemListRequest{Search: "TUBERIA"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "T-1", res.Items[0].Code)
	assert.Equal(t, 20, res.Page.Limit)
}

func TestItemUseCase_DeleteSinMovimientosBorra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")

	res, err := f.items.Delete(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, res.SoftDeleted)

	_, err = f.items.GetByID(ctx, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_DeleteConMovimientosDaDeBaja(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")
	loc := f.newLocation(t, "W")
	_, err := f.inventory.RegisterIn(ctx, admin, dto.MovementRequest{ItemID: it.ID, LocationID: loc.ID, Quantity: d(3)})
	require.NoError(t, err)

	res, err := f.items.Delete(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, res.SoftDeleted)

	got, err := f.items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	hist, err := f.inventory.History(ctx, it.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, hist.Items, 1)

	_, err = f.items.Delete(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
