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

func TestMaterialRequestUseCase_FlujoDesdePreset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cable := f.newItem(t, "CABLE")
	tubo := f.newItem(t, "TUBO")
	w := f.newLocation(t, "W")
	for _, id := range []string{cable.ID, tubo.ID} {
		_, err := f.inventory.RegisterIn(ctx, admin, dto.MovementRequest{ItemID: id, LocationID: w.ID, Quantity: d(20)})
		require.NoError(t, err)
	}

	p, err := f.presets.Create(ctx, dto.PresetRequest{
		Name: "Minisplit", Type: entity.PresetTypeInstalacionMinisplit,
		Items: []dto.PresetLine{{ItemID: cable.ID, Quantity: d(10)}, {ItemID: tubo.ID, Quantity: d(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CABLE", p.Items[0].ItemCode)

	draft, err := f.presets.Expand(ctx, p.ID)
	require.NoError(t, err)

	lines := make([]dto.MaterialRequestLine, 0, len(draft.Items))
	for _, l := range draft.Items {
		lines = append(lines, dto.MaterialRequestLine{ItemID: l.ItemID, QuantityRequested: l.Quantity})
	}
	lines[1].QuantityRequested = d(4)
	req, err := f.requests.Create(ctx, tecnico, dto.CreateMaterialRequestRequest{
		TicketID: f.newTicket(t, "Instalación minisplit"), Items: lines, PresetID: p.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusPending, req.Status)
	assert.True(t, req.ModifiedFromPreset)
	assert.Equal(t, "TUBO", req.Items[1].ItemCode)

	approved, err := f.requests.Approve(ctx, admin, req.ID, w.ID, dto.ApproveMaterialRequestRequest{
		Items: []dto.ApprovedLine{{ItemID: cable.ID, QuantityApproved: d(10)}, {ItemID: tubo.ID, QuantityApproved: d(4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, approved.Request.Status)
	require.Len(t, approved.Movements, 2)
	assert.Equal(t, approved.Request.Folio, approved.Movements[0].Reference)

	delivered, err := f.requests.Deliver(ctx, admin, req.ID, dto.DeliverMaterialRequestRequest{
		Items: []dto.DeliveredLine{{ItemID: cable.ID, QuantityDelivered: d(10)}, {ItemID: tubo.ID, QuantityDelivered: d(2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusPartial, delivered.Status)

	stats, err := f.presets.Usage(ctx)
	require.NoError(t, err)
	require.Len(t, stats.Presets, 1)
	assert.Equal(t, 1, stats.Presets[0].TotalUsage)
	assert.Equal(t, 1, stats.Presets[0].ModifiedUsage)
	assert.Equal(t, 1, stats.Presets[0].ApprovedUsage)

	top, err := f.presets.TopItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "CABLE", top[0].ItemCode)
}

func TestMaterialRequestUseCase_TecnicoNoVeAjenas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.newItem(t, "X")

	own, err := f.requests.Create(ctx, tecnico, dto.CreateMaterialRequestRequest{
		TicketID: f.newTicket(t, "Fuga en baño"), Items: []dto.MaterialRequestLine{{ItemID: it.ID, QuantityRequested: d(1)}},
	})
	require.NoError(t, err)
	other, err := f.requests.Create(ctx, entity.Actor{UserID: "tec-2", Role: entity.RoleTecnico}, dto.CreateMaterialRequestRequest{
		TicketID: f.newTicket(t, "Cambio de luminaria"), Items: []dto.MaterialRequestLine{{ItemID: it.ID, QuantityRequested: d(1)}},
	})
	require.NoError(t, err)

	_, err = f.requests.GetByID(ctx, tecnico, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.requests.List(ctx, tecnico, dto.MaterialRequestListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, own.ID, list.Items[0].ID)

	all, err := f.requests.List(ctx, admin, dto.MaterialRequestListRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	cancelled, err := f.requests.Cancel(ctx, tecnico, own.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusCancelled, cancelled.Status)

	_, err = f.requests.Reject(ctx, admin, own.ID, dto.RejectMaterialRequestRequest{Reason: "tarde"})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}
