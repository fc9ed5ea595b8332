package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/approval"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/preset"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/lock"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var (
	admin   = entity.Actor{UserID: "adm-1", Role: entity.RoleAdmin}
	tecnico = entity.Actor{UserID: "tec-1", Role: entity.RoleTecnico}
)

type fixture struct {
	items     *usecase.ItemUseCase
	locations *usecase.LocationUseCase
	inventory *usecase.InventoryUseCase
	requests  *usecase.MaterialRequestUseCase
	presets   *usecase.PresetUseCase
	tickets   *usecase.TicketUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	ledger := inventory.NewStockLedger(txRunner, store.Items(), store.Locations(), store.Balances())
	recorder := inventory.NewMovementRecorder(ledger, txRunner, lock.NewKeyLocker(time.Second), store.Movements(), nil, logger.Nop())
	engine := approval.NewEngine(recorder, txRunner, store.Requests(), store.Items(), store.Locations(), store.Presets(), store.Tickets(), nil, logger.Nop())
	return &fixture{
		items:     usecase.NewItemUseCase(store.Items(), txRunner),
		locations: usecase.NewLocationUseCase(store.Locations()),
		inventory: usecase.NewInventoryUseCase(recorder, ledger, store.Locations()),
		requests:  usecase.NewMaterialRequestUseCase(engine, store.Items()),
		presets:   usecase.NewPresetUseCase(preset.NewService(store.Presets(), store.Items(), store.Requests())),
		tickets:   usecase.NewTicketUseCase(store.Tickets()),
	}
}

// newTicket abre un ticket a nombre del técnico y devuelve su ID.
func (f *fixture) newTicket(t *testing.T, title string) string {
	t.Helper()
	tk, err := f.tickets.Create(context.Background(), tecnico, dto.CreateTicketRequest{Title: title})
	require.NoError(t, err)
	return tk.ID
}

func (f *fixture) newItem(t *testing.T, code string) *dto.ItemResponse {
	t.Helper()
	it, err := f.items.Create(context.Background(), dto.CreateItemRequest{Code: code, Description: "Item " + code})
	require.NoError(t, err)
	return it
}

func (f *fixture) newLocation(t *testing.T, code string) *dto.LocationResponse {
	t.Helper()
	loc, err := f.locations.Create(context.Background(), dto.CreateLocationRequest{
		Code: code, Name: "Ubicación " + code, Type: entity.LocationTypeWarehouse,
	})
	require.NoError(t, err)
	return loc
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
