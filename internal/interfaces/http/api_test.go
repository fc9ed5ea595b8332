package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/approval"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/preset"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/lock"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/almacen-api/pkg/jwt"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// newAPI arma la aplicación completa sobre el store en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	prom := metrics.NewPrometheus()
	ledger := inventory.NewStockLedger(txRunner, store.Items(), store.Locations(), store.Balances())
	recorder := inventory.NewMovementRecorder(ledger, txRunner, lock.NewKeyLocker(time.Second), store.Movements(), prom, logger.Nop())
	engine := approval.NewEngine(recorder, txRunner, store.Requests(), store.Items(), store.Locations(), store.Presets(), store.Tickets(), prom, logger.Nop())
	reports := report.NewUseCase(engine, recorder, ledger, store.Items(), store.Locations(),
		infrapdf.NewMarotoPDFGenerator("Almacén"), xlsx.NewGenerator())

	return apphttp.NewApp(apphttp.AppOptions{Name: "almacen-test", Metrics: prom.Handler()}, apphttp.RouterDeps{
		ItemUC:            usecase.NewItemUseCase(store.Items(), txRunner),
		LocationUC:        usecase.NewLocationUseCase(store.Locations()),
		InventoryUC:       usecase.NewInventoryUseCase(recorder, ledger, store.Locations()),
		MaterialRequestUC: usecase.NewMaterialRequestUseCase(engine, store.Items()),
		PresetUC:          usecase.NewPresetUseCase(preset.NewService(store.Presets(), store.Items(), store.Requests())),
		TicketUC:          usecase.NewTicketUseCase(store.Tickets()),
		Reports:           reports,
		JWTSecret:         testJWTSecret,
		JWTIssuer:         testIssuer,
	})
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "", role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call hace la petición y, si out no es nil, decodifica el cuerpo JSON.
func call(t *testing.T, app *fiber.App, method, path, auth string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPI_FlujoCompleto(t *testing.T) {
	app := newAPI(t)
	admin := bearer(t, "adm-1", "admin")
	tec := bearer(t, "tec-1", "tecnico")

	var item dto.ItemResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/items", admin,
		dto.CreateItemRequest{Code: "TUB-01", Description: "Tubería de cobre"}, &item))
	assert.Contains(t, item.QRCode, "ALM-")

	var loc dto.LocationResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/locations", admin,
		dto.CreateLocationRequest{Code: "BOD", Name: "Bodega", Type: "WAREHOUSE"}, &loc))

	var in dto.MovementResultResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/in", admin,
		map[string]any{"item_id": item.ID, "location_id": loc.ID, "quantity": "10"}, &in))
	assert.Equal(t, "10", in.Item.TotalInventory.String())
	assert.True(t, in.Item.Consistent)

	// El técnico no registra movimientos
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/inventory/out", tec,
		map[string]any{"item_id": item.ID, "location_id": loc.ID, "quantity": "1"}, nil))

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/inventory/out", admin,
		map[string]any{"item_id": item.ID, "location_id": loc.ID, "quantity": "11"}, &errResp))
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, "10", errResp.Details["available"])

	var ticket dto.TicketResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/tickets", tec,
		map[string]any{"title": "Cambio de tubería", "priority": "HIGH", "location": "Cocina"}, &ticket))

	var req dto.MaterialRequestResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/material-requests", tec,
		map[string]any{"ticket_id": ticket.ID, "items": []map[string]any{{"item_id": item.ID, "quantity_requested": "4"}}}, &req))
	assert.Equal(t, "PENDING", req.Status)
	assert.Equal(t, "tec-1", req.RequestedBy)

	var approved dto.ApproveMaterialRequestResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost,
		"/api/material-requests/"+req.ID+"/approve?locationId="+loc.ID, admin,
		map[string]any{"items": []map[string]any{{"item_id": item.ID, "quantity_approved": "3"}}}, &approved))
	assert.Equal(t, "APPROVED", approved.Request.Status)
	require.Len(t, approved.Movements, 1)
	assert.Equal(t, req.Folio, approved.Movements[0].Reference)

	var balances dto.ItemBalancesResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/"+item.ID, tec, nil, &balances))
	assert.Equal(t, "7", balances.TotalInventory.String())

	// Una segunda aprobación no vuelve a descontar
	require.Equal(t, http.StatusConflict, call(t, app, http.MethodPost,
		"/api/material-requests/"+req.ID+"/approve?location_id="+loc.ID, admin,
		map[string]any{"items": []map[string]any{{"item_id": item.ID, "quantity_approved": "3"}}}, &errResp))
	assert.Equal(t, "INVALID_STATE", errResp.Code)

	var history dto.MovementListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/"+item.ID+"/movements", admin, nil, &history))
	assert.Len(t, history.Items, 2)
	assert.Equal(t, "OUT", history.Items[0].Type)
}

func TestAPI_ErroresDeValidacion(t *testing.T) {
	app := newAPI(t)
	admin := bearer(t, "adm-1", "admin")

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/items", admin,
		map[string]any{"description": "sin código"}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, "code", errResp.Details["field"])

	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/inventory/transfer", admin,
		map[string]any{"item_id": "x", "from_location_id": "A", "to_location_id": "A", "quantity": "1"}, &errResp))
	assert.Equal(t, "to_location_id", errResp.Details["field"])

	require.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/items/no-existe", admin, nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/items", "", nil, nil))
}

func TestAPI_PresetsNoChocanConIDDeSolicitud(t *testing.T) {
	app := newAPI(t)
	admin := bearer(t, "adm-1", "admin")

	var list []dto.PresetResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/material-requests/presets", admin, nil, &list))
	assert.Empty(t, list)

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet,
		"/api/material-requests/presets/stats/period?start_date=2026-01-01", admin, nil, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestAPI_Tickets(t *testing.T) {
	app := newAPI(t)
	admin := bearer(t, "adm-1", "admin")
	tec := bearer(t, "tec-1", "tecnico")

	var created dto.TicketResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/tickets", tec,
		map[string]any{"title": "Revisar bomba", "scheduled_at": "2026-11-03T08:00:00-05:00"}, &created))
	assert.Equal(t, "OPEN", created.Status)
	assert.Equal(t, "MEDIUM", created.Priority)
	require.NotNil(t, created.ScheduledAt)

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/tickets", tec,
		map[string]any{"title": "x", "priority": "ALTA"}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)

	var got dto.TicketResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/tickets/"+created.ID, tec, nil, &got))
	assert.Equal(t, "tec-1", got.RequestedBy)

	var list dto.TicketListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/tickets?status=OPEN", tec, nil, &list))
	require.Len(t, list.Items, 1)

	// El técnico no cierra tickets
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPut, "/api/tickets/"+created.ID+"/status", tec,
		map[string]any{"status": "DONE"}, nil))
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/api/tickets/"+created.ID+"/status", admin,
		map[string]any{"status": "CANCELED"}, &got))
	assert.Equal(t, "CANCELED", got.Status)

	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/material-requests", tec,
		map[string]any{"ticket_id": created.ID, "items": []map[string]any{{"item_id": "x", "quantity_requested": "1"}}}, &errResp))
	assert.Equal(t, "ticket_id", errResp.Details["field"])

	require.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/tickets/no-existe", tec, nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestAPI_TrasladoCorrelacionadoYEscala(t *testing.T) {
	app := newAPI(t)
	admin := bearer(t, "adm-1", "admin")

	var item dto.ItemResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/items", admin,
		dto.CreateItemRequest{Code: "CAB-01", Description: "Cable"}, &item))
	var a, b dto.LocationResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/locations", admin,
		dto.CreateLocationRequest{Code: "A", Name: "Bodega A", Type: "WAREHOUSE"}, &a))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/locations", admin,
		dto.CreateLocationRequest{Code: "B", Name: "Bodega B", Type: "WAREHOUSE"}, &b))

	var errResp dto.ErrorResponse
	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/inventory/in", admin,
		map[string]any{"item_id": item.ID, "location_id": a.ID, "quantity": "1.00001"}, &errResp))
	assert.Equal(t, "quantity", errResp.Details["field"])

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/in", admin,
		map[string]any{"item_id": item.ID, "location_id": a.ID, "quantity": "12.5"}, nil))
	var tr dto.TransferResultResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/transfer", admin,
		map[string]any{"item_id": item.ID, "from_location_id": a.ID, "to_location_id": b.ID, "quantity": "2.25"}, &tr))

	var legs []dto.MovementResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet,
		"/api/inventory/movements/correlation/"+tr.Out.CorrelationID, admin, nil, &legs))
	require.Len(t, legs, 2)
	assert.Equal(t, tr.Out.CorrelationID, legs[1].CorrelationID)

	require.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet,
		"/api/inventory/movements/correlation/sin-movimientos", admin, nil, &errResp))
}

func TestAPI_HealthYMetrics(t *testing.T) {
	app := newAPI(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}
