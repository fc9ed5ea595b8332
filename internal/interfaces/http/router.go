package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC            *usecase.ItemUseCase
	LocationUC        *usecase.LocationUseCase
	InventoryUC       *usecase.InventoryUseCase
	MaterialRequestUC *usecase.MaterialRequestUseCase
	PresetUC          *usecase.PresetUseCase
	TicketUC          *usecase.TicketUseCase
	Reports           *report.UseCase
	JWTSecret         string
	JWTIssuer         string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
// Lectura: cualquier rol. Escritura sobre catálogo e inventario: admin y bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	staff := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	anyone := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleTecnico)

	// Items
	items := api.Group("/items", anyone)
	itemHandler := NewItemHandler(deps.ItemUC, deps.Reports)
	items.Get("/", itemHandler.List)
	items.Post("/", staff, itemHandler.Create)
	items.Get("/by-qr/:code", itemHandler.GetByQRCode)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", staff, itemHandler.Update)
	items.Delete("/:id", RequireRole(entity.RoleAdmin), itemHandler.Delete)
	items.Get("/:id/qr-code", itemHandler.QRLabel)
	items.Post("/:id/qr-code", staff, itemHandler.RegenerateQRCode)

	// Locations
	locations := api.Group("/locations", anyone)
	locationHandler := NewLocationHandler(deps.LocationUC, deps.InventoryUC)
	locations.Get("/", locationHandler.List)
	locations.Post("/", staff, locationHandler.Create)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", staff, locationHandler.Update)
	locations.Delete("/:id", RequireRole(entity.RoleAdmin), locationHandler.Deactivate)
	locations.Get("/:id/movements", locationHandler.Movements)

	// Inventory: movimientos solo admin/bodeguero
	inv := api.Group("/inventory", anyone)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Reports)
	inv.Get("/", inventoryHandler.ListBalances)
	inv.Get("/export", staff, inventoryHandler.ExportBalances)
	inv.Post("/in", staff, inventoryHandler.RegisterIn)
	inv.Post("/out", staff, inventoryHandler.RegisterOut)
	inv.Post("/adjust", staff, inventoryHandler.RegisterAdjust)
	inv.Post("/transfer", staff, inventoryHandler.RegisterTransfer)
	inv.Get("/movements/correlation/:correlationId", inventoryHandler.Correlated)
	inv.Get("/:itemId", inventoryHandler.ItemBalances)
	inv.Get("/:itemId/verify", staff, inventoryHandler.Verify)
	inv.Get("/:itemId/movements", inventoryHandler.History)
	inv.Get("/:itemId/movements/export", staff, inventoryHandler.ExportHistory)

	// Presets: se registran antes que /material-requests/:id para que "presets" no se tome como id.
	presets := api.Group("/material-requests/presets", anyone)
	presetHandler := NewPresetHandler(deps.PresetUC)
	presets.Get("/", presetHandler.List)
	presets.Post("/", staff, presetHandler.Create)
	presets.Get("/stats/usage", staff, presetHandler.Usage)
	presets.Get("/stats/top-items", staff, presetHandler.TopItems)
	presets.Get("/stats/period", staff, presetHandler.Period)
	presets.Get("/:id", presetHandler.GetByID)
	presets.Put("/:id", staff, presetHandler.Update)
	presets.Delete("/:id", staff, presetHandler.Deactivate)
	presets.Get("/:id/expand", presetHandler.Expand)

	// Material requests
	requests := api.Group("/material-requests", anyone)
	requestHandler := NewMaterialRequestHandler(deps.MaterialRequestUC, deps.Reports)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Get("/:id/pdf", requestHandler.PDF)
	requests.Post("/:id/approve", staff, requestHandler.Approve)
	requests.Post("/:id/reject", staff, requestHandler.Reject)
	requests.Post("/:id/deliver", staff, requestHandler.Deliver)
	requests.Post("/:id/cancel", requestHandler.Cancel)

	// Tickets: cualquiera los abre, solo admin/bodeguero cambian su estado
	tickets := api.Group("/tickets", anyone)
	ticketHandler := NewTicketHandler(deps.TicketUC)
	tickets.Get("/", ticketHandler.List)
	tickets.Post("/", ticketHandler.Create)
	tickets.Get("/:id", ticketHandler.GetByID)
	tickets.Put("/:id/status", staff, ticketHandler.UpdateStatus)
}
