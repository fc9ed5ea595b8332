package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// InventoryHandler maneja movimientos, balances e historial.
// Toda respuesta de escritura trae el estado resultante (balance y total del item).
type InventoryHandler struct {
	uc      *usecase.InventoryUseCase
	reports *report.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *usecase.InventoryUseCase, reports *report.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, reports: reports}
}

// RegisterIn godoc
// @Summary      Registrar entrada (IN)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementRequest  true  "Item, ubicación y cantidad (> 0)"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/in [post]
func (h *InventoryHandler) RegisterIn(c *fiber.Ctx) error {
	return h.movement(c, h.uc.RegisterIn)
}

// RegisterOut godoc
// @Summary      Registrar salida (OUT)
// @Description  Falla con INSUFFICIENT_STOCK si el balance de la ubicación no alcanza.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementRequest  true  "Item, ubicación y cantidad (> 0)"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/out [post]
func (h *InventoryHandler) RegisterOut(c *fiber.Ctx) error {
	return h.movement(c, h.uc.RegisterOut)
}

// RegisterAdjust godoc
// @Summary      Registrar ajuste (ADJUST)
// @Description  quantity es el valor absoluto final del balance (>= 0); el movimiento guarda la diferencia.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementRequest  true  "Item, ubicación y cantidad final"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) RegisterAdjust(c *fiber.Ctx) error {
	return h.movement(c, h.uc.RegisterAdjust)
}

// RegisterTransfer godoc
// @Summary      Registrar traslado (TRANSFER)
// @Description  Registra las dos piernas con el mismo correlation_id; el total del item no cambia.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "Item, origen, destino y cantidad (> 0)"
// @Success      201   {object}  dto.TransferResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) RegisterTransfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterTransfer(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type movementFunc func(ctx context.Context, actor entity.Actor, in dto.MovementRequest) (*dto.MovementResultResponse, error)

func (h *InventoryHandler) movement(c *fiber.Ctx, register movementFunc) error {
	var in dto.MovementRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := register(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBalances godoc
// @Summary      Listar balances
// @Description  Por defecto omite los pares en cero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "Filtrar por item"
// @Param        location_id   query  string  false  "Filtrar por ubicación"
// @Param        include_zero  query  bool    false  "Incluir balances en cero"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	var in dto.BalanceListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ListBalances(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ItemBalances godoc
// @Summary      Balances de un item
// @Description  Balances por ubicación, total desnormalizado y bandera de consistencia.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path      string  true  "ID del item"
// @Success      200     {object}  dto.ItemBalancesResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId} [get]
func (h *InventoryHandler) ItemBalances(c *fiber.Ctx) error {
	out, err := h.uc.ItemBalances(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar consistencia de un item
// @Description  500 INTEGRITY si el total del item no coincide con la suma de sus balances.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del item"
// @Success      204
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/verify [get]
func (h *InventoryHandler) Verify(c *fiber.Ctx) error {
	if err := h.uc.Verify(c.UserContext(), c.Params("itemId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial de movimientos de un item
// @Description  Orden cronológico inverso.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path      string  true   "ID del item"
// @Param        limit   query     int     false  "Límite"  default(50)
// @Param        offset  query     int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/inventory/{itemId}/movements [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.History(c.UserContext(), c.Params("itemId"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Correlated godoc
// @Summary      Movimientos correlacionados
// @Description  Las piernas de un traslado o todos los movimientos de una aprobación.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        correlationId  path      string  true  "ID de correlación"
// @Success      200            {array}   dto.MovementResponse
// @Failure      404            {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/correlation/{correlationId} [get]
func (h *InventoryHandler) Correlated(c *fiber.Ctx) error {
	out, err := h.uc.Correlated(c.UserContext(), c.Params("correlationId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportBalances godoc
// @Summary      Exportar balances (XLSX)
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        location_id  query  string  false  "Solo una ubicación"
// @Success      200  {file}  binary
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) ExportBalances(c *fiber.Ctx) error {
	content, filename, err := h.reports.BalancesXLSX(c.UserContext(), c.Query("location_id"))
	if err != nil {
		return err
	}
	return sendFile(c, filename, content)
}

// ExportHistory godoc
// @Summary      Exportar historial de un item (XLSX)
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        itemId  path  string  true  "ID del item"
// @Success      200  {file}  binary
// @Router       /api/inventory/{itemId}/movements/export [get]
func (h *InventoryHandler) ExportHistory(c *fiber.Ctx) error {
	content, filename, err := h.reports.MovementsXLSX(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return err
	}
	return sendFile(c, filename, content)
}
