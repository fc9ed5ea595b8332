package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// LocationHandler maneja las peticiones HTTP de ubicaciones.
type LocationHandler struct {
	uc        *usecase.LocationUseCase
	inventory *usecase.InventoryUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase, inventory *usecase.InventoryUseCase) *LocationHandler {
	return &LocationHandler{uc: uc, inventory: inventory}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateLocationRequest  true  "Datos de la ubicación"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        search  query     string  false  "Código o nombre"
// @Param        type    query     string  false  "WAREHOUSE | WORKSHOP | OFFICE | BRANCH | OTHER"
// @Param        status  query     string  false  "ACTIVE | INACTIVE"
// @Param        limit   query     int     false  "Límite"  default(20)
// @Param        offset  query     int     false  "Offset"  default(0)
// @Success      200     {object}  dto.LocationListResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	var in dto.LocationListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID de la ubicación"
// @Param        body  body      dto.UpdateLocationRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar ubicación
// @Description  No se borra: conserva balances e historial. Deja de aceptar entradas y traslados hacia ella.
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.uc.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos de una ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID de la ubicación"
// @Param        limit   query     int     false  "Límite"  default(50)
// @Param        offset  query     int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/locations/{id}/movements [get]
func (h *LocationHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.inventory.LocationHistory(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
