package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// TicketHandler maneja las peticiones HTTP de tickets.
type TicketHandler struct {
	uc *usecase.TicketUseCase
}

// NewTicketHandler construye el handler.
func NewTicketHandler(uc *usecase.TicketUseCase) *TicketHandler {
	return &TicketHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ticket
// @Description  Queda en OPEN a nombre del usuario autenticado.
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTicketRequest  true  "Datos del ticket"
// @Success      201   {object}  dto.TicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tickets [post]
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ticket
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del ticket"
// @Success      200  {object}  dto.TicketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tickets/{id} [get]
func (h *TicketHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar tickets
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Param        search        query     string  false  "Título o sitio"
// @Param        status        query     string  false  "OPEN | IN_PROGRESS | DONE | CANCELED"
// @Param        priority      query     string  false  "LOW | MEDIUM | HIGH | URGENT"
// @Param        requested_by  query     string  false  "Usuario solicitante"
// @Param        limit         query     int     false  "Límite"  default(20)
// @Param        offset        query     int     false  "Offset"  default(0)
// @Success      200           {object}  dto.TicketListResponse
// @Router       /api/tickets [get]
func (h *TicketHandler) List(c *fiber.Ctx) error {
	var in dto.TicketListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de un ticket
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                         true  "ID del ticket"
// @Param        body  body      dto.UpdateTicketStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.TicketResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/status [put]
func (h *TicketHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTicketStatusRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
