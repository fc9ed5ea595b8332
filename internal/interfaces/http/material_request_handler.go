package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// MaterialRequestHandler maneja el ciclo de vida de las solicitudes de material.
type MaterialRequestHandler struct {
	uc      *usecase.MaterialRequestUseCase
	reports *report.UseCase
}

// NewMaterialRequestHandler construye el handler.
func NewMaterialRequestHandler(uc *usecase.MaterialRequestUseCase, reports *report.UseCase) *MaterialRequestHandler {
	return &MaterialRequestHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Crear solicitud de material
// @Description  Queda en PENDING con folio consecutivo. El ticket debe existir y estar abierto. Con preset_id se marca si difiere del preset.
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMaterialRequestRequest  true  "Ticket y líneas"
// @Success      201   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests [post]
func (h *MaterialRequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequestRequest
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
// @Summary      Obtener solicitud
// @Description  Un técnico solo puede ver sus propias solicitudes.
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id} [get]
func (h *MaterialRequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        ticket_id     query     string  false  "Ticket"
// @Param        status        query     string  false  "Estado"
// @Param        requested_by  query     string  false  "Solicitante (ignorado para técnicos)"
// @Param        preset_id     query     string  false  "Preset de origen"
// @Param        limit         query     int     false  "Límite"  default(20)
// @Param        offset        query     int     false  "Offset"  default(0)
// @Success      200           {object}  dto.MaterialRequestListResponse
// @Router       /api/material-requests [get]
func (h *MaterialRequestHandler) List(c *fiber.Ctx) error {
	var in dto.MaterialRequestListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Description  Descuenta del inventario de la ubicación indicada las cantidades aprobadas, todo o nada.
// @Description  Las líneas no enviadas se aprueban en 0.
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id           path      string                             true  "ID de la solicitud"
// @Param        location_id  query     string                             true  "Ubicación de surtido"
// @Param        body         body      dto.ApproveMaterialRequestRequest  true  "Cantidades aprobadas por item"
// @Success      200          {object}  dto.ApproveMaterialRequestResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      409          {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/approve [post]
func (h *MaterialRequestHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveMaterialRequestRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	locationID := c.Query("location_id")
	if locationID == "" {
		locationID = c.Query("locationId")
	}
	out, err := h.uc.Approve(c.UserContext(), GetActor(c), c.Params("id"), locationID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                            true  "ID de la solicitud"
// @Param        body  body      dto.RejectMaterialRequestRequest  true  "Motivo"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/reject [post]
func (h *MaterialRequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectMaterialRequestRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Reject(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar solicitud
// @Description  Solo en PENDING. Un técnico solo puede cancelar las suyas.
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/cancel [post]
func (h *MaterialRequestHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Deliver godoc
// @Summary      Registrar entrega
// @Description  DELIVERED si todas las líneas se entregan completas, PARTIAL si no. No mueve inventario.
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                             true  "ID de la solicitud"
// @Param        body  body      dto.DeliverMaterialRequestRequest  true  "Cantidades entregadas por item"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/deliver [post]
func (h *MaterialRequestHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliverMaterialRequestRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Deliver(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Solicitud en PDF
// @Tags         material-requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/pdf [get]
func (h *MaterialRequestHandler) PDF(c *fiber.Ctx) error {
	content, filename, err := h.reports.RequestPDF(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return sendFile(c, filename, content)
}
