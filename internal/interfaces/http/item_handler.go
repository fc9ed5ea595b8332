package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP del catálogo de items.
type ItemHandler struct {
	uc      *usecase.ItemUseCase
	reports *report.UseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, reports *report.UseCase) *ItemHandler {
	return &ItemHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Crear item
// @Description  Crea el item con inventario total en 0 y genera su código QR.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateItemRequest  true  "Datos del item"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
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
// @Summary      Obtener item por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByQRCode godoc
// @Summary      Buscar item por código QR
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        code  path      string  true  "Contenido del QR (ALM-...)"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/by-qr/{code} [get]
func (h *ItemHandler) GetByQRCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByQRCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar items
// @Description  La búsqueda no distingue acentos ni mayúsculas y cubre código, descripción y serie.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search    query     string  false  "Texto a buscar"
// @Param        category  query     string  false  "Categoría"
// @Param        status    query     string  false  "OPERATIVO | EN_REPARACION | BAJA"
// @Param        active    query     string  false  "true | false"
// @Param        limit     query     int     false  "Límite"  default(20)
// @Param        offset    query     int     false  "Offset"  default(0)
// @Success      200       {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ItemListRequest
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
// @Summary      Actualizar item
// @Description  Solo datos descriptivos; el inventario cambia únicamente con movimientos.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del item"
// @Param        body  body      dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar item
// @Description  Si tiene movimientos o existencias se desactiva (soft delete); si no, se elimina.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del item"
// @Success      200  {object}  dto.DeleteItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RegenerateQRCode godoc
// @Summary      Regenerar código QR
// @Description  El código anterior deja de resolver.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{id}/qr-code [post]
func (h *ItemHandler) RegenerateQRCode(c *fiber.Ctx) error {
	out, err := h.uc.RegenerateQRCode(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// QRLabel godoc
// @Summary      Etiqueta QR del item (PDF)
// @Tags         items
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del item"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/qr-code [get]
func (h *ItemHandler) QRLabel(c *fiber.Ctx) error {
	content, filename, err := h.reports.ItemLabel(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendFile(c, filename, content)
}

// sendFile responde como descarga; Content-Type sale de la extensión del nombre.
func sendFile(c *fiber.Ctx, filename string, content []byte) error {
	c.Attachment(filename)
	return c.Send(content)
}
