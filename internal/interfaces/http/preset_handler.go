package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// PresetHandler maneja las plantillas de requisición y sus estadísticas.
type PresetHandler struct {
	uc *usecase.PresetUseCase
}

// NewPresetHandler construye el handler.
func NewPresetHandler(uc *usecase.PresetUseCase) *PresetHandler {
	return &PresetHandler{uc: uc}
}

// Create godoc
// @Summary      Crear preset
// @Tags         presets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PresetRequest  true  "Nombre, tipo y líneas"
// @Success      201   {object}  dto.PresetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-requests/presets [post]
func (h *PresetHandler) Create(c *fiber.Ctx) error {
	var in dto.PresetRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar preset
// @Description  Las solicitudes creadas antes no cambian.
// @Tags         presets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "ID del preset"
// @Param        body  body      dto.PresetRequest  true  "Nombre, tipo y líneas"
// @Success      200   {object}  dto.PresetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests/presets/{id} [put]
func (h *PresetHandler) Update(c *fiber.Ctx) error {
	var in dto.PresetRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener preset con detalle de items
// @Tags         presets
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del preset"
// @Success      200  {object}  dto.PresetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/presets/{id} [get]
func (h *PresetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar presets
// @Tags         presets
// @Security     Bearer
// @Produce      json
// @Param        include_inactive  query  bool  false  "Incluir inactivos"
// @Success      200  {array}  dto.PresetResponse
// @Router       /api/material-requests/presets [get]
func (h *PresetHandler) List(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", c.QueryBool("includeInactive", false))
	out, err := h.uc.List(c.UserContext(), includeInactive)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar preset
// @Tags         presets
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del preset"
// @Success      200  {object}  dto.PresetResponse
// @Router       /api/material-requests/presets/{id} [delete]
func (h *PresetHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.uc.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Expand godoc
// @Summary      Expandir preset
// @Description  Devuelve copia de las líneas para armar el borrador de una solicitud.
// @Tags         presets
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del preset"
// @Success      200  {object}  dto.PresetExpandResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/material-requests/presets/{id}/expand [get]
func (h *PresetHandler) Expand(c *fiber.Ctx) error {
	out, err := h.uc.Expand(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Usage godoc
// @Summary      Uso de presets
// @Tags         presets
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PresetStatsResponse
// @Router       /api/material-requests/presets/stats/usage [get]
func (h *PresetHandler) Usage(c *fiber.Ctx) error {
	out, err := h.uc.Usage(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// TopItems godoc
// @Summary      Items más pedidos vía presets
// @Tags         presets
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad"  default(10)
// @Success      200  {array}  dto.TopItemResponse
// @Router       /api/material-requests/presets/stats/top-items [get]
func (h *PresetHandler) TopItems(c *fiber.Ctx) error {
	out, err := h.uc.TopItems(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Period godoc
// @Summary      Uso de presets en un período
// @Tags         presets
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  true  "YYYY-MM-DD o RFC3339"
// @Param        end_date    query  string  true  "YYYY-MM-DD o RFC3339 (un día completo si es solo fecha)"
// @Success      200  {object}  dto.PresetStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/material-requests/presets/stats/period [get]
func (h *PresetHandler) Period(c *fiber.Ctx) error {
	start, err := parseDate("start_date", firstQuery(c, "start_date", "startDate"), false)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", firstQuery(c, "end_date", "endDate"), true)
	if err != nil {
		return err
	}
	out, err := h.uc.Period(c.UserContext(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func firstQuery(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

// parseDate acepta RFC3339 o fecha sola. Con endOfDay una fecha sola cubre el día completo.
// Vacío devuelve el tiempo cero y la validación de obligatoriedad queda en el servicio.
func parseDate(field, value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "formato de fecha inválido, use YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
