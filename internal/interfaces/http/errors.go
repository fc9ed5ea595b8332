package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// errorResponse traduce un error de dominio a status HTTP y cuerpo.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		validation *domain.ValidationError
		stock      *domain.InsufficientStockError
		transition *domain.InvalidStateTransitionError
		fe         *fiber.Error
	)
	switch {
	case errors.As(err, &validation):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: validation.Error()}
		if validation.Field != "" {
			resp.Details = map[string]any{"field": validation.Field}
		}
		return fiber.StatusBadRequest, resp
	case errors.Is(err, domain.ErrNoItemsApproved):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "NO_ITEMS_APPROVED", Message: domain.ErrNoItemsApproved.Error()}
	case errors.As(err, &stock):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stock.Error(),
			Details: map[string]any{
				"item_id":     stock.ItemID,
				"location_id": stock.LocationID,
				"available":   stock.Available,
				"requested":   stock.Requested,
			},
		}
	case errors.As(err, &transition):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INVALID_STATE",
			Message: transition.Error(),
			Details: map[string]any{"from": transition.From, "to": transition.To},
		}
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: domain.ErrConcurrencyConflict.Error(), Retryable: true}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: domain.ErrForbidden.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: domain.ErrUnauthorized.Error()}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrIntegrity):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTEGRITY", Message: domain.ErrIntegrity.Error()}
	case errors.As(err, &fe):
		return fe.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

// ErrorHandler manejador de errores de Fiber: todo error devuelto por un handler pasa por aquí.
// Los 5xx se registran con el detalle; al cliente solo llega el código.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("code", body.Code).
				Msg("error en petición")
		}
		return c.Status(status).JSON(body)
	}
}
