package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/domain"
)

// writeError traduce errores de dominio a códigos HTTP y códigos estables.
func writeError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficient.Error(),
			Details: map[string]any{
				"variant_id": insufficient.VariantID,
				"line_index": insufficient.LineIndex,
				"requested":  insufficient.Requested,
			},
		})
	}
	var cannot *domain.CannotCancelError
	if errors.As(err, &cannot) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CANNOT_CANCEL",
			Message: cannot.Reason,
			Details: map[string]any{
				"status": cannot.Status,
				"reason": cannot.Code,
				"no_op":  cannot.NoOp,
			},
		})
	}
	var redemption *domain.InvalidRedemptionError
	if errors.As(err, &redemption) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "INVALID_REDEMPTION",
			Message: redemption.Reason,
		})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrConfirmationRequired):
		status, code = fiber.StatusBadRequest, "CONFIRMATION_REQUIRED"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrEmptyCart):
		status, code = fiber.StatusUnprocessableEntity, "EMPTY_CART"
	case errors.Is(err, domain.ErrInvalidAddress):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_ADDRESS"
	case errors.Is(err, domain.ErrCartClosed):
		status, code = fiber.StatusConflict, "CART_CLOSED"
	case errors.Is(err, domain.ErrNoBranchesAvailable):
		status, code = fiber.StatusConflict, "NO_BRANCHES_AVAILABLE"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		status, code = fiber.StatusConflict, "CONCURRENCY_CONFLICT"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrPersistenceFailure):
		status, code = fiber.StatusServiceUnavailable, "PERSISTENCE_FAILURE"
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError || status == fiber.StatusServiceUnavailable {
		msg = "error interno, intente de nuevo"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
