package serverutils

import (
	"errors"

	"digestly-be/internal/pkg/logger"
	"digestly-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler renders every error returned by a handler as
// {"success": false, "error": "...", "code": "<kind>"}.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			kind := apperror.KindFromStatus(fiberErr.Code)
			if fiberErr.Code >= fiber.StatusInternalServerError {
				kind = apperror.KindInternal
			}
			return ctx.Status(fiberErr.Code).JSON(ErrorResponseBody{
				Success: false,
				Error:   fiberErr.Message,
				Code:    string(kind),
			})
		}

		kind := apperror.KindOf(err)
		status := apperror.HTTPStatus(kind)
		message := err.Error()

		var appErr *apperror.Error
		if errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err,
			})
			message = "internal server error"
		}

		return ctx.Status(status).JSON(ErrorResponseBody{
			Success: false,
			Error:   message,
			Code:    string(kind),
		})
	}
}
