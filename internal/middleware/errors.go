package middleware

import (
	"errors"

	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponder is the app-wide fiber ErrorHandler. It renders every
// error as {success:false, message, errors?}; internal causes are logged,
// never returned.
func ErrorResponder(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"message": fe.Message,
		})
	}

	appErr := apperror.As(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		logger.ErrorLogger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(appErr.Err),
		)
	}

	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	return c.Status(appErr.Status).JSON(body)
}

// statusOf reports the status ErrorResponder will use for err.
func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperror.As(err).Status
}
