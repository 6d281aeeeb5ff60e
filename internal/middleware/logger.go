package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger recovers panics as a generic 500 and writes one line per
// request to the request log.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLogger.Error(fmt.Sprintf("Recovered from panic: %v", r),
					zap.String("stack", string(debug.Stack())),
					zap.Any("request_id", c.Locals("requestid")),
				)
				err = apperror.Internal(fmt.Errorf("panic: %v", r))
			}
		}()

		err = c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		logger.RequestLogger.Info("Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.Any("request_id", c.Locals("requestid")),
		)
		return err
	}
}
