package middleware

import (
	"errors"
	"strings"

	"flowsync/internal/models"
	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"
	"flowsync/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const callerKey = "caller"

type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// UseToken requires "Authorization: Bearer <token>". A missing token is
// 401, a bad or expired one is 403.
func UseToken(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authenticate(c, tokens, bearerToken(c.Get(fiber.HeaderAuthorization)))
	}
}

// UseQueryToken reads the token from ?token=, for browser websocket
// clients that cannot set headers.
func UseQueryToken(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("token")
		if raw == "" {
			raw = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		return authenticate(c, tokens, raw)
	}
}

func authenticate(c *fiber.Ctx, tokens TokenVerifier, raw string) error {
	if raw == "" {
		return apperror.Unauthorized("Access denied. No token provided.")
	}
	claims, err := tokens.Verify(raw)
	if err != nil {
		logger.SecurityLogger.Warn("Rejected token",
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Bool("expired", errors.Is(err, token.ErrExpiredToken)),
		)
		return apperror.Forbidden("Invalid or expired token.")
	}
	c.Locals(callerKey, models.Caller{
		UserID:   claims.UserID,
		Role:     claims.Role,
		Username: claims.Username,
	})
	return c.Next()
}

func bearerToken(header string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// CallerFrom returns the identity stored by UseToken.
func CallerFrom(c *fiber.Ctx) (models.Caller, bool) {
	caller, ok := c.Locals(callerKey).(models.Caller)
	return caller, ok
}
