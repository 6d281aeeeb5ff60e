package handlers

import (
	"context"
	"time"

	"flowsync/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to FlowSync API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"auth":     "/api/auth",
			"tasks":    "/api/tasks",
			"projects": "/api/projects",
			"comments": "/api/comments",
			"activity": "/api/activity",
			"users":    "/api/users",
		},
	})
}

// Health also pings the database when one is configured.
func (h *Handler) Health(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.ErrorLogger.Error("Health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": "Database unavailable",
			})
		}
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "FlowSync API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Route not found",
	})
}
