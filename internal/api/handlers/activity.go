package handlers

import (
	"flowsync/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListActivity(c *fiber.Ctx) error {
	projectID, err := queryID(c, "project_id")
	if err != nil {
		return err
	}
	userID, err := queryID(c, "user_id")
	if err != nil {
		return err
	}
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}

	logs, err := h.activity.List(c.UserContext(), models.ActivityFilter{
		ProjectID: projectID,
		UserID:    userID,
		Limit:     limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "logs": logs})
}

func (h *Handler) RecentActivity(c *fiber.Ctx) error {
	logs, err := h.activity.Recent(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "logs": logs})
}
