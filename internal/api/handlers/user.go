package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// UpdateUser hanya untuk admin; hanya full_name dan role yang bisa diubah.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}
	var body map[string]json.RawMessage
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), caller, id, body)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}
