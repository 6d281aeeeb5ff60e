package handlers

import (
	"encoding/json"
	"strings"

	"flowsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createProjectRequest struct {
	ProjectName string  `json:"project_name" validate:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

func (h *Handler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "projects": projects})
}

func (h *Handler) GetProject(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	project, err := h.projects.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "project": project})
}

func (h *Handler) CreateProject(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	req.ProjectName = strings.TrimSpace(req.ProjectName)
	if err := h.check(&req); err != nil {
		return err
	}

	project, err := h.projects.Create(c.UserContext(), caller, service.CreateProjectInput{
		ProjectName: req.ProjectName,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Project created successfully",
		"project": project,
	})
}

func (h *Handler) UpdateProject(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	var body map[string]json.RawMessage
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	project, err := h.projects.Update(c.UserContext(), caller, id, body)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project updated successfully",
		"project": project,
	})
}

func (h *Handler) DeleteProject(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	if err := h.projects.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Project deleted successfully"})
}
