package handlers

import (
	"encoding/json"
	"strings"

	"flowsync/internal/models"
	"flowsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createTaskRequest struct {
	Title                string             `json:"title" validate:"required"`
	Description          *string            `json:"description"`
	ProjectID            service.NullableID `json:"project_id"`
	AssignedTo           service.NullableID `json:"assigned_to"`
	Priority             string             `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status               string             `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Category             *string            `json:"category"`
	DueDate              *string            `json:"due_date"`
	CompletionPercentage int                `json:"completion_percentage" validate:"min=0,max=100"`
}

// ListTasks supports status, priority, project_id, assigned_to, category,
// search and limit filters.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	projectID, err := queryID(c, "project_id")
	if err != nil {
		return err
	}
	assignedTo, err := queryID(c, "assigned_to")
	if err != nil {
		return err
	}
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.List(c.UserContext(), models.TaskFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		Category:   c.Query("category"),
		Search:     strings.TrimSpace(c.Query("search")),
		ProjectID:  projectID,
		AssignedTo: assignedTo,
		Limit:      limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "tasks": tasks})
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "task")
	if err != nil {
		return err
	}
	task, err := h.tasks.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "task": task})
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := h.check(&req); err != nil {
		return err
	}

	in := service.CreateTaskInput{
		Title:                req.Title,
		Description:          req.Description,
		ProjectID:            req.ProjectID.Value,
		AssignedTo:           req.AssignedTo.Value,
		Priority:             req.Priority,
		Status:               req.Status,
		Category:             req.Category,
		CompletionPercentage: req.CompletionPercentage,
	}
	if req.DueDate != nil {
		in.DueDate = *req.DueDate
	}

	task, err := h.tasks.Create(c.UserContext(), caller, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Task created successfully",
		"task":    task,
	})
}

// UpdateTask applies a partial update; keys outside the allow-list are ignored.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "task")
	if err != nil {
		return err
	}
	var body map[string]json.RawMessage
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	task, err := h.tasks.Update(c.UserContext(), caller, id, body)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "task")
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Task deleted successfully"})
}

// TaskStats defaults to the caller; ?user_id= looks at someone else.
func (h *Handler) TaskStats(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	userID := caller.UserID
	override, err := queryID(c, "user_id")
	if err != nil {
		return err
	}
	if override != nil {
		userID = *override
	}

	stats, err := h.tasks.StatsOverview(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}
