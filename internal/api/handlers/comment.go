package handlers

import (
	"flowsync/internal/service"
	"flowsync/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	TaskID      service.NullableID `json:"task_id"`
	CommentText string             `json:"comment_text"`
}

func (h *Handler) ListComments(c *fiber.Ctx) error {
	taskID, err := paramID(c, "taskId", "task")
	if err != nil {
		return err
	}
	comments, err := h.comments.ListForTask(c.UserContext(), taskID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "comments": comments})
}

func (h *Handler) CreateComment(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if req.TaskID.Value == nil {
		return apperror.Validation([]apperror.FieldError{{Field: "task_id", Message: "Valid task ID required"}})
	}

	comment, err := h.comments.Create(c.UserContext(), caller, *req.TaskID.Value, req.CommentText)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment added successfully",
		"comment": comment,
	})
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "comment")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Comment deleted successfully"})
}
