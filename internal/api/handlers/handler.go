package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"flowsync/internal/config"
	"flowsync/internal/middleware"
	"flowsync/internal/models"
	"flowsync/internal/service"
	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// Handler translates HTTP into service calls. It holds no request state.
type Handler struct {
	auth     *service.AuthService
	users    *service.UserService
	tasks    *service.TaskService
	projects *service.ProjectService
	comments *service.CommentService
	activity *service.ActivityRecorder
	validate *validator.Validate
	db       pinger
}

func New(d *config.Dependencies) *Handler {
	h := &Handler{
		auth:     d.Auth,
		users:    d.Users,
		tasks:    d.Tasks,
		projects: d.Projects,
		comments: d.Comments,
		activity: d.Activity,
		validate: d.Validate,
	}
	if d.DB != nil {
		h.db = d.DB
	}
	return h
}

// parseBody decodes the JSON body into req and runs struct validation.
func (h *Handler) parseBody(c *fiber.Ctx, req any) error {
	if err := decodeBody(c, req); err != nil {
		return err
	}
	return h.check(req)
}

func decodeBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		logger.ErrorLogger.Warn("Bad request body", zap.String("path", c.Path()), zap.Error(err))
		return apperror.BadRequest("Invalid request body")
	}
	return nil
}

func (h *Handler) check(req any) error {
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

// messages override the generic text for "field.tag" pairs.
var messages = map[string]string{
	"username.min":              "Username must be at least 3 characters",
	"username.required":         "Username must be at least 3 characters",
	"email.required":            "Invalid email address",
	"email.email":               "Invalid email address",
	"password.min":              "Password must be at least 6 characters",
	"password.required":         "Password is required",
	"full_name.required":        "Full name is required",
	"role.oneof":                "Invalid role",
	"title.required":            "Title is required",
	"priority.oneof":            "Invalid priority",
	"status.oneof":              "Invalid status",
	"completion_percentage.min": "Completion percentage must be between 0 and 100",
	"completion_percentage.max": "Completion percentage must be between 0 and 100",
	"project_name.required":     "Project name is required",
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.BadRequest("Invalid request body")
	}
	fields := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
		}
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: msg})
	}
	return apperror.Validation(fields)
}

func paramID(c *fiber.Ctx, name, label string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid " + label + " ID")
	}
	return int64(id), nil
}

// queryID parses an optional numeric query parameter.
func queryID(c *fiber.Ctx, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperror.Validation([]apperror.FieldError{{Field: name, Message: "must be a valid ID"}})
	}
	return &id, nil
}

func queryLimit(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperror.Validation([]apperror.FieldError{{Field: "limit", Message: "must be a positive number"}})
	}
	return n, nil
}

func callerOf(c *fiber.Ctx) (models.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return models.Caller{}, apperror.Unauthorized("Access denied. No token provided.")
	}
	return caller, nil
}
