package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flowsync/internal/models"
	"flowsync/pkg/apperror"
	"flowsync/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(tokens TokenVerifier) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorResponder})
	app.Use(RequestLogger())
	app.Get("/me", UseToken(tokens), func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return errors.New("no caller")
		}
		return c.JSON(fiber.Map{"success": true, "user_id": caller.UserID, "role": caller.Role})
	})
	app.Get("/ws", UseQueryToken(tokens), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("secret internals")
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return apperror.Validation([]apperror.FieldError{{Field: "title", Message: "Title is required"}})
	})
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestUseToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	good, err := tokens.Issue(5, "ana@example.com", models.RoleAdmin, "ana")
	require.NoError(t, err)
	foreign, err := token.NewManager("other", time.Hour).Issue(5, "ana@example.com", models.RoleAdmin, "ana")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"scheme only", "Bearer", http.StatusUnauthorized, "Access denied. No token provided."},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Access denied. No token provided."},
		{"garbage token", "Bearer not-a-jwt", http.StatusForbidden, "Invalid or expired token."},
		{"wrong secret", "Bearer " + foreign, http.StatusForbidden, "Invalid or expired token."},
		{"valid", "Bearer " + good, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + good, http.StatusOK, ""},
	}

	app := newTestApp(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp)
			if tt.status == http.StatusOK {
				assert.Equal(t, float64(5), body["user_id"])
				assert.Equal(t, "admin", body["role"])
				return
			}
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestUseQueryToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	good, err := tokens.Issue(1, "a@example.com", models.RoleTeamMember, "a")
	require.NoError(t, err)
	app := newTestApp(tokens)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token="+good, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequestLogger_RecoversPanicWithoutLeaking(t *testing.T) {
	app := newTestApp(token.NewManager("s", time.Hour))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body["message"], "secret")
}

func TestErrorResponder_FieldErrors(t *testing.T) {
	app := newTestApp(token.NewManager("s", time.Hour))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/invalid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].(map[string]any)["field"])
}

func TestErrorResponder_FiberErrors(t *testing.T) {
	app := newTestApp(token.NewManager("s", time.Hour))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, false, decode(t, resp)["success"])
}
