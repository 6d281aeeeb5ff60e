package repository

import (
	"testing"

	"flowsync/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildUpdate(t *testing.T) {
	patch := models.Patch{
		{Column: "title", Value: "Write docs"},
		{Column: "status", Value: "completed"},
		{Column: "completed_at", Now: true},
		{Column: "assigned_to", Value: nil},
	}

	query, args := buildUpdate("tasks", "task_id", 7, patch, "updated_at = NOW()")

	assert.Equal(t,
		"UPDATE tasks SET title = $1, status = $2, completed_at = NOW(), assigned_to = $3, updated_at = NOW() WHERE task_id = $4",
		query)
	assert.Equal(t, []any{"Write docs", "completed", nil, int64(7)}, args)
}

func TestBuildUpdate_SingleColumn(t *testing.T) {
	query, args := buildUpdate("users", "user_id", 3, models.Patch{{Column: "role", Value: "admin"}})

	assert.Equal(t, "UPDATE users SET role = $1 WHERE user_id = $2", query)
	assert.Equal(t, []any{"admin", int64(3)}, args)
}
