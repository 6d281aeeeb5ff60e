package stats

import (
	"testing"
	"time"

	"flowsync/internal/models"

	"github.com/stretchr/testify/assert"
)

func at(t time.Time) *time.Time { return &t }

func TestCompute(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{Status: "pending", Priority: "high", DueDate: at(now.Add(-time.Hour))},
		{Status: "pending", Priority: "low", DueDate: at(now.Add(time.Hour))},
		{Status: "in_progress", Priority: "high", DueDate: at(now.Add(-48 * time.Hour))},
		{Status: "completed", Priority: "medium", DueDate: at(now.Add(-time.Hour)), CompletedAt: at(now.Add(-24 * time.Hour))},
		{Status: "completed", Priority: "high", CompletedAt: at(now.Add(-8 * 24 * time.Hour))},
		{Status: "completed", Priority: "high", CompletedAt: at(now.Add(-7 * 24 * time.Hour))},
	}

	got := Compute(tasks, now)

	assert.Equal(t, []models.StatusCount{
		{Status: "pending", Count: 2},
		{Status: "in_progress", Count: 1},
		{Status: "completed", Count: 3},
	}, got.ByStatus)
	assert.Equal(t, []models.PriorityCount{
		{Priority: "low", Count: 1},
		{Priority: "medium", Count: 1},
		{Priority: "high", Count: 4},
	}, got.ByPriority)
	assert.Equal(t, 2, got.Overdue)
	assert.Equal(t, 2, got.CompletedThisWeek)
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil, time.Now())

	assert.NotNil(t, got.ByStatus)
	assert.NotNil(t, got.ByPriority)
	assert.Empty(t, got.ByStatus)
	assert.Zero(t, got.Overdue)
	assert.Zero(t, got.CompletedThisWeek)
}

func TestCompute_CompletingRemovesFromOverdue(t *testing.T) {
	now := time.Now()
	task := models.Task{Status: "pending", Priority: "medium", DueDate: at(now.AddDate(0, 0, -3))}

	assert.Equal(t, 1, Compute([]models.Task{task}, now).Overdue)

	task.Status = "completed"
	task.CompletedAt = at(now)
	got := Compute([]models.Task{task}, now)
	assert.Zero(t, got.Overdue)
	assert.Equal(t, 1, got.CompletedThisWeek)
}

func TestOrdered_UnknownKeysLast(t *testing.T) {
	keys := ordered(map[string]int{"blocked": 1, "pending": 2, "archived": 1, "completed": 0}, statusOrder)
	assert.Equal(t, []string{"pending", "archived", "blocked"}, keys)
}
