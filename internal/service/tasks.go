package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"flowsync/internal/models"
	"flowsync/internal/stats"
	"flowsync/pkg/apperror"
)

type CreateTaskInput struct {
	Title                string
	Description          *string
	ProjectID            *int64
	AssignedTo           *int64
	Priority             string
	Status               string
	Category             *string
	DueDate              string
	CompletionPercentage int
}

type TaskService struct {
	tasks    TaskStore
	activity *ActivityRecorder
	now      func() time.Time
}

func NewTaskService(tasks TaskStore, activity *ActivityRecorder) *TaskService {
	return &TaskService{tasks: tasks, activity: activity, now: time.Now}
}

func (s *TaskService) List(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	tasks, err := s.tasks.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, storeError(err, "Task not found")
	}
	return task, nil
}

// Create defaults priority to medium and status to pending.
func (s *TaskService) Create(ctx context.Context, caller models.Caller, in CreateTaskInput) (models.Task, error) {
	var fields []apperror.FieldError

	title := strings.TrimSpace(in.Title)
	if title == "" {
		fields = append(fields, apperror.FieldError{Field: "title", Message: "Title is required"})
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(in.Priority) {
		fields = append(fields, apperror.FieldError{Field: "priority", Message: "Invalid priority"})
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if !models.ValidStatus(in.Status) {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "Invalid status"})
	}
	if in.CompletionPercentage < 0 || in.CompletionPercentage > 100 {
		fields = append(fields, apperror.FieldError{Field: "completion_percentage", Message: "Completion percentage must be between 0 and 100"})
	}
	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		fields = append(fields, apperror.FieldError{Field: "due_date", Message: err.Error()})
	}
	if len(fields) > 0 {
		return models.Task{}, apperror.Validation(fields)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		in.Category = nil
	}

	task, err := s.tasks.Create(ctx, models.Task{
		Title:                title,
		Description:          in.Description,
		ProjectID:            in.ProjectID,
		AssignedTo:           in.AssignedTo,
		CreatedBy:            &caller.UserID,
		Priority:             in.Priority,
		Status:               in.Status,
		Category:             in.Category,
		DueDate:              due,
		CompletionPercentage: in.CompletionPercentage,
	})
	if err != nil {
		return models.Task{}, storeError(err, "Task not found")
	}

	s.activity.Record(ctx, caller.UserID, &task.TaskID, task.ProjectID, "created_task", "Created task: "+task.Title)
	return task, nil
}

// Update applies the allow-listed fields of body. Other keys are ignored.
func (s *TaskService) Update(ctx context.Context, caller models.Caller, id int64, body map[string]json.RawMessage) (models.Task, error) {
	patch, err := taskPatch(body)
	if err != nil {
		return models.Task{}, err
	}
	if len(patch) == 0 {
		return models.Task{}, apperror.BadRequest("No valid fields to update")
	}

	task, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return models.Task{}, storeError(err, "Task not found")
	}

	s.activity.Record(ctx, caller.UserID, &task.TaskID, task.ProjectID, "updated_task", "Updated task: "+task.Title)
	return task, nil
}

// Delete logs against the task's project; the task reference is gone.
func (s *TaskService) Delete(ctx context.Context, caller models.Caller, id int64) error {
	task, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return storeError(err, "Task not found")
	}

	s.activity.Record(ctx, caller.UserID, nil, task.ProjectID, "deleted_task", "Deleted task: "+task.Title)
	return nil
}

// StatsOverview is always computed fresh over tasks the user is assigned
// to or created.
func (s *TaskService) StatsOverview(ctx context.Context, userID int64) (models.TaskStats, error) {
	tasks, err := s.tasks.ListForUser(ctx, userID)
	if err != nil {
		return models.TaskStats{}, apperror.Internal(err)
	}
	return stats.Compute(tasks, s.now()), nil
}
