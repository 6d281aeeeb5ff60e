package repository

import (
	"context"
	"database/sql"
	"fmt"

	"flowsync/internal/models"
)

const taskSelect = `
	SELECT t.task_id, t.title, t.description, t.project_id, t.assigned_to, t.created_by,
	       t.priority, t.status, t.category, t.due_date, t.completion_percentage,
	       t.created_at, t.updated_at, t.completed_at,
	       u.username, u.full_name, c.username, p.project_name
	FROM tasks t
	LEFT JOIN users u ON t.assigned_to = u.user_id
	LEFT JOIN users c ON t.created_by = c.user_id
	LEFT JOIN projects p ON t.project_id = p.project_id`

const taskOrder = " ORDER BY t.created_at DESC, t.task_id DESC"

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.TaskID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedTo, &t.CreatedBy,
		&t.Priority, &t.Status, &t.Category, &t.DueDate, &t.CompletionPercentage,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt,
		&t.AssignedUsername, &t.AssignedName, &t.CreatorUsername, &t.ProjectName,
	)
	return t, err
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// List returns tasks matching every non-empty field of f, newest first.
func (r *TaskRepository) List(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	query := taskSelect + " WHERE 1=1"
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		query += fmt.Sprintf(" AND t.priority = $%d", len(args))
	}
	if f.ProjectID != nil {
		args = append(args, *f.ProjectID)
		query += fmt.Sprintf(" AND t.project_id = $%d", len(args))
	}
	if f.AssignedTo != nil {
		args = append(args, *f.AssignedTo)
		query += fmt.Sprintf(" AND t.assigned_to = $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND t.category = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		query += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d)", len(args), len(args))
	}

	query += taskOrder
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.queryTasks(ctx, query, args...)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, taskSelect+" WHERE t.task_id = $1", id))
	if err != nil {
		return models.Task{}, mapError(err)
	}
	return t, nil
}

// ListForUser returns tasks the user is assigned to or created.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) ([]models.Task, error) {
	return r.queryTasks(ctx, taskSelect+" WHERE t.assigned_to = $1 OR t.created_by = $1"+taskOrder, userID)
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	return r.queryTasks(ctx, taskSelect+" WHERE t.project_id = $1"+taskOrder, projectID)
}

func (r *TaskRepository) Create(ctx context.Context, t models.Task) (models.Task, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description, project_id, assigned_to, created_by,
		                    priority, status, category, due_date, completion_percentage, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CASE WHEN $11 THEN NOW() END)
		 RETURNING task_id`,
		t.Title, t.Description, t.ProjectID, t.AssignedTo, t.CreatedBy,
		t.Priority, t.Status, t.Category, t.DueDate, t.CompletionPercentage,
		t.Status == models.StatusCompleted,
	).Scan(&id)
	if err != nil {
		return models.Task{}, mapError(err)
	}
	return r.GetByID(ctx, id)
}

// Update applies patch and bumps updated_at.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch models.Patch) (models.Task, error) {
	query, args := buildUpdate("tasks", "task_id", id, patch, "updated_at = NOW()")
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Task{}, mapError(err)
	}
	if err := mustAffect(res); err != nil {
		return models.Task{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the task and returns what it looked like.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (models.Task, error) {
	var t models.Task
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE task_id = $1 RETURNING task_id, title, project_id`, id,
	).Scan(&t.TaskID, &t.Title, &t.ProjectID)
	if err != nil {
		return models.Task{}, mapError(err)
	}
	return t, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
