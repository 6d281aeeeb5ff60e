package repository

import (
	"context"
	"database/sql"
	"fmt"

	"flowsync/internal/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends one entry and returns it with its id and timestamp.
func (r *ActivityRepository) Create(ctx context.Context, e models.ActivityLog) (models.ActivityLog, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO activity_logs (user_id, task_id, project_id, action, details)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING log_id, created_at`,
		e.UserID, e.TaskID, e.ProjectID, e.Action, e.Details,
	).Scan(&e.LogID, &e.CreatedAt)
	if err != nil {
		return models.ActivityLog{}, mapError(err)
	}
	return e, nil
}

// List returns entries newest first, enriched with user, task and project names.
func (r *ActivityRepository) List(ctx context.Context, f models.ActivityFilter) ([]models.ActivityLog, error) {
	query := `
		SELECT a.log_id, a.user_id, a.task_id, a.project_id, a.action, a.details, a.created_at,
		       u.username, u.full_name, t.title, p.project_name
		FROM activity_logs a
		LEFT JOIN users u ON a.user_id = u.user_id
		LEFT JOIN tasks t ON a.task_id = t.task_id
		LEFT JOIN projects p ON a.project_id = p.project_id
		WHERE 1=1`
	args := []any{}

	if f.ProjectID != nil {
		args = append(args, *f.ProjectID)
		query += fmt.Sprintf(" AND a.project_id = $%d", len(args))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		query += fmt.Sprintf(" AND a.user_id = $%d", len(args))
	}
	query += " ORDER BY a.created_at DESC, a.log_id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var a models.ActivityLog
		if err := rows.Scan(
			&a.LogID, &a.UserID, &a.TaskID, &a.ProjectID, &a.Action, &a.Details, &a.CreatedAt,
			&a.Username, &a.FullName, &a.TaskTitle, &a.ProjectName,
		); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
