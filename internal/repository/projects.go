package repository

import (
	"context"
	"database/sql"

	"flowsync/internal/models"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns every project with owner names and task counters, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]models.ProjectSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.project_id, p.project_name, p.description, p.owner_id, p.status, p.created_at,
		       u.username, u.full_name,
		       COUNT(t.task_id),
		       COUNT(t.task_id) FILTER (WHERE t.status = 'completed')
		FROM projects p
		LEFT JOIN users u ON p.owner_id = u.user_id
		LEFT JOIN tasks t ON p.project_id = t.project_id
		GROUP BY p.project_id, u.user_id
		ORDER BY p.created_at DESC, p.project_id DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	projects := []models.ProjectSummary{}
	for rows.Next() {
		var p models.ProjectSummary
		if err := rows.Scan(
			&p.ProjectID, &p.ProjectName, &p.Description, &p.OwnerID, &p.Status, &p.CreatedAt,
			&p.OwnerUsername, &p.OwnerName, &p.TaskCount, &p.CompletedTasks,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (models.Project, error) {
	var p models.Project
	err := r.db.QueryRowContext(ctx, `
		SELECT p.project_id, p.project_name, p.description, p.owner_id, p.status, p.created_at,
		       u.username, u.full_name
		FROM projects p
		LEFT JOIN users u ON p.owner_id = u.user_id
		WHERE p.project_id = $1`, id,
	).Scan(&p.ProjectID, &p.ProjectName, &p.Description, &p.OwnerID, &p.Status, &p.CreatedAt,
		&p.OwnerUsername, &p.OwnerName)
	if err != nil {
		return models.Project{}, mapError(err)
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p models.Project) (models.Project, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO projects (project_name, description, owner_id, status)
		 VALUES ($1, $2, $3, $4) RETURNING project_id`,
		p.ProjectName, p.Description, p.OwnerID, p.Status,
	).Scan(&id)
	if err != nil {
		return models.Project{}, mapError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, patch models.Patch) (models.Project, error) {
	query, args := buildUpdate("projects", "project_id", id, patch)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Project{}, mapError(err)
	}
	if err := mustAffect(res); err != nil {
		return models.Project{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the project; its tasks survive with project_id cleared.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (models.Project, error) {
	var p models.Project
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM projects WHERE project_id = $1 RETURNING project_id, project_name`, id,
	).Scan(&p.ProjectID, &p.ProjectName)
	if err != nil {
		return models.Project{}, mapError(err)
	}
	return p, nil
}
