package repository

import (
	"context"
	"database/sql"

	"flowsync/internal/models"
)

const commentSelect = `
	SELECT c.comment_id, c.task_id, c.user_id, c.comment_text, c.created_at, u.username, u.full_name
	FROM task_comments c
	LEFT JOIN users u ON c.user_id = u.user_id`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row rowScanner) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.CommentID, &c.TaskID, &c.UserID, &c.CommentText, &c.CreatedAt, &c.Username, &c.FullName)
	return c, err
}

func (r *CommentRepository) ListForTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+` WHERE c.task_id = $1 ORDER BY c.created_at DESC, c.comment_id DESC`, taskID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.comment_id = $1`, id))
	if err != nil {
		return models.Comment{}, mapError(err)
	}
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO task_comments (task_id, user_id, comment_text) VALUES ($1, $2, $3) RETURNING comment_id`,
		c.TaskID, c.UserID, c.CommentText,
	).Scan(&id)
	if err != nil {
		return models.Comment{}, mapError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_comments WHERE comment_id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return mustAffect(res)
}
