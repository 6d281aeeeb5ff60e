package repository

import (
	"context"
	"database/sql"

	"flowsync/internal/models"
)

const userColumns = "user_id, username, email, full_name, role, created_at"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.UserID, &u.Username, &u.Email, &u.FullName, &u.Role, &u.CreatedAt)
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Role,
	)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return created, nil
}

func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
		email, username,
	).Scan(&exists)
	return exists, mapError(err)
}

// GetByEmail is the only read that loads the password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, email,
	).Scan(&u.UserID, &u.Username, &u.Email, &u.FullName, &u.Role, &u.CreatedAt, &u.PasswordHash)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY full_name, user_id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch models.Patch) (models.User, error) {
	query, args := buildUpdate("users", "user_id", id, patch)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.User{}, mapError(err)
	}
	if err := mustAffect(res); err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return mustAffect(res)
}

// TaskStats counts tasks assigned to the user by status.
func (r *UserRepository) TaskStats(ctx context.Context, id int64) (models.UserTaskStats, error) {
	var s models.UserTaskStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'in_progress'),
		       COUNT(*) FILTER (WHERE status = 'pending')
		FROM tasks
		WHERE assigned_to = $1`, id,
	).Scan(&s.TotalTasks, &s.CompletedTasks, &s.InProgressTasks, &s.PendingTasks)
	return s, mapError(err)
}
