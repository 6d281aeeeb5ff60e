package repository

import (
	"context"
	"database/sql"
	"fmt"

	"flowsync/pkg/logger"

	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    username VARCHAR(50) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    full_name VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'team_member' CHECK (role IN ('admin', 'team_member')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS projects (
    project_id SERIAL PRIMARY KEY,
    project_name VARCHAR(100) NOT NULL,
    description TEXT,
    owner_id INT REFERENCES users (user_id) ON DELETE SET NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tasks (
    task_id SERIAL PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    description TEXT,
    project_id INT REFERENCES projects (project_id) ON DELETE SET NULL,
    assigned_to INT REFERENCES users (user_id) ON DELETE SET NULL,
    created_by INT REFERENCES users (user_id) ON DELETE SET NULL,
    priority VARCHAR(10) NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
    status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'in_progress', 'completed')),
    category VARCHAR(50),
    due_date TIMESTAMPTZ,
    completion_percentage INT NOT NULL DEFAULT 0 CHECK (completion_percentage BETWEEN 0 AND 100),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS task_comments (
    comment_id SERIAL PRIMARY KEY,
    task_id INT NOT NULL REFERENCES tasks (task_id) ON DELETE CASCADE,
    user_id INT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
    comment_text TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS activity_logs (
    log_id SERIAL PRIMARY KEY,
    user_id INT REFERENCES users (user_id) ON DELETE SET NULL,
    task_id INT REFERENCES tasks (task_id) ON DELETE SET NULL,
    project_id INT REFERENCES projects (project_id) ON DELETE SET NULL,
    action VARCHAR(50) NOT NULL,
    details TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks (assigned_to);
CREATE INDEX IF NOT EXISTS idx_tasks_created_by ON tasks (created_by);
CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks (project_id);
CREATE INDEX IF NOT EXISTS idx_comments_task_id ON task_comments (task_id);
CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity_logs (created_at DESC);
`

// CreateTableIfNotExists membuat kelima tabel beserta index-nya.
func CreateTableIfNotExists(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	logger.SystemLogger.Info("Tables 'users', 'projects', 'tasks', 'task_comments', 'activity_logs' are ready")
	return nil
}

// CreateAdminUser membuat akun admin awal. Email atau username yang sudah
// ada tidak diubah.
func CreateAdminUser(ctx context.Context, db *sql.DB, username, email, passwordHash, fullName string) error {
	res, err := db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, role)
		 VALUES ($1, $2, $3, $4, 'admin')
		 ON CONFLICT DO NOTHING`,
		username, email, passwordHash, fullName,
	)
	if err != nil {
		return fmt.Errorf("inserting admin user: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.SystemLogger.Info("Admin user created", zap.String("username", username))
	}
	return nil
}

// DeleteAllTable mengosongkan semua tabel dan me-reset sequence. Dipakai oleh test.
func DeleteAllTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`TRUNCATE activity_logs, task_comments, tasks, projects, users RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("truncating tables: %w", err)
	}
	return nil
}
