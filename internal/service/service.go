// Package service holds the FlowSync business rules. Every mutating call
// takes an explicit models.Caller; nothing is read from request state.
package service

import (
	"context"
	"errors"

	"flowsync/internal/models"
	"flowsync/internal/repository"
	"flowsync/pkg/apperror"
)

type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, patch models.Patch) (models.User, error)
	Delete(ctx context.Context, id int64) error
	TaskStats(ctx context.Context, id int64) (models.UserTaskStats, error)
}

type TaskStore interface {
	List(ctx context.Context, f models.TaskFilter) ([]models.Task, error)
	GetByID(ctx context.Context, id int64) (models.Task, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	Create(ctx context.Context, t models.Task) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.Patch) (models.Task, error)
	Delete(ctx context.Context, id int64) (models.Task, error)
}

type ProjectStore interface {
	List(ctx context.Context) ([]models.ProjectSummary, error)
	GetByID(ctx context.Context, id int64) (models.Project, error)
	Create(ctx context.Context, p models.Project) (models.Project, error)
	Update(ctx context.Context, id int64, patch models.Patch) (models.Project, error)
	Delete(ctx context.Context, id int64) (models.Project, error)
}

type CommentStore interface {
	ListForTask(ctx context.Context, taskID int64) ([]models.Comment, error)
	GetByID(ctx context.Context, id int64) (models.Comment, error)
	Create(ctx context.Context, c models.Comment) (models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type ActivityStore interface {
	Create(ctx context.Context, e models.ActivityLog) (models.ActivityLog, error)
	List(ctx context.Context, f models.ActivityFilter) ([]models.ActivityLog, error)
}

type TokenIssuer interface {
	Issue(userID int64, email, role, username string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Broadcaster receives every recorded activity entry.
type Broadcaster interface {
	Publish(v any)
}

// storeError maps repository sentinels onto client-facing errors.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, repository.ErrInvalidReference):
		return apperror.BadRequest("Referenced project or user does not exist")
	case errors.Is(err, repository.ErrInvalidValue):
		return apperror.BadRequest("Invalid field value")
	default:
		return apperror.Internal(err)
	}
}
