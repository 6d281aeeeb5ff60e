package service

import (
	"context"
	"encoding/json"

	"flowsync/internal/models"
	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"

	"go.uber.org/zap"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

// Get returns the user with counts of the tasks assigned to them.
func (s *UserService) Get(ctx context.Context, id int64) (models.UserDetail, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.UserDetail{}, storeError(err, "User not found")
	}
	stats, err := s.users.TaskStats(ctx, id)
	if err != nil {
		return models.UserDetail{}, apperror.Internal(err)
	}
	return models.UserDetail{User: user, Stats: stats}, nil
}

// Update is admin-only and touches full_name and role.
func (s *UserService) Update(ctx context.Context, caller models.Caller, id int64, body map[string]json.RawMessage) (models.User, error) {
	if err := requireAdmin(caller, "update_user"); err != nil {
		return models.User{}, err
	}
	patch, err := buildPatch(body, userRules)
	if err != nil {
		return models.User{}, err
	}
	if len(patch) == 0 {
		return models.User{}, apperror.BadRequest("No fields to update")
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return models.User{}, storeError(err, "User not found")
	}
	logger.AuditLogger.Info("User updated", zap.Int64("user_id", id), zap.Int64("by", caller.UserID))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, caller models.Caller, id int64) error {
	if err := requireAdmin(caller, "delete_user"); err != nil {
		return err
	}
	if err := forbidSelfDelete(caller, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError(err, "User not found")
	}
	logger.AuditLogger.Info("User deleted", zap.Int64("user_id", id), zap.Int64("by", caller.UserID))
	return nil
}
