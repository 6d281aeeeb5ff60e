package service

import (
	"context"
	"errors"
	"strings"

	"flowsync/internal/models"
	"flowsync/internal/repository"
	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"

	"go.uber.org/zap"
)

const invalidCredentials = "Invalid email or password"

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer

	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash string
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	dummy, _ := hasher.Hash("flowsync-login-timing")
	return &AuthService{users: users, hasher: hasher, tokens: tokens, dummyHash: dummy}
}

// Register creates a user and signs them in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleTeamMember
	}
	if !models.ValidRole(in.Role) {
		return models.User{}, "", apperror.Validation([]apperror.FieldError{{Field: "role", Message: "Invalid role"}})
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return models.User{}, "", apperror.Internal(err)
	}
	if exists {
		logger.SecurityLogger.Warn("Duplicate registration", zap.String("username", in.Username))
		return models.User{}, "", apperror.Conflict("User with this email or username already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, "", apperror.Internal(err)
	}

	user, err := s.users.Create(ctx, models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
	})
	if err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, "", apperror.Conflict("User with this email or username already exists")
		}
		return models.User{}, "", apperror.Internal(err)
	}

	token, err := s.tokens.Issue(user.UserID, user.Email, user.Role, user.Username)
	if err != nil {
		return models.User{}, "", apperror.Internal(err)
	}
	logger.AuditLogger.Info("User registered", zap.Int64("user_id", user.UserID))
	return user, token, nil
}

// Login returns the same error for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return models.User{}, "", apperror.Internal(err)
		}
		s.hasher.Verify(s.dummyHash, password)
		logger.SecurityLogger.Warn("Login failed", zap.String("reason", "unknown email"))
		return models.User{}, "", apperror.Unauthorized(invalidCredentials)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		logger.SecurityLogger.Warn("Login failed", zap.String("reason", "wrong password"), zap.Int64("user_id", user.UserID))
		return models.User{}, "", apperror.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.Issue(user.UserID, user.Email, user.Role, user.Username)
	if err != nil {
		return models.User{}, "", apperror.Internal(err)
	}
	user.PasswordHash = ""
	logger.AuditLogger.Info("User logged in", zap.Int64("user_id", user.UserID))
	return user, token, nil
}

// CurrentUser re-reads the caller so a deleted account is noticed.
func (s *AuthService) CurrentUser(ctx context.Context, caller models.Caller) (models.User, error) {
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return models.User{}, storeError(err, "User not found")
	}
	return user, nil
}
