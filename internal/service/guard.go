package service

import (
	"flowsync/internal/models"
	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"

	"go.uber.org/zap"
)

func requireAdmin(caller models.Caller, action string) error {
	if caller.IsAdmin() {
		return nil
	}
	logger.SecurityLogger.Warn("Admin privileges required",
		zap.Int64("user_id", caller.UserID),
		zap.String("action", action),
	)
	return apperror.Forbidden("Access denied. Admin privileges required.")
}

// canDeleteComment: author atau admin.
func canDeleteComment(caller models.Caller, c models.Comment) error {
	if caller.IsAdmin() || c.UserID == caller.UserID {
		return nil
	}
	logger.SecurityLogger.Warn("Comment delete denied",
		zap.Int64("user_id", caller.UserID),
		zap.Int64("comment_id", c.CommentID),
	)
	return apperror.Forbidden("Not authorized to delete this comment")
}

func forbidSelfDelete(caller models.Caller, id int64) error {
	if caller.UserID == id {
		return apperror.BadRequest("Cannot delete your own account")
	}
	return nil
}
