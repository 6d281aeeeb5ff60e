package service

import (
	"context"

	"flowsync/internal/models"
	"flowsync/pkg/apperror"
	"flowsync/pkg/logger"
	"flowsync/pkg/metrics"

	"go.uber.org/zap"
)

const (
	recentActivityLimit  = 20
	defaultActivityLimit = 50
)

// ActivityRecorder appends audit entries and serves the activity feed.
type ActivityRecorder struct {
	store ActivityStore
	feed  Broadcaster
}

// NewActivityRecorder accepts a nil feed when nobody listens live.
func NewActivityRecorder(store ActivityStore, feed Broadcaster) *ActivityRecorder {
	return &ActivityRecorder{store: store, feed: feed}
}

// Record writes one entry. It never fails the caller: errors are logged
// and counted, and the primary operation's result stands.
func (r *ActivityRecorder) Record(ctx context.Context, userID int64, taskID, projectID *int64, action, details string) {
	entry := models.ActivityLog{
		UserID:    &userID,
		TaskID:    taskID,
		ProjectID: projectID,
		Action:    action,
		Details:   &details,
	}

	saved, err := r.store.Create(context.WithoutCancel(ctx), entry)
	if err != nil {
		metrics.ActivityLogFailures.Inc()
		logger.ErrorLogger.Error("Activity log error",
			zap.String("action", action),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return
	}

	logger.AuditLogger.Info(details, zap.String("action", action), zap.Int64("user_id", userID))
	if r.feed != nil {
		r.feed.Publish(saved)
	}
}

func (r *ActivityRecorder) List(ctx context.Context, f models.ActivityFilter) ([]models.ActivityLog, error) {
	if f.Limit <= 0 {
		f.Limit = defaultActivityLimit
	}
	logs, err := r.store.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return logs, nil
}

func (r *ActivityRecorder) Recent(ctx context.Context) ([]models.ActivityLog, error) {
	return r.List(ctx, models.ActivityFilter{Limit: recentActivityLimit})
}
