package service

import (
	"context"
	"errors"
	"strings"

	"flowsync/internal/models"
	"flowsync/internal/repository"
	"flowsync/pkg/apperror"
)

type CommentService struct {
	comments CommentStore
	tasks    TaskStore
	activity *ActivityRecorder
}

func NewCommentService(comments CommentStore, tasks TaskStore, activity *ActivityRecorder) *CommentService {
	return &CommentService{comments: comments, tasks: tasks, activity: activity}
}

func (s *CommentService) ListForTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	comments, err := s.comments.ListForTask(ctx, taskID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return comments, nil
}

func (s *CommentService) Create(ctx context.Context, caller models.Caller, taskID int64, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, apperror.Validation([]apperror.FieldError{{Field: "comment_text", Message: "Comment text is required"}})
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Comment{}, storeError(err, "Task not found")
	}

	comment, err := s.comments.Create(ctx, models.Comment{
		TaskID:      taskID,
		UserID:      caller.UserID,
		CommentText: text,
	})
	if err != nil {
		// task deleted between the lookup and the insert
		if errors.Is(err, repository.ErrInvalidReference) {
			return models.Comment{}, apperror.NotFound("Task not found")
		}
		return models.Comment{}, apperror.Internal(err)
	}

	s.activity.Record(ctx, caller.UserID, &task.TaskID, task.ProjectID, "added_comment", "Commented on task: "+task.Title)
	return comment, nil
}

// Delete is allowed for the comment's author and for admins.
func (s *CommentService) Delete(ctx context.Context, caller models.Caller, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Comment not found")
	}
	if err := canDeleteComment(caller, comment); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return storeError(err, "Comment not found")
	}
	return nil
}
