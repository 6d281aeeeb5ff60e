package service

import (
	"context"
	"encoding/json"
	"strings"

	"flowsync/internal/models"
	"flowsync/pkg/apperror"
)

type CreateProjectInput struct {
	ProjectName string
	Description *string
	Status      string
}

type ProjectService struct {
	projects ProjectStore
	tasks    TaskStore
	activity *ActivityRecorder
}

func NewProjectService(projects ProjectStore, tasks TaskStore, activity *ActivityRecorder) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, activity: activity}
}

func (s *ProjectService) List(ctx context.Context) ([]models.ProjectSummary, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return projects, nil
}

// Get returns the project with its tasks, newest first.
func (s *ProjectService) Get(ctx context.Context, id int64) (models.ProjectDetail, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return models.ProjectDetail{}, storeError(err, "Project not found")
	}
	tasks, err := s.tasks.ListByProject(ctx, id)
	if err != nil {
		return models.ProjectDetail{}, apperror.Internal(err)
	}
	return models.ProjectDetail{Project: project, Tasks: tasks}, nil
}

func (s *ProjectService) Create(ctx context.Context, caller models.Caller, in CreateProjectInput) (models.Project, error) {
	name := strings.TrimSpace(in.ProjectName)
	if name == "" {
		return models.Project{}, apperror.Validation([]apperror.FieldError{{Field: "project_name", Message: "Project name is required"}})
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.ProjectStatusActive
	}

	project, err := s.projects.Create(ctx, models.Project{
		ProjectName: name,
		Description: in.Description,
		OwnerID:     &caller.UserID,
		Status:      status,
	})
	if err != nil {
		return models.Project{}, storeError(err, "Project not found")
	}

	s.activity.Record(ctx, caller.UserID, nil, &project.ProjectID, "created_project", "Created project: "+project.ProjectName)
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, caller models.Caller, id int64, body map[string]json.RawMessage) (models.Project, error) {
	patch, err := buildPatch(body, projectRules)
	if err != nil {
		return models.Project{}, err
	}
	if len(patch) == 0 {
		return models.Project{}, apperror.BadRequest("No fields to update")
	}

	project, err := s.projects.Update(ctx, id, patch)
	if err != nil {
		return models.Project{}, storeError(err, "Project not found")
	}

	s.activity.Record(ctx, caller.UserID, nil, &project.ProjectID, "updated_project", "Updated project: "+project.ProjectName)
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, caller models.Caller, id int64) error {
	project, err := s.projects.Delete(ctx, id)
	if err != nil {
		return storeError(err, "Project not found")
	}

	s.activity.Record(ctx, caller.UserID, nil, nil, "deleted_project", "Deleted project: "+project.ProjectName)
	return nil
}
