package models

import (
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleTeamMember = "team_member"

	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	ProjectStatusActive = "active"
)

// Caller is the identity verified from the token, passed explicitly
// into every service operation.
type Caller struct {
	UserID   int64
	Role     string
	Username string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTeamMember
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type User struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserTaskStats counts tasks assigned to a user.
type UserTaskStats struct {
	TotalTasks      int `json:"total_tasks"`
	CompletedTasks  int `json:"completed_tasks"`
	InProgressTasks int `json:"in_progress_tasks"`
	PendingTasks    int `json:"pending_tasks"`
}

type UserDetail struct {
	User
	Stats UserTaskStats `json:"stats"`
}

type Project struct {
	ProjectID     int64     `json:"project_id"`
	ProjectName   string    `json:"project_name"`
	Description   *string   `json:"description"`
	OwnerID       *int64    `json:"owner_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	OwnerUsername *string   `json:"owner_username,omitempty"`
	OwnerName     *string   `json:"owner_name,omitempty"`
}

type ProjectSummary struct {
	Project
	TaskCount      int `json:"task_count"`
	CompletedTasks int `json:"completed_tasks"`
}

type ProjectDetail struct {
	Project
	Tasks []Task `json:"tasks"`
}

type Task struct {
	TaskID               int64      `json:"task_id"`
	Title                string     `json:"title"`
	Description          *string    `json:"description"`
	ProjectID            *int64     `json:"project_id"`
	AssignedTo           *int64     `json:"assigned_to"`
	CreatedBy            *int64     `json:"created_by"`
	Priority             string     `json:"priority"`
	Status               string     `json:"status"`
	Category             *string    `json:"category"`
	DueDate              *time.Time `json:"due_date"`
	CompletionPercentage int        `json:"completion_percentage"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	CompletedAt          *time.Time `json:"completed_at"`

	AssignedUsername *string `json:"assigned_username,omitempty"`
	AssignedName     *string `json:"assigned_name,omitempty"`
	CreatorUsername  *string `json:"creator_username,omitempty"`
	ProjectName      *string `json:"project_name,omitempty"`
}

type Comment struct {
	CommentID   int64     `json:"comment_id"`
	TaskID      int64     `json:"task_id"`
	UserID      int64     `json:"user_id"`
	CommentText string    `json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`
	Username    *string   `json:"username,omitempty"`
	FullName    *string   `json:"full_name,omitempty"`
}

type ActivityLog struct {
	LogID     int64     `json:"log_id"`
	UserID    *int64    `json:"user_id"`
	TaskID    *int64    `json:"task_id"`
	ProjectID *int64    `json:"project_id"`
	Action    string    `json:"action"`
	Details   *string   `json:"details"`
	CreatedAt time.Time `json:"created_at"`

	Username    *string `json:"username,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	TaskTitle   *string `json:"task_title,omitempty"`
	ProjectName *string `json:"project_name,omitempty"`
}

// TaskFilter fields are ANDed; zero values mean "no filter".
type TaskFilter struct {
	Status     string
	Priority   string
	Category   string
	Search     string
	ProjectID  *int64
	AssignedTo *int64
	Limit      int
}

type ActivityFilter struct {
	ProjectID *int64
	UserID    *int64
	Limit     int
}

// Change is one column assignment in a partial update. Now sets the
// column to the database clock instead of Value.
type Change struct {
	Column string
	Value  any
	Now    bool
}

type Patch []Change

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type TaskStats struct {
	ByStatus          []StatusCount   `json:"byStatus"`
	ByPriority        []PriorityCount `json:"byPriority"`
	Overdue           int             `json:"overdue"`
	CompletedThisWeek int             `json:"completedThisWeek"`
}
