package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"flowsync/internal/models"
	"flowsync/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func hasColumn(p models.Patch, column string) bool {
	for _, c := range p {
		if c.Column == column {
			return true
		}
	}
	return false
}

type fakeHasher struct{ calls int }

func (h *fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (h *fakeHasher) Verify(hash, p string) bool {
	h.calls++
	return hash == "hashed:"+p
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID int64, email, role, username string) (string, error) {
	return "token-" + username, nil
}

type fakeUsers struct {
	mu     sync.Mutex
	users  map[int64]models.User
	nextID int64
	stats  models.UserTaskStats
	// raceDuplicate makes Create fail as if a concurrent insert won.
	raceDuplicate bool
}

func newFakeUsers(seed ...models.User) *fakeUsers {
	f := &fakeUsers{users: map[int64]models.User{}}
	for _, u := range seed {
		f.nextID++
		u.UserID = f.nextID
		f.users[u.UserID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raceDuplicate {
		return models.User{}, repository.ErrDuplicate
	}
	f.nextID++
	u.UserID = f.nextID
	u.CreatedAt = time.Now()
	f.users[u.UserID] = u
	u.PasswordHash = ""
	return u, nil
}

func (f *fakeUsers) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeUsers) Update(ctx context.Context, id int64, patch models.Patch) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	for _, ch := range patch {
		switch ch.Column {
		case "full_name":
			u.FullName = ch.Value.(string)
		case "role":
			u.Role = ch.Value.(string)
		}
	}
	f.users[id] = u
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) TaskStats(context.Context, int64) (models.UserTaskStats, error) {
	return f.stats, nil
}

type fakeTasks struct {
	tasks  map[int64]models.Task
	nextID int64
	now    func() time.Time
	// lastPatch is what the most recent Update received.
	lastPatch models.Patch
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{tasks: map[int64]models.Task{}, now: time.Now}
}

func (f *fakeTasks) List(_ context.Context, flt models.TaskFilter) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range f.tasks {
		if flt.Status != "" && t.Status != flt.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID > out[j].TaskID })
	return out, nil
}

func (f *fakeTasks) GetByID(_ context.Context, id int64) (models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return models.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTasks) ListForUser(_ context.Context, userID int64) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range f.tasks {
		if (t.AssignedTo != nil && *t.AssignedTo == userID) || (t.CreatedBy != nil && *t.CreatedBy == userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) ListByProject(_ context.Context, projectID int64) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range f.tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Create(_ context.Context, t models.Task) (models.Task, error) {
	if t.ProjectID != nil && *t.ProjectID == 404 {
		return models.Task{}, repository.ErrInvalidReference
	}
	f.nextID++
	t.TaskID = f.nextID
	t.CreatedAt = f.now()
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.TaskID] = t
	return t, nil
}

func (f *fakeTasks) Update(_ context.Context, id int64, patch models.Patch) (models.Task, error) {
	f.lastPatch = patch
	t, ok := f.tasks[id]
	if !ok {
		return models.Task{}, repository.ErrNotFound
	}
	for _, ch := range patch {
		switch ch.Column {
		case "title":
			t.Title = ch.Value.(string)
		case "status":
			t.Status = ch.Value.(string)
		case "priority":
			t.Priority = ch.Value.(string)
		case "completed_at":
			t.CompletedAt = ptr(f.now())
		}
	}
	t.UpdatedAt = f.now()
	f.tasks[id] = t
	return t, nil
}

func (f *fakeTasks) Delete(_ context.Context, id int64) (models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return models.Task{}, repository.ErrNotFound
	}
	delete(f.tasks, id)
	return t, nil
}

type fakeProjects struct {
	projects map[int64]models.Project
	nextID   int64
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{projects: map[int64]models.Project{}}
}

func (f *fakeProjects) List(context.Context) ([]models.ProjectSummary, error) {
	out := []models.ProjectSummary{}
	for _, p := range f.projects {
		out = append(out, models.ProjectSummary{Project: p})
	}
	return out, nil
}

func (f *fakeProjects) GetByID(_ context.Context, id int64) (models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return models.Project{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjects) Create(_ context.Context, p models.Project) (models.Project, error) {
	f.nextID++
	p.ProjectID = f.nextID
	p.CreatedAt = time.Now()
	f.projects[p.ProjectID] = p
	return p, nil
}

func (f *fakeProjects) Update(_ context.Context, id int64, patch models.Patch) (models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return models.Project{}, repository.ErrNotFound
	}
	for _, ch := range patch {
		switch ch.Column {
		case "project_name":
			p.ProjectName = ch.Value.(string)
		case "status":
			p.Status = ch.Value.(string)
		case "description":
			if ch.Value == nil {
				p.Description = nil
			} else {
				p.Description = ptr(ch.Value.(string))
			}
		}
	}
	f.projects[id] = p
	return p, nil
}

func (f *fakeProjects) Delete(_ context.Context, id int64) (models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return models.Project{}, repository.ErrNotFound
	}
	delete(f.projects, id)
	return p, nil
}

type fakeComments struct {
	comments map[int64]models.Comment
	nextID   int64
}

func newFakeComments() *fakeComments {
	return &fakeComments{comments: map[int64]models.Comment{}}
}

func (f *fakeComments) ListForTask(_ context.Context, taskID int64) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range f.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) GetByID(_ context.Context, id int64) (models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return models.Comment{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeComments) Create(_ context.Context, c models.Comment) (models.Comment, error) {
	f.nextID++
	c.CommentID = f.nextID
	c.CreatedAt = time.Now()
	f.comments[c.CommentID] = c
	return c, nil
}

func (f *fakeComments) Delete(_ context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type fakeActivity struct {
	entries []models.ActivityLog
	fail    bool
	lastLim int
}

func (f *fakeActivity) Create(_ context.Context, e models.ActivityLog) (models.ActivityLog, error) {
	if f.fail {
		return models.ActivityLog{}, errors.New("activity_logs is gone")
	}
	e.LogID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeActivity) List(_ context.Context, flt models.ActivityFilter) ([]models.ActivityLog, error) {
	f.lastLim = flt.Limit
	return f.entries, nil
}

type fakeFeed struct{ got []any }

func (f *fakeFeed) Publish(v any) { f.got = append(f.got, v) }
