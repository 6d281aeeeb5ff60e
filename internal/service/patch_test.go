package service

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"flowsync/internal/models"
	"flowsync/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestTaskPatch(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.Patch
	}{
		{
			name: "unknown keys ignored",
			in:   `{"title":"New","created_by":9,"task_id":1,"hack":"; DROP TABLE tasks"}`,
			want: models.Patch{{Column: "title", Value: "New"}},
		},
		{
			name: "completed adds re-stamp",
			in:   `{"status":"completed"}`,
			want: models.Patch{{Column: "status", Value: "completed"}, {Column: "completed_at", Now: true}},
		},
		{
			name: "other status does not stamp",
			in:   `{"status":"in_progress"}`,
			want: models.Patch{{Column: "status", Value: "in_progress"}},
		},
		{
			name: "ids accept strings and null",
			in:   `{"project_id":"3","assigned_to":null}`,
			want: models.Patch{{Column: "project_id", Value: int64(3)}, {Column: "assigned_to", Value: nil}},
		},
		{
			name: "empty id clears",
			in:   `{"project_id":""}`,
			want: models.Patch{{Column: "project_id", Value: nil}},
		},
		{
			name: "due date",
			in:   `{"due_date":"2024-06-01"}`,
			want: models.Patch{{Column: "due_date", Value: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}},
		},
		{
			name: "blank category clears",
			in:   `{"category":" "}`,
			want: models.Patch{{Column: "category", Value: nil}},
		},
		{
			name: "percentage",
			in:   `{"completion_percentage":40}`,
			want: models.Patch{{Column: "completion_percentage", Value: int64(40)}},
		},
		{
			name: "fixed column order",
			in:   `{"completion_percentage":"100","priority":"high","title":" T "}`,
			want: models.Patch{
				{Column: "title", Value: "T"},
				{Column: "priority", Value: "high"},
				{Column: "completion_percentage", Value: int64(100)},
			},
		},
		{
			name: "nothing recognised",
			in:   `{"foo":1}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := taskPatch(body(t, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskPatch_Rejects(t *testing.T) {
	for _, in := range []string{
		`{"title":"   "}`,
		`{"title":null}`,
		`{"status":"done"}`,
		`{"priority":"urgent"}`,
		`{"completion_percentage":101}`,
		`{"completion_percentage":-1}`,
		`{"completion_percentage":12.5}`,
		`{"due_date":"next tuesday"}`,
		`{"project_id":"abc"}`,
		`{"assigned_to":0}`,
	} {
		_, err := taskPatch(body(t, in))
		appErr := apperror.As(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Status, in)
		assert.NotEmpty(t, appErr.Fields, in)
	}
}

func TestProjectAndUserRulesSkipBlanks(t *testing.T) {
	got, err := buildPatch(body(t, `{"project_name":"","status":"  ","description":null}`), projectRules)
	require.NoError(t, err)
	assert.Equal(t, models.Patch{{Column: "description", Value: nil}}, got)

	got, err = buildPatch(body(t, `{"full_name":"","role":"superuser","email":"x@y.z"}`), userRules)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = buildPatch(body(t, `{"full_name":"Ana B","role":"admin"}`), userRules)
	require.NoError(t, err)
	assert.Equal(t, models.Patch{{Column: "full_name", Value: "Ana B"}, {Column: "role", Value: "admin"}}, got)
}

func TestParseDueDate(t *testing.T) {
	for _, s := range []string{"2024-06-01", "2024-06-01T10:30", "2024-06-01T10:30:00", "2024-06-01T10:30:00Z", "2024-06-01T10:30:00+07:00"} {
		got, err := ParseDueDate(s)
		require.NoError(t, err, s)
		require.NotNil(t, got, s)
		assert.Equal(t, 2024, got.Year())
	}

	got, err := ParseDueDate("  ")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestNullableID(t *testing.T) {
	var in struct {
		ProjectID NullableID `json:"project_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"project_id":"7"}`), &in))
	require.NotNil(t, in.ProjectID.Value)
	assert.Equal(t, int64(7), *in.ProjectID.Value)

	in.ProjectID = NullableID{}
	require.NoError(t, json.Unmarshal([]byte(`{"project_id":null}`), &in))
	assert.Nil(t, in.ProjectID.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"project_id":"seven"}`), &in))
}
