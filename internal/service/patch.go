package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"flowsync/internal/models"
	"flowsync/pkg/apperror"
)

// setter decodes one allow-listed field. apply=false drops the field
// silently; a non-nil error rejects the whole update.
type setter func(raw json.RawMessage) (value any, apply bool, err error)

type fieldRule struct {
	name string
	set  setter
}

var taskRules = []fieldRule{
	{"title", requiredText("Title cannot be empty")},
	{"description", nullableText(false)},
	{"project_id", nullableID},
	{"assigned_to", nullableID},
	{"priority", enum(models.ValidPriority, "Invalid priority")},
	{"status", enum(models.ValidStatus, "Invalid status")},
	{"category", nullableText(true)},
	{"due_date", nullableDate},
	{"completion_percentage", percentage},
}

var projectRules = []fieldRule{
	{"project_name", textOrSkip},
	{"description", nullableText(false)},
	{"status", textOrSkip},
}

var userRules = []fieldRule{
	{"full_name", textOrSkip},
	{"role", enumOrSkip(models.ValidRole)},
}

// buildPatch walks rules in order and collects the recognised fields of
// body. Keys without a rule are ignored.
func buildPatch(body map[string]json.RawMessage, rules []fieldRule) (models.Patch, error) {
	var patch models.Patch
	var fields []apperror.FieldError

	for _, r := range rules {
		raw, ok := body[r.name]
		if !ok {
			continue
		}
		v, apply, err := r.set(raw)
		if err != nil {
			fields = append(fields, apperror.FieldError{Field: r.name, Message: err.Error()})
			continue
		}
		if apply {
			patch = append(patch, models.Change{Column: r.name, Value: v})
		}
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}
	return patch, nil
}

// taskPatch adds the completed_at re-stamp whenever status is completed,
// even if the task already was.
func taskPatch(body map[string]json.RawMessage) (models.Patch, error) {
	patch, err := buildPatch(body, taskRules)
	if err != nil {
		return nil, err
	}
	for _, ch := range patch {
		if ch.Column == "status" && ch.Value == models.StatusCompleted {
			patch = append(patch, models.Change{Column: "completed_at", Now: true})
			break
		}
	}
	return patch, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.New("must be a string")
	}
	return s, nil
}

func requiredText(msg string) setter {
	return func(raw json.RawMessage) (any, bool, error) {
		if isNull(raw) {
			return nil, false, errors.New(msg)
		}
		s, err := decodeString(raw)
		if err != nil {
			return nil, false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false, errors.New(msg)
		}
		return s, true, nil
	}
}

func nullableText(emptyIsNull bool) setter {
	return func(raw json.RawMessage) (any, bool, error) {
		if isNull(raw) {
			return nil, true, nil
		}
		s, err := decodeString(raw)
		if err != nil {
			return nil, false, err
		}
		if emptyIsNull && strings.TrimSpace(s) == "" {
			return nil, true, nil
		}
		return s, true, nil
	}
}

// textOrSkip applies only non-blank strings.
func textOrSkip(raw json.RawMessage) (any, bool, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, nil
	}
	s = strings.TrimSpace(s)
	return s, s != "", nil
}

func enum(valid func(string) bool, msg string) setter {
	return func(raw json.RawMessage) (any, bool, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || !valid(s) {
			return nil, false, errors.New(msg)
		}
		return s, true, nil
	}
}

func enumOrSkip(valid func(string) bool) setter {
	return func(raw json.RawMessage) (any, bool, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || !valid(s) {
			return nil, false, nil
		}
		return s, true, nil
	}
}

func nullableID(raw json.RawMessage) (any, bool, error) {
	id, err := decodeID(raw)
	if err != nil {
		return nil, false, err
	}
	if id == nil {
		return nil, true, nil
	}
	return *id, true, nil
}

func nullableDate(raw json.RawMessage) (any, bool, error) {
	if isNull(raw) {
		return nil, true, nil
	}
	s, err := decodeString(raw)
	if err != nil {
		return nil, false, err
	}
	t, err := ParseDueDate(s)
	if err != nil {
		return nil, false, err
	}
	if t == nil {
		return nil, true, nil
	}
	return *t, true, nil
}

func percentage(raw json.RawMessage) (any, bool, error) {
	n, err := decodeNumber(raw)
	if err != nil || n < 0 || n > 100 {
		return nil, false, errors.New("Completion percentage must be between 0 and 100")
	}
	return n, true, nil
}

// decodeNumber accepts a JSON integer or a numeric string.
func decodeNumber(raw json.RawMessage) (int64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != float64(int64(f)) {
			return 0, errors.New("must be a whole number")
		}
		return int64(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errors.New("must be a number")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return n, nil
}

// decodeID treats null and "" as no reference.
func decodeID(raw json.RawMessage) (*int64, error) {
	if len(raw) == 0 || isNull(raw) || bytes.Equal(bytes.TrimSpace(raw), []byte(`""`)) {
		return nil, nil
	}
	n, err := decodeNumber(raw)
	if err != nil {
		return nil, errors.New("must be a valid ID")
	}
	if n <= 0 {
		return nil, errors.New("must be a valid ID")
	}
	return &n, nil
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate accepts RFC 3339 timestamps, HTML date and datetime-local
// values. Blank input means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("Invalid due date")
}

// NullableID decodes a JSON number, numeric string, "" or null.
type NullableID struct {
	Value *int64
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	v, err := decodeID(b)
	if err != nil {
		return err
	}
	n.Value = v
	return nil
}
