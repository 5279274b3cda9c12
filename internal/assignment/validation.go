package assignment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

var (
	// ErrMissingTitle rejects tasks whose title is blank.
	ErrMissingTitle = errors.New("missing title")
	// ErrMissingTargetGroup rejects group tasks without a group name.
	ErrMissingTargetGroup = errors.New("missing target group")
	// ErrMissingTargetStudent rejects student tasks without a student.
	ErrMissingTargetStudent = errors.New("missing target student")
	// ErrInvalidTargetType rejects unknown target types.
	ErrInvalidTargetType = errors.New("invalid target type")
	// ErrInvalidDueDate rejects due dates that cannot be parsed.
	ErrInvalidDueDate = errors.New("invalid due date")
)

// ValidationError carries the reason a task input was rejected.
type ValidationError struct {
	Reason error
	Field  string
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// TaskInput is the teacher-supplied part of a new task.
type TaskInput struct {
	Title         string
	TargetType    models.TargetType
	TargetGroup   string
	TargetStudent *uint
}

// ValidateTaskInput checks the required fields of a new task. It never touches
// storage.
func ValidateTaskInput(input TaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return &ValidationError{Reason: ErrMissingTitle, Field: "title"}
	}

	switch NormalizeTargetType(input.TargetType) {
	case models.TargetAll:
	case models.TargetGroup:
		if strings.TrimSpace(input.TargetGroup) == "" {
			return &ValidationError{Reason: ErrMissingTargetGroup, Field: "target_group"}
		}
	case models.TargetStudent:
		if input.TargetStudent == nil || *input.TargetStudent == 0 {
			return &ValidationError{Reason: ErrMissingTargetStudent, Field: "target_student"}
		}
	default:
		return &ValidationError{Reason: ErrInvalidTargetType, Field: "target_type"}
	}

	return nil
}

// NormalizeTargetType maps an empty target type to TargetAll.
func NormalizeTargetType(t models.TargetType) models.TargetType {
	normalized := models.TargetType(strings.ToLower(strings.TrimSpace(string(t))))
	if normalized == "" {
		return models.TargetAll
	}
	return normalized
}

// NormalizeDueDate converts a due date from the task form into a timestamp.
// A blank value stays nil. A calendar date becomes midnight of that day in loc.
func NormalizeDueDate(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	if day, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return &day, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}

	return nil, &ValidationError{Reason: fmt.Errorf("%w: %q", ErrInvalidDueDate, raw), Field: "due_date"}
}
