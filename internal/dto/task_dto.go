package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/models"
)

// TaskCreateRequest describes the payload for publishing a task. DueDate
// accepts a calendar date (2006-01-02) or an RFC3339 timestamp.
type TaskCreateRequest struct {
	Title         string `json:"title" validate:"max=255"`
	Description   string `json:"description" validate:"max=10000"`
	DueDate       string `json:"due_date"`
	TargetType    string `json:"target_type"`
	TargetGroup   string `json:"target_group" validate:"max=255"`
	TargetStudent *uint  `json:"target_student"`
}

// TaskResponse is the serialized representation returned to API clients.
type TaskResponse struct {
	ID             uint                 `json:"id"`
	Title          string               `json:"title"`
	Description    *string              `json:"description"`
	OrganizationID uint                 `json:"organization_id"`
	TeacherID      uint                 `json:"teacher_id"`
	DueDate        *time.Time           `json:"due_date"`
	TargetType     models.TargetType    `json:"target_type"`
	TargetGroup    *string              `json:"target_group"`
	TargetStudent  *uint                `json:"target_student"`
	DueStatus      assignment.DueStatus `json:"due_status"`
	CreatedAt      time.Time            `json:"created_at"`
}

// NewTaskResponse converts a model into a DTO annotated with its due status.
func NewTaskResponse(model models.Task, status assignment.DueStatus) TaskResponse {
	return TaskResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		OrganizationID: model.OrganizationID,
		TeacherID:      model.TeacherID,
		DueDate:        model.DueDate,
		TargetType:     assignment.NormalizeTargetType(model.TargetType),
		TargetGroup:    model.TargetGroup,
		TargetStudent:  model.TargetStudent,
		DueStatus:      status,
		CreatedAt:      model.CreatedAt,
	}
}

// NewTaskResponseSlice converts tasks into DTOs classified against now.
func NewTaskResponseSlice(tasks []models.Task, classifier assignment.DueClassifier, now time.Time) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task, classifier.Classify(task.DueDate, now)))
	}
	return responses
}
