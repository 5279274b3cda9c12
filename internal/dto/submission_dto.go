package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID         uint         `json:"id"`
	TaskID     uint         `json:"task_id"`
	StudentID  uint         `json:"student_id"`
	FileURL    string       `json:"file_url"`
	UploadedAt time.Time    `json:"uploaded_at"`
	Student    *StudentLite `json:"student,omitempty"`
	Task       *TaskLite    `json:"task,omitempty"`
}

// StudentLite summarizes a student without exposing the full record.
type StudentLite struct {
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	GroupName *string `json:"group_name"`
}

// TaskLite summarizes a task in submission responses.
type TaskLite struct {
	Title   string     `json:"title"`
	DueDate *time.Time `json:"due_date"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:         model.ID,
		TaskID:     model.TaskID,
		StudentID:  model.StudentID,
		FileURL:    model.FileURL,
		UploadedAt: model.UploadedAt,
	}

	if model.Student.ID != 0 {
		response.Student = &StudentLite{
			FullName:  model.Student.FullName,
			Email:     model.Student.Email,
			GroupName: model.Student.GroupName,
		}
	}

	if model.Task.ID != 0 {
		response.Task = &TaskLite{Title: model.Task.Title, DueDate: model.Task.DueDate}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
