package dto

import "github.com/noah-isme/classroom-api/internal/models"

// RegisterRequest creates the teacher or student record for the signed-in principal.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
}

// IdentityResponse describes the signed-in principal and its matching record.
type IdentityResponse struct {
	Subject string           `json:"subject"`
	Email   string           `json:"email"`
	Role    string           `json:"role"`
	Teacher *TeacherResponse `json:"teacher,omitempty"`
	Student *StudentResponse `json:"student,omitempty"`
}

// TeacherResponse is the serialized teacher record.
type TeacherResponse struct {
	ID             uint   `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	OrganizationID *uint  `json:"organization_id"`
}

// StudentResponse is the serialized student record.
type StudentResponse struct {
	ID             uint    `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	OrganizationID *uint   `json:"organization_id"`
	GroupName      *string `json:"group_name"`
}

// NewTeacherResponse converts a model into a DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:             model.ID,
		FullName:       model.FullName,
		Email:          model.Email,
		OrganizationID: model.OrganizationID,
	}
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:             model.ID,
		FullName:       model.FullName,
		Email:          model.Email,
		OrganizationID: model.OrganizationID,
		GroupName:      model.GroupName,
	}
}

// NewStudentResponseSlice converts student models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
