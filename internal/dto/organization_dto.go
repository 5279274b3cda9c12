package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// OrganizationCreateRequest describes the payload for creating an organization.
type OrganizationCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// OrganizationResponse is the serialized organization.
type OrganizationResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrganizationDirectoryEntry is one organization a student may join.
type OrganizationDirectoryEntry struct {
	OrganizationResponse
	Teachers     []TeacherResponse `json:"teachers"`
	StudentCount int64             `json:"student_count"`
}

// NewOrganizationResponse converts a model into a DTO.
func NewOrganizationResponse(model models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
}
