package dto

import "github.com/noah-isme/classroom-api/internal/models"

// GroupCreateRequest describes the payload for creating a group.
type GroupCreateRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// GroupAssignRequest moves a student into a group.
type GroupAssignRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	GroupID   uint `json:"group_id" validate:"required,gt=0"`
}

// GroupResponse is the serialized group.
type GroupResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	OrganizationID uint   `json:"organization_id"`
	MemberCount    int64  `json:"member_count"`
}

// NewGroupResponse converts a model into a DTO.
func NewGroupResponse(model models.Group, memberCount int64) GroupResponse {
	return GroupResponse{
		ID:             model.ID,
		Name:           model.Name,
		OrganizationID: model.OrganizationID,
		MemberCount:    memberCount,
	}
}

// NewGroupResponseSlice converts group models into DTOs, taking member counts
// from sizes keyed by group name.
func NewGroupResponseSlice(groups []models.Group, sizes map[string]int64) []GroupResponse {
	responses := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, NewGroupResponse(group, sizes[group.Name]))
	}
	return responses
}
