package models

import (
	"strings"
	"time"
)

// Student represents a learner that can join an organization and submit tasks.
//
// GroupName is a free-text label matched by string equality against Group.Name
// and Task.TargetGroup. It is not a foreign key.
type Student struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"size:255;not null" json:"full_name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	OrganizationID *uint     `gorm:"index" json:"organization_id"`
	GroupName      *string   `gorm:"size:255" json:"group_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasOrganization reports whether the student has joined an organization.
func (s Student) HasOrganization() bool {
	return s.OrganizationID != nil && *s.OrganizationID != 0
}

// Group returns the student's group label, or an empty string when ungrouped.
func (s Student) Group() string {
	if s.GroupName == nil {
		return ""
	}
	return *s.GroupName
}

// IsGrouped reports whether the student carries a non-blank group label.
func (s Student) IsGrouped() bool {
	return strings.TrimSpace(s.Group()) != ""
}
