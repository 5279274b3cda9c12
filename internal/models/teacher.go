package models

import "time"

// Teacher publishes tasks and manages groups within an organization.
type Teacher struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"size:255;not null" json:"full_name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	OrganizationID *uint     `gorm:"index" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasOrganization reports whether the teacher has been linked to an organization.
func (t Teacher) HasOrganization() bool {
	return t.OrganizationID != nil && *t.OrganizationID != 0
}
