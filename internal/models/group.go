package models

import "time"

// Group is a named subdivision of students within an organization.
type Group struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	OrganizationID uint      `gorm:"index;not null" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}
