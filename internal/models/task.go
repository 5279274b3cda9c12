package models

import "time"

// TargetType selects which students of an organization a task is published to.
type TargetType string

const (
	// TargetAll publishes the task to every student of the organization.
	TargetAll TargetType = "all"
	// TargetGroup publishes the task to students whose group name matches.
	TargetGroup TargetType = "group"
	// TargetStudent publishes the task to a single student.
	TargetStudent TargetType = "student"
)

// Task represents an assignment published by a teacher.
type Task struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    *string    `gorm:"type:text" json:"description"`
	OrganizationID uint       `gorm:"index;not null" json:"organization_id"`
	TeacherID      uint       `gorm:"index;not null" json:"teacher_id"`
	DueDate        *time.Time `json:"due_date"`
	TargetType     TargetType `gorm:"size:16" json:"target_type"`
	TargetGroup    *string    `gorm:"size:255" json:"target_group"`
	TargetStudent  *uint      `json:"target_student"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
