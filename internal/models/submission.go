package models

import "time"

// Submission is a file a student uploaded for a task.
//
// The store does not enforce uniqueness per (student, task): a resubmission
// inserts a new row.
type Submission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     uint      `gorm:"index;not null" json:"task_id"`
	StudentID  uint      `gorm:"index;not null" json:"student_id"`
	FileURL    string    `gorm:"size:1024;not null" json:"file_url"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	Task       Task      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student    Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
