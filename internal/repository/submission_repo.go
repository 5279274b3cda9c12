package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error)
	ListByOrganization(ctx context.Context, organizationID uint) ([]models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// ListByStudent returns a student's submissions in insertion order, so the
// earliest upload for a task is the one matched as current.
func (r *submissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Task").
		Order("id ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

// ListByOrganization returns every submission for the organization's tasks,
// newest upload first, with student and task preloaded.
func (r *submissionRepository) ListByOrganization(ctx context.Context, organizationID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("submissions.*").
		Joins("JOIN tasks ON tasks.id = submissions.task_id").
		Where("tasks.organization_id = ?", organizationID).
		Preload("Student").
		Preload("Task").
		Order("submissions.uploaded_at DESC").
		Order("submissions.id DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit("Task", "Student").Create(submission).Error
}
