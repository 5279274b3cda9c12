package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// TeacherRepository provides access to teacher records.
type TeacherRepository interface {
	GetByEmail(ctx context.Context, email string) (models.Teacher, error)
	FirstByOrganization(ctx context.Context, organizationID uint) (models.Teacher, error)
	ListByOrganizations(ctx context.Context, organizationIDs []uint) ([]models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	UpdateOrganization(ctx context.Context, teacherID, organizationID uint) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByEmail(ctx context.Context, email string) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) FirstByOrganization(ctx context.Context, organizationID uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("id ASC").
		First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) ListByOrganizations(ctx context.Context, organizationIDs []uint) ([]models.Teacher, error) {
	if len(organizationIDs) == 0 {
		return []models.Teacher{}, nil
	}

	var teachers []models.Teacher
	if err := r.db.WithContext(ctx).
		Where("organization_id IN ?", organizationIDs).
		Order("full_name ASC").
		Find(&teachers).Error; err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.Email = NormalizeEmail(teacher.Email)
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepository) UpdateOrganization(ctx context.Context, teacherID, organizationID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Where("id = ?", teacherID).
		Update("organization_id", organizationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
