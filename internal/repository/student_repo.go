package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByEmail(ctx context.Context, email string) (models.Student, error)
	ListByOrganization(ctx context.Context, organizationID uint) ([]models.Student, error)
	CountByOrganizations(ctx context.Context, organizationIDs []uint) (map[uint]int64, error)
	CountByGroupName(ctx context.Context, organizationID uint) (map[string]int64, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateOrganizationByEmail(ctx context.Context, email string, organizationID uint) error
	UpdateGroupName(ctx context.Context, studentID, organizationID uint, groupName string) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListByOrganization(ctx context.Context, organizationID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("full_name ASC").
		Order("id ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) CountByOrganizations(ctx context.Context, organizationIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(organizationIDs))
	if len(organizationIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OrganizationID uint
		Total          int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select("organization_id, COUNT(*) AS total").
		Where("organization_id IN ?", organizationIDs).
		Group("organization_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.OrganizationID] = row.Total
	}
	return counts, nil
}

// CountByGroupName counts the organization's students per group label.
// Ungrouped students are not counted.
func (r *studentRepository) CountByGroupName(ctx context.Context, organizationID uint) (map[string]int64, error) {
	var rows []struct {
		GroupName string
		Total     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select("group_name, COUNT(*) AS total").
		Where("organization_id = ? AND group_name IS NOT NULL AND TRIM(group_name) <> ''", organizationID).
		Group("group_name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupName] = row.Total
	}
	return counts, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Email = NormalizeEmail(student.Email)
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) UpdateOrganizationByEmail(ctx context.Context, email string, organizationID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("email = ?", NormalizeEmail(email)).
		Update("organization_id", organizationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) UpdateGroupName(ctx context.Context, studentID, organizationID uint, groupName string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ? AND organization_id = ?", studentID, organizationID).
		Update("group_name", groupName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
