package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// OrganizationRepository defines persistence operations for organizations.
type OrganizationRepository interface {
	List(ctx context.Context) ([]models.Organization, error)
	GetByID(ctx context.Context, id uint) (models.Organization, error)
	Create(ctx context.Context, organization *models.Organization) error
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository instantiates a GORM-backed repository.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	var organizations []models.Organization
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&organizations).Error; err != nil {
		return nil, err
	}

	return organizations, nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id uint) (models.Organization, error) {
	var organization models.Organization
	if err := r.db.WithContext(ctx).First(&organization, id).Error; err != nil {
		return models.Organization{}, err
	}

	return organization, nil
}

func (r *organizationRepository) Create(ctx context.Context, organization *models.Organization) error {
	return r.db.WithContext(ctx).Create(organization).Error
}
