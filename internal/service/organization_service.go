package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// OrganizationService manages organizations and membership.
type OrganizationService interface {
	Directory(ctx context.Context) ([]dto.OrganizationDirectoryEntry, error)
	Create(ctx context.Context, principal Principal, req dto.OrganizationCreateRequest) (dto.OrganizationResponse, error)
	Join(ctx context.Context, principal Principal, organizationID uint) (dto.StudentResponse, error)
}

type organizationService struct {
	organizations repository.OrganizationRepository
	teachers      repository.TeacherRepository
	students      repository.StudentRepository
	identity      IdentityService
	notifier      *ChangeNotifier
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
}

// NewOrganizationService constructs an OrganizationService.
func NewOrganizationService(
	organizations repository.OrganizationRepository,
	teachers repository.TeacherRepository,
	students repository.StudentRepository,
	identity IdentityService,
	notifier *ChangeNotifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) OrganizationService {
	return &organizationService{
		organizations: organizations,
		teachers:      teachers,
		students:      students,
		identity:      identity,
		notifier:      notifier,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "organization_service").Logger(),
	}
}

func (s *organizationService) Directory(ctx context.Context) ([]dto.OrganizationDirectoryEntry, error) {
	organizations, err := s.organizations.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(organizations))
	for _, organization := range organizations {
		ids = append(ids, organization.ID)
	}

	teachersByOrg := map[uint][]dto.TeacherResponse{}
	teachers, err := s.teachers.ListByOrganizations(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load organization teachers")
	}
	for _, teacher := range teachers {
		if !teacher.HasOrganization() {
			continue
		}
		teachersByOrg[*teacher.OrganizationID] = append(teachersByOrg[*teacher.OrganizationID], dto.NewTeacherResponse(teacher))
	}

	counts, err := s.students.CountByOrganizations(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to count organization students")
		counts = map[uint]int64{}
	}

	entries := make([]dto.OrganizationDirectoryEntry, 0, len(organizations))
	for _, organization := range organizations {
		entryTeachers := teachersByOrg[organization.ID]
		if entryTeachers == nil {
			entryTeachers = []dto.TeacherResponse{}
		}
		entries = append(entries, dto.OrganizationDirectoryEntry{
			OrganizationResponse: dto.NewOrganizationResponse(organization),
			Teachers:             entryTeachers,
			StudentCount:         counts[organization.ID],
		})
	}
	return entries, nil
}

func (s *organizationService) Create(ctx context.Context, principal Principal, req dto.OrganizationCreateRequest) (dto.OrganizationResponse, error) {
	req.Name = sanitizeText(s.sanitizer, req.Name)
	req.Description = sanitizeText(s.sanitizer, req.Description)
	if err := s.validator.Struct(req); err != nil {
		return dto.OrganizationResponse{}, err
	}

	teacher, err := s.identity.Teacher(ctx, principal)
	if err != nil {
		return dto.OrganizationResponse{}, err
	}

	organization := models.Organization{Name: req.Name}
	if req.Description != "" {
		description := req.Description
		organization.Description = &description
	}

	if err := s.organizations.Create(ctx, &organization); err != nil {
		s.logger.Error().Err(err).Uint("teacher_id", teacher.ID).Msg("failed to create organization")
		return dto.OrganizationResponse{}, err
	}

	// The organization row stays even when linking fails.
	if err := s.teachers.UpdateOrganization(ctx, teacher.ID, organization.ID); err != nil {
		s.logger.Error().Err(err).
			Uint("organization_id", organization.ID).
			Uint("teacher_id", teacher.ID).
			Msg("organization created but teacher link failed")
		return dto.OrganizationResponse{}, fmt.Errorf("%w: %v", ErrOrganizationLinkFailed, err)
	}

	s.notifier.Notify(ctx, Change{
		ActorID:        teacher.ID,
		ActorRole:      RoleTeacher,
		OrganizationID: organization.ID,
		Action:         ActionOrganizationCreated,
		EntityType:     "organization",
		EntityID:       organization.ID,
		Metadata:       map[string]interface{}{"name": organization.Name},
	})

	return dto.NewOrganizationResponse(organization), nil
}

func (s *organizationService) Join(ctx context.Context, principal Principal, organizationID uint) (dto.StudentResponse, error) {
	student, err := s.identity.Student(ctx, principal)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.organizations.GetByID(ctx, organizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrOrganizationNotFound
		}
		return dto.StudentResponse{}, err
	}

	if err := s.students.UpdateOrganizationByEmail(ctx, student.Email, organizationID); err != nil {
		s.logger.Error().Err(err).Uint("student_id", student.ID).Uint("organization_id", organizationID).Msg("failed to join organization")
		return dto.StudentResponse{}, err
	}

	previous := student.OrganizationID
	student.OrganizationID = &organizationID

	if previous != nil && *previous != organizationID {
		s.notifier.Invalidate(ctx, *previous)
	}
	s.notifier.Notify(ctx, Change{
		ActorID:        student.ID,
		ActorRole:      RoleStudent,
		OrganizationID: organizationID,
		Action:         ActionOrganizationJoined,
		EntityType:     "student",
		EntityID:       student.ID,
	})

	return dto.NewStudentResponse(student), nil
}
