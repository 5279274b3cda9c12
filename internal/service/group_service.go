package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// GroupService manages the groups of a teacher's organization.
type GroupService interface {
	List(ctx context.Context, principal Principal) ([]dto.GroupResponse, error)
	Create(ctx context.Context, principal Principal, req dto.GroupCreateRequest) (dto.GroupResponse, error)
	AssignStudent(ctx context.Context, principal Principal, req dto.GroupAssignRequest) (dto.StudentResponse, error)
}

type groupService struct {
	groups    repository.GroupRepository
	students  repository.StudentRepository
	identity  IdentityService
	notifier  *ChangeNotifier
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(
	groups repository.GroupRepository,
	students repository.StudentRepository,
	identity IdentityService,
	notifier *ChangeNotifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) GroupService {
	return &groupService{
		groups:    groups,
		students:  students,
		identity:  identity,
		notifier:  notifier,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "group_service").Logger(),
	}
}

func (s *groupService) List(ctx context.Context, principal Principal) ([]dto.GroupResponse, error) {
	organizationID, _, err := s.teacherOrganization(ctx, principal)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	sizes, err := s.students.CountByGroupName(ctx, organizationID)
	if err != nil {
		s.logger.Error().Err(err).Uint("organization_id", organizationID).Msg("failed to count group members")
		return nil, err
	}
	return dto.NewGroupResponseSlice(groups, sizes), nil
}

func (s *groupService) Create(ctx context.Context, principal Principal, req dto.GroupCreateRequest) (dto.GroupResponse, error) {
	req.Name = sanitizeText(s.sanitizer, req.Name)
	if err := s.validator.Struct(req); err != nil {
		return dto.GroupResponse{}, err
	}

	organizationID, teacher, err := s.teacherOrganization(ctx, principal)
	if err != nil {
		return dto.GroupResponse{}, err
	}

	group := models.Group{Name: req.Name, OrganizationID: organizationID}
	if err := s.groups.Create(ctx, &group); err != nil {
		s.logger.Error().Err(err).Uint("organization_id", organizationID).Msg("failed to create group")
		return dto.GroupResponse{}, err
	}

	s.notifier.Notify(ctx, Change{
		ActorID:        teacher.ID,
		ActorRole:      RoleTeacher,
		OrganizationID: organizationID,
		Action:         ActionGroupCreated,
		EntityType:     "group",
		EntityID:       group.ID,
		Metadata:       map[string]interface{}{"name": group.Name},
	})

	sizes, err := s.students.CountByGroupName(ctx, organizationID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("group_id", group.ID).Msg("failed to count group members")
	}
	return dto.NewGroupResponse(group, sizes[group.Name]), nil
}

func (s *groupService) AssignStudent(ctx context.Context, principal Principal, req dto.GroupAssignRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	organizationID, teacher, err := s.teacherOrganization(ctx, principal)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	group, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrGroupNotFound
		}
		return dto.StudentResponse{}, err
	}
	if group.OrganizationID != organizationID {
		return dto.StudentResponse{}, ErrGroupNotFound
	}

	if err := s.students.UpdateGroupName(ctx, req.StudentID, organizationID, group.Name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Uint("group_id", group.ID).Msg("failed to assign student to group")
		return dto.StudentResponse{}, err
	}

	s.notifier.Notify(ctx, Change{
		ActorID:        teacher.ID,
		ActorRole:      RoleTeacher,
		OrganizationID: organizationID,
		Action:         ActionGroupAssigned,
		EntityType:     "student",
		EntityID:       req.StudentID,
		Metadata:       map[string]interface{}{"group_id": group.ID, "group_name": group.Name},
	})

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *groupService) teacherOrganization(ctx context.Context, principal Principal) (uint, models.Teacher, error) {
	teacher, err := s.identity.Teacher(ctx, principal)
	if err != nil {
		return 0, models.Teacher{}, err
	}
	if !teacher.HasOrganization() {
		return 0, models.Teacher{}, ErrTeacherWithoutOrganization
	}
	return *teacher.OrganizationID, teacher, nil
}
