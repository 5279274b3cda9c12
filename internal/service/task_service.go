package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// TaskService publishes and lists the tasks of a teacher's organization.
type TaskService interface {
	List(ctx context.Context, principal Principal) ([]dto.TaskResponse, error)
	Create(ctx context.Context, principal Principal, req dto.TaskCreateRequest) (dto.TaskResponse, error)
}

type taskService struct {
	tasks      repository.TaskRepository
	students   repository.StudentRepository
	identity   IdentityService
	notifier   *ChangeNotifier
	classifier assignment.DueClassifier
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTaskService constructs a TaskService.
func NewTaskService(
	tasks repository.TaskRepository,
	students repository.StudentRepository,
	identity IdentityService,
	notifier *ChangeNotifier,
	classifier assignment.DueClassifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) TaskService {
	return &taskService{
		tasks:      tasks,
		students:   students,
		identity:   identity,
		notifier:   notifier,
		classifier: classifier,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "task_service").Logger(),
		now:        time.Now,
	}
}

func (s *taskService) List(ctx context.Context, principal Principal) ([]dto.TaskResponse, error) {
	teacher, err := s.identity.Teacher(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !teacher.HasOrganization() {
		return nil, ErrTeacherWithoutOrganization
	}

	tasks, err := s.tasks.ListByOrganization(ctx, *teacher.OrganizationID)
	if err != nil {
		return nil, err
	}
	return dto.NewTaskResponseSlice(tasks, s.classifier, s.now()), nil
}

func (s *taskService) Create(ctx context.Context, principal Principal, req dto.TaskCreateRequest) (dto.TaskResponse, error) {
	title := sanitizeText(s.sanitizer, req.Title)
	description := sanitizeText(s.sanitizer, req.Description)
	targetGroup := sanitizeText(s.sanitizer, req.TargetGroup)
	targetType := assignment.NormalizeTargetType(models.TargetType(req.TargetType))

	if err := s.validator.Struct(req); err != nil {
		return dto.TaskResponse{}, err
	}

	input := assignment.TaskInput{
		Title:         title,
		TargetType:    targetType,
		TargetGroup:   targetGroup,
		TargetStudent: req.TargetStudent,
	}
	if err := assignment.ValidateTaskInput(input); err != nil {
		return dto.TaskResponse{}, err
	}

	dueDate, err := assignment.NormalizeDueDate(req.DueDate, s.classifier.Location())
	if err != nil {
		return dto.TaskResponse{}, err
	}

	teacher, err := s.identity.Teacher(ctx, principal)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if !teacher.HasOrganization() {
		return dto.TaskResponse{}, ErrTeacherWithoutOrganization
	}
	organizationID := *teacher.OrganizationID

	task := models.Task{
		Title:          title,
		OrganizationID: organizationID,
		TeacherID:      teacher.ID,
		DueDate:        dueDate,
		TargetType:     targetType,
	}
	if description != "" {
		task.Description = &description
	}

	switch targetType {
	case models.TargetGroup:
		task.TargetGroup = &targetGroup
	case models.TargetStudent:
		if err := s.ensureStudentInOrganization(ctx, *req.TargetStudent, organizationID); err != nil {
			return dto.TaskResponse{}, err
		}
		studentID := *req.TargetStudent
		task.TargetStudent = &studentID
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		s.logger.Error().Err(err).Uint("organization_id", organizationID).Msg("failed to create task")
		return dto.TaskResponse{}, err
	}

	s.notifier.Notify(ctx, Change{
		ActorID:        teacher.ID,
		ActorRole:      RoleTeacher,
		OrganizationID: organizationID,
		Action:         ActionTaskCreated,
		EntityType:     "task",
		EntityID:       task.ID,
		Metadata: map[string]interface{}{
			"title":       task.Title,
			"target_type": string(task.TargetType),
		},
	})

	return dto.NewTaskResponse(task, s.classifier.Classify(task.DueDate, s.now())), nil
}

func (s *taskService) ensureStudentInOrganization(ctx context.Context, studentID, organizationID uint) error {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	if !student.HasOrganization() || *student.OrganizationID != organizationID {
		return ErrStudentNotFound
	}
	return nil
}
