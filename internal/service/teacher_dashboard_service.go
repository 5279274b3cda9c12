package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// TeacherDashboardService builds the teacher's organization snapshot.
type TeacherDashboardService interface {
	GetDashboard(ctx context.Context, principal Principal) (dto.TeacherDashboardResponse, error)
}

type teacherDashboardService struct {
	identity      IdentityService
	organizations repository.OrganizationRepository
	groups        repository.GroupRepository
	students      repository.StudentRepository
	tasks         repository.TaskRepository
	submissions   repository.SubmissionRepository
	classifier    assignment.DueClassifier
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewTeacherDashboardService constructs a TeacherDashboardService.
func NewTeacherDashboardService(
	identity IdentityService,
	organizations repository.OrganizationRepository,
	groups repository.GroupRepository,
	students repository.StudentRepository,
	tasks repository.TaskRepository,
	submissions repository.SubmissionRepository,
	classifier assignment.DueClassifier,
	logger zerolog.Logger,
) TeacherDashboardService {
	return &teacherDashboardService{
		identity:      identity,
		organizations: organizations,
		groups:        groups,
		students:      students,
		tasks:         tasks,
		submissions:   submissions,
		classifier:    classifier,
		logger:        logger.With().Str("component", "teacher_dashboard_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/classroom-api/internal/service/teacher_dashboard"),
		now:           time.Now,
	}
}

func (s *teacherDashboardService) GetDashboard(ctx context.Context, principal Principal) (dto.TeacherDashboardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.teacher")
	defer span.End()

	teacher, err := s.identity.Teacher(ctx, principal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "teacher lookup failed")
		return dto.TeacherDashboardResponse{}, err
	}

	now := s.now()
	response := dto.TeacherDashboardResponse{
		Teacher:      dto.NewTeacherResponse(teacher),
		Groups:       []dto.GroupResponse{},
		Students:     []dto.StudentResponse{},
		Tasks:        []dto.TaskResponse{},
		ActiveTasks:  []dto.TaskResponse{},
		OverdueTasks: []dto.TaskResponse{},
		Submissions:  []dto.SubmissionResponse{},
		GeneratedAt:  now.UTC(),
	}
	if !teacher.HasOrganization() {
		return response, nil
	}

	organizationID := *teacher.OrganizationID
	span.SetAttributes(attribute.Int64("organization.id", int64(organizationID)))

	organization, err := s.organizations.GetByID(ctx, organizationID)
	switch {
	case err == nil:
		payload := dto.NewOrganizationResponse(organization)
		response.Organization = &payload
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Warn().Uint("organization_id", organizationID).Msg("teacher linked to missing organization")
	default:
		s.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("failed to load organization")
	}

	var (
		groups      []models.Group
		students    []models.Student
		tasks       []models.Task
		submissions []models.Submission
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		groups, err = s.groups.ListByOrganization(gctx, organizationID)
		return err
	})
	g.Go(func() (err error) {
		students, err = s.students.ListByOrganization(gctx, organizationID)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.ListByOrganization(gctx, organizationID)
		return err
	})
	g.Go(func() (err error) {
		submissions, err = s.submissions.ListByOrganization(gctx, organizationID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Uint("organization_id", organizationID).Msg("failed to load teacher dashboard")
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard load failed")
		return dto.TeacherDashboardResponse{}, err
	}

	active, overdue := s.classifier.PartitionByDeadline(tasks, now)

	response.Groups = dto.NewGroupResponseSlice(groups, assignment.GroupSizes(students))
	response.Students = dto.NewStudentResponseSlice(students)
	response.Tasks = dto.NewTaskResponseSlice(tasks, s.classifier, now)
	response.ActiveTasks = dto.NewTaskResponseSlice(active, s.classifier, now)
	response.OverdueTasks = dto.NewTaskResponseSlice(overdue, s.classifier, now)
	response.Submissions = dto.NewSubmissionResponseSlice(submissions)

	return response, nil
}
