package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// StudentDashboardService builds the student's snapshot of visible tasks,
// submissions and group roster.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, principal Principal) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	identity      IdentityService
	organizations repository.OrganizationRepository
	teachers      repository.TeacherRepository
	students      repository.StudentRepository
	tasks         repository.TaskRepository
	submissions   repository.SubmissionRepository
	cache         *DashboardCache
	classifier    assignment.DueClassifier
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewStudentDashboardService builds the dashboard aggregator. A nil cache disables caching.
func NewStudentDashboardService(
	identity IdentityService,
	organizations repository.OrganizationRepository,
	teachers repository.TeacherRepository,
	students repository.StudentRepository,
	tasks repository.TaskRepository,
	submissions repository.SubmissionRepository,
	cache *DashboardCache,
	classifier assignment.DueClassifier,
	logger zerolog.Logger,
) StudentDashboardService {
	return &studentDashboardService{
		identity:      identity,
		organizations: organizations,
		teachers:      teachers,
		students:      students,
		tasks:         tasks,
		submissions:   submissions,
		cache:         cache,
		classifier:    classifier,
		logger:        logger.With().Str("component", "student_dashboard_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/classroom-api/internal/service/student_dashboard"),
		now:           time.Now,
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, principal Principal) (dto.StudentDashboardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.student")
	defer span.End()

	student, err := s.identity.Student(ctx, principal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student lookup failed")
		return dto.StudentDashboardResponse{}, err
	}

	now := s.now()
	response := dto.StudentDashboardResponse{
		Student:     dto.NewStudentResponse(student),
		Tasks:       []dto.StudentTask{},
		Roster:      emptyRoster(),
		Submissions: []dto.SubmissionResponse{},
		GeneratedAt: now.UTC(),
	}
	if !student.HasOrganization() {
		return response, nil
	}

	organizationID := *student.OrganizationID
	span.SetAttributes(attribute.Int64("organization.id", int64(organizationID)))

	cacheKey := s.cache.Key(ctx, organizationID, student.ID, now.In(s.classifier.Location()).Format(time.DateOnly))
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
		s.logger.Debug().Uint("student_id", student.ID).Msg("dashboard cache hit")
		return cached, nil
	}

	tasks, err := s.tasks.ListByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Error().Err(err).Uint("organization_id", organizationID).Msg("failed to load tasks")
		span.RecordError(err)
		span.SetStatus(codes.Error, "task load failed")
		return dto.StudentDashboardResponse{}, err
	}

	if organization, err := s.organizations.GetByID(ctx, organizationID); err == nil {
		payload := dto.NewOrganizationResponse(organization)
		response.Organization = &payload
	} else {
		s.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("organization unavailable for dashboard")
	}

	if teacher, err := s.teachers.FirstByOrganization(ctx, organizationID); err == nil {
		payload := dto.NewTeacherResponse(teacher)
		response.Teacher = &payload
	} else {
		s.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("no teacher on record for organization")
	}

	submissions, err := s.submissions.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("student_id", student.ID).Msg("failed to load submissions")
		submissions = nil
	}

	roster, err := s.students.ListByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("organization_id", organizationID).Msg("failed to load roster")
	} else {
		response.Roster = buildRoster(roster, student.ID)
	}

	response.Tasks = s.studentTasks(assignment.ResolveVisible(tasks, student), submissions, now)
	response.Submissions = dto.NewSubmissionResponseSlice(submissions)

	s.cache.Set(ctx, cacheKey, response)
	return response, nil
}

func (s *studentDashboardService) studentTasks(tasks []models.Task, submissions []models.Submission, now time.Time) []dto.StudentTask {
	items := make([]dto.StudentTask, 0, len(tasks))
	for _, task := range tasks {
		item := dto.StudentTask{
			TaskResponse: dto.NewTaskResponse(task, s.classifier.Classify(task.DueDate, now)),
		}
		if submission, ok := assignment.FindCurrent(submissions, task.ID); ok {
			payload := dto.NewSubmissionResponse(submission)
			item.Submission = &payload
		}
		items = append(items, item)
	}
	return items
}

func buildRoster(students []models.Student, selfID uint) dto.StudentRoster {
	aggregated := assignment.Aggregate(students, selfID)
	return dto.StudentRoster{
		MyGroupName:   aggregated.MyGroupName,
		MyGroupPeers:  dto.NewStudentResponseSlice(aggregated.MyGroupPeers),
		AllGroupNames: aggregated.AllGroupNames,
		Students:      dto.NewStudentResponseSlice(students),
	}
}

func emptyRoster() dto.StudentRoster {
	return dto.StudentRoster{
		MyGroupPeers:  []dto.StudentResponse{},
		AllGroupNames: []string{},
		Students:      []dto.StudentResponse{},
	}
}
