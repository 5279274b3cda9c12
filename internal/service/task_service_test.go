package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

type countingTaskRepo struct {
	repository.TaskRepository
	creates int
}

func (r *countingTaskRepo) Create(ctx context.Context, task *models.Task) error {
	r.creates++
	return r.TaskRepository.Create(ctx, task)
}

type countingIdentity struct {
	IdentityService
	lookups int
}

func (c *countingIdentity) Teacher(ctx context.Context, principal Principal) (models.Teacher, error) {
	c.lookups++
	return c.IdentityService.Teacher(ctx, principal)
}

func newTaskService(repos testRepos, tasks repository.TaskRepository, identity IdentityService, events EventPublisher) *taskService {
	svc := NewTaskService(
		tasks,
		repos.students,
		identity,
		repos.notifier(events, nil),
		assignment.NewDueClassifier(time.UTC),
		testValidator(),
		testLogger(),
	).(*taskService)
	svc.now = func() time.Time { return referenceNow }
	return svc
}

func TestTaskServiceValidationNeverReachesStore(t *testing.T) {
	repos := setupRepos(t)
	org := repos.seedOrganization(t, "North")
	repos.seedTeacher(t, "teacher@example.com", &org.ID)

	tasks := &countingTaskRepo{TaskRepository: repos.tasks}
	identity := &countingIdentity{IdentityService: repos.identity()}
	svc := newTaskService(repos, tasks, identity, nil)
	ctx := context.Background()
	principal := teacherPrincipal("teacher@example.com")

	cases := []struct {
		name string
		req  dto.TaskCreateRequest
		want error
	}{
		{name: "blank title", req: dto.TaskCreateRequest{Title: "   "}, want: assignment.ErrMissingTitle},
		{name: "group without name", req: dto.TaskCreateRequest{Title: "Essay", TargetType: "group"}, want: assignment.ErrMissingTargetGroup},
		{name: "student without id", req: dto.TaskCreateRequest{Title: "Essay", TargetType: "student"}, want: assignment.ErrMissingTargetStudent},
		{name: "unknown target", req: dto.TaskCreateRequest{Title: "Essay", TargetType: "class"}, want: assignment.ErrInvalidTargetType},
		{name: "bad due date", req: dto.TaskCreateRequest{Title: "Essay", DueDate: "next week"}, want: assignment.ErrInvalidDueDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, principal, tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}

	require.Zero(t, tasks.creates)
	require.Zero(t, identity.lookups)
}

func TestTaskServiceCreateNormalizesInput(t *testing.T) {
	repos := setupRepos(t)
	org := repos.seedOrganization(t, "North")
	teacher := repos.seedTeacher(t, "teacher@example.com", &org.ID)

	events := &recordingPublisher{}
	svc := newTaskService(repos, repos.tasks, repos.identity(), events)
	ctx := context.Background()

	created, err := svc.Create(ctx, teacherPrincipal("teacher@example.com"), dto.TaskCreateRequest{
		Title:       "  Lab report ",
		Description: "  ",
		DueDate:     "2024-06-12",
		TargetType:  " Group ",
		TargetGroup: " Robotics ",
	})
	require.NoError(t, err)
	require.Equal(t, "Lab report", created.Title)
	require.Nil(t, created.Description)
	require.Equal(t, models.TargetGroup, created.TargetType)
	require.NotNil(t, created.TargetGroup)
	require.Equal(t, "Robotics", *created.TargetGroup)
	require.Nil(t, created.TargetStudent)
	require.Equal(t, teacher.ID, created.TeacherID)
	require.Equal(t, assignment.UrgencyDueSoon, created.DueStatus.Urgency)
	require.Equal(t, "2 days left", created.DueStatus.Label)

	listed, err := svc.List(ctx, teacherPrincipal("teacher@example.com"))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, created.ID, listed[0].ID)

	require.Equal(t, []string{ActionTaskCreated}, events.actions())

	logs, err := repos.activity.List(ctx, repository.ActivityLogFilter{OrganizationID: &org.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, ActionTaskCreated, logs[0].Action)
	require.Equal(t, "Lab report", logs[0].Metadata["title"])
}

func TestTaskServiceDefaultsToAllAndChecksStudentTargets(t *testing.T) {
	repos := setupRepos(t)
	north := repos.seedOrganization(t, "North")
	south := repos.seedOrganization(t, "South")
	repos.seedTeacher(t, "teacher@example.com", &north.ID)
	local := repos.seedStudent(t, "Ada", "ada@example.com", &north.ID, nil)
	foreign := repos.seedStudent(t, "Bob", "bob@example.com", &south.ID, nil)

	svc := newTaskService(repos, repos.tasks, repos.identity(), nil)
	ctx := context.Background()
	principal := teacherPrincipal("teacher@example.com")

	open, err := svc.Create(ctx, principal, dto.TaskCreateRequest{Title: "Reading", TargetGroup: "ignored"})
	require.NoError(t, err)
	require.Equal(t, models.TargetAll, open.TargetType)
	require.Nil(t, open.TargetGroup)
	require.Equal(t, assignment.UrgencyNone, open.DueStatus.Urgency)

	personal, err := svc.Create(ctx, principal, dto.TaskCreateRequest{Title: "Retake", TargetType: "student", TargetStudent: uintPtr(local.ID)})
	require.NoError(t, err)
	require.Equal(t, local.ID, *personal.TargetStudent)

	_, err = svc.Create(ctx, principal, dto.TaskCreateRequest{Title: "Retake", TargetType: "student", TargetStudent: uintPtr(foreign.ID)})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestTaskServiceRequiresTeacherOrganization(t *testing.T) {
	repos := setupRepos(t)
	repos.seedTeacher(t, "lonely@example.com", nil)
	svc := newTaskService(repos, repos.tasks, repos.identity(), nil)

	_, err := svc.Create(context.Background(), teacherPrincipal("lonely@example.com"), dto.TaskCreateRequest{Title: "Essay"})
	require.ErrorIs(t, err, ErrTeacherWithoutOrganization)
}

func TestTaskServiceStoresPlainTextWithoutEntities(t *testing.T) {
	repos := setupRepos(t)
	org := repos.seedOrganization(t, "North")
	repos.seedTeacher(t, "teacher@example.com", &org.ID)
	svc := newTaskService(repos, repos.tasks, repos.identity(), nil)
	ctx := context.Background()
	principal := teacherPrincipal("teacher@example.com")

	created, err := svc.Create(ctx, principal, dto.TaskCreateRequest{
		Title:       "<b>Q&A</b> session",
		Description: "Bring 3 < 4 examples",
		TargetType:  "group",
		TargetGroup: "R&D",
	})
	require.NoError(t, err)
	require.Equal(t, "Q&A session", created.Title)
	require.NotNil(t, created.Description)
	require.Equal(t, "Bring 3 < 4 examples", *created.Description)
	require.Equal(t, "R&D", *created.TargetGroup)

	listed, err := svc.List(ctx, principal)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Q&A session", listed[0].Title)

	logs, err := repos.activity.List(ctx, repository.ActivityLogFilter{OrganizationID: &org.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "Q&A session", logs[0].Metadata["title"])
}
