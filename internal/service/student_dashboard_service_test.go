package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

type failingTaskListRepo struct {
	repository.TaskRepository
}

func (failingTaskListRepo) ListByOrganization(ctx context.Context, organizationID uint) ([]models.Task, error) {
	return nil, errors.New("tasks unavailable")
}

type failingRosterRepo struct {
	repository.StudentRepository
}

func (failingRosterRepo) ListByOrganization(ctx context.Context, organizationID uint) ([]models.Student, error) {
	return nil, errors.New("roster unavailable")
}

type studentDashboardFixture struct {
	repos testRepos
	org   models.Organization
	ada   models.Student
	bob   models.Student
	tasks map[string]models.Task
}

func setupStudentDashboardFixture(t *testing.T, withTeacher bool) studentDashboardFixture {
	t.Helper()
	repos := setupRepos(t)
	org := repos.seedOrganization(t, "North")
	teacherID := uint(1)
	if withTeacher {
		teacherID = repos.seedTeacher(t, "teacher@example.com", &org.ID).ID
	}

	ada := repos.seedStudent(t, "Ada", "ada@example.com", &org.ID, strPtr("A"))
	bob := repos.seedStudent(t, "Bob", "bob@example.com", &org.ID, strPtr("A"))
	repos.seedStudent(t, "Cy", "cy@example.com", &org.ID, strPtr("B"))
	repos.seedStudent(t, "Dee", "dee@example.com", &org.ID, nil)

	day := func(d int) *time.Time {
		return timePtr(time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC))
	}
	base := models.Task{OrganizationID: org.ID, TeacherID: teacherID}
	define := func(title string, due *time.Time, target models.TargetType, group *string, student *uint) models.Task {
		task := base
		task.Title = title
		task.DueDate = due
		task.TargetType = target
		task.TargetGroup = group
		task.TargetStudent = student
		return repos.seedTask(t, task)
	}

	tasks := map[string]models.Task{
		"today":    define("today", day(10), models.TargetAll, nil, nil),
		"groupA":   define("groupA", day(8), models.TargetGroup, strPtr("A"), nil),
		"groupB":   define("groupB", day(11), models.TargetGroup, strPtr("B"), nil),
		"forAda":   define("forAda", day(20), models.TargetStudent, nil, uintPtr(ada.ID)),
		"forBob":   define("forBob", nil, models.TargetStudent, nil, uintPtr(bob.ID)),
		"noDue":    define("noDue", nil, "", nil, nil),
		"otherOrg": repos.seedTask(t, models.Task{Title: "otherOrg", OrganizationID: org.ID + 100, TeacherID: teacherID, TargetType: models.TargetAll}),
	}

	ctx := context.Background()
	for _, url := range []string{"https://files/first", "https://files/second"} {
		submission := models.Submission{TaskID: tasks["today"].ID, StudentID: ada.ID, FileURL: url}
		require.NoError(t, repos.submissions.Create(ctx, &submission))
	}

	return studentDashboardFixture{repos: repos, org: org, ada: ada, bob: bob, tasks: tasks}
}

func newStudentDashboardService(repos testRepos, students repository.StudentRepository, tasks repository.TaskRepository, cache *DashboardCache) *studentDashboardService {
	svc := NewStudentDashboardService(
		repos.identity(),
		repos.organizations,
		repos.teachers,
		students,
		tasks,
		repos.submissions,
		cache,
		assignment.NewDueClassifier(time.UTC),
		testLogger(),
	).(*studentDashboardService)
	svc.now = func() time.Time { return referenceNow }
	return svc
}

func studentTaskTitles(tasks []dto.StudentTask) []string {
	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	return titles
}

func TestStudentDashboardServiceBuildsSnapshot(t *testing.T) {
	f := setupStudentDashboardFixture(t, true)
	svc := newStudentDashboardService(f.repos, f.repos.students, f.repos.tasks, nil)

	snapshot, err := svc.GetDashboard(context.Background(), studentPrincipal("ada@example.com"))
	require.NoError(t, err)

	require.Equal(t, f.ada.ID, snapshot.Student.ID)
	require.NotNil(t, snapshot.Organization)
	require.NotNil(t, snapshot.Teacher)
	require.Equal(t, []string{"groupA", "today", "forAda", "noDue"}, studentTaskTitles(snapshot.Tasks))

	byTitle := map[string]dto.StudentTask{}
	for _, task := range snapshot.Tasks {
		byTitle[task.Title] = task
	}
	require.Equal(t, assignment.UrgencyOverdue, byTitle["groupA"].DueStatus.Urgency)
	require.Equal(t, assignment.UrgencyDueToday, byTitle["today"].DueStatus.Urgency)
	require.Equal(t, assignment.UrgencyOnTrack, byTitle["forAda"].DueStatus.Urgency)
	require.Equal(t, assignment.UrgencyNone, byTitle["noDue"].DueStatus.Urgency)
	require.Equal(t, models.TargetAll, byTitle["noDue"].TargetType)

	require.NotNil(t, byTitle["today"].Submission)
	require.Equal(t, "https://files/first", byTitle["today"].Submission.FileURL)
	require.Nil(t, byTitle["groupA"].Submission)
	require.Len(t, snapshot.Submissions, 2)

	require.NotNil(t, snapshot.Roster.MyGroupName)
	require.Equal(t, "A", *snapshot.Roster.MyGroupName)
	require.Len(t, snapshot.Roster.MyGroupPeers, 1)
	require.Equal(t, f.bob.ID, snapshot.Roster.MyGroupPeers[0].ID)
	require.Equal(t, []string{"A", "B"}, snapshot.Roster.AllGroupNames)
	require.Len(t, snapshot.Roster.Students, 4)
}

func TestStudentDashboardServiceWithoutTeacherOnRecord(t *testing.T) {
	f := setupStudentDashboardFixture(t, false)
	svc := newStudentDashboardService(f.repos, f.repos.students, f.repos.tasks, nil)

	snapshot, err := svc.GetDashboard(context.Background(), studentPrincipal("bob@example.com"))
	require.NoError(t, err)
	require.Nil(t, snapshot.Teacher)
	require.NotNil(t, snapshot.Organization)
	require.Equal(t, []string{"groupA", "today", "forBob", "noDue"}, studentTaskTitles(snapshot.Tasks))
}

func TestStudentDashboardServiceDegradesAndFails(t *testing.T) {
	f := setupStudentDashboardFixture(t, true)
	ctx := context.Background()

	degraded := newStudentDashboardService(f.repos, failingRosterRepo{f.repos.students}, f.repos.tasks, nil)
	snapshot, err := degraded.GetDashboard(ctx, studentPrincipal("ada@example.com"))
	require.NoError(t, err)
	require.Len(t, snapshot.Tasks, 4)
	require.Nil(t, snapshot.Roster.MyGroupName)
	require.Empty(t, snapshot.Roster.MyGroupPeers)
	require.Empty(t, snapshot.Roster.AllGroupNames)

	broken := newStudentDashboardService(f.repos, f.repos.students, failingTaskListRepo{f.repos.tasks}, nil)
	_, err = broken.GetDashboard(ctx, studentPrincipal("ada@example.com"))
	require.Error(t, err)

	_, err = broken.GetDashboard(ctx, studentPrincipal("nobody@example.com"))
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentDashboardServiceWithoutOrganization(t *testing.T) {
	repos := setupRepos(t)
	repos.seedStudent(t, "Solo", "solo@example.com", nil, nil)
	svc := newStudentDashboardService(repos, repos.students, repos.tasks, nil)

	snapshot, err := svc.GetDashboard(context.Background(), studentPrincipal("solo@example.com"))
	require.NoError(t, err)
	require.Nil(t, snapshot.Organization)
	require.Nil(t, snapshot.Teacher)
	require.Empty(t, snapshot.Tasks)
}

func TestStudentDashboardServiceCachesUntilOrganizationChanges(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	cache := NewDashboardCache(client, time.Minute, testLogger())

	f := setupStudentDashboardFixture(t, true)
	svc := newStudentDashboardService(f.repos, f.repos.students, f.repos.tasks, cache)
	ctx := context.Background()
	principal := studentPrincipal("ada@example.com")

	first, err := svc.GetDashboard(ctx, principal)
	require.NoError(t, err)
	snapshotKey := cache.Key(ctx, f.org.ID, f.ada.ID, "2024-06-10").String()
	require.True(t, mini.Exists(snapshotKey))

	// Written behind the service's back, so the cached snapshot is still served.
	f.repos.seedTask(t, models.Task{Title: "late addition", OrganizationID: f.org.ID, TeacherID: 1, TargetType: models.TargetAll})

	second, err := svc.GetDashboard(ctx, principal)
	require.NoError(t, err)
	require.Equal(t, studentTaskTitles(first.Tasks), studentTaskTitles(second.Tasks))
	require.Equal(t, first.Roster.AllGroupNames, second.Roster.AllGroupNames)

	notifier := NewChangeNotifier(nil, nil, cache, testLogger())
	notifier.Notify(ctx, Change{OrganizationID: f.org.ID, Action: ActionTaskCreated})
	require.False(t, mini.Exists(snapshotKey))

	third, err := svc.GetDashboard(ctx, principal)
	require.NoError(t, err)
	require.Contains(t, studentTaskTitles(third.Tasks), "late addition")
}

func TestStudentDashboardServiceRebuildsOnNewDay(t *testing.T) {
	cache, _ := newMiniCache(t)
	f := setupStudentDashboardFixture(t, true)
	svc := newStudentDashboardService(f.repos, f.repos.students, f.repos.tasks, cache)
	ctx := context.Background()
	principal := studentPrincipal("ada@example.com")

	first, err := svc.GetDashboard(ctx, principal)
	require.NoError(t, err)

	svc.now = func() time.Time { return referenceNow.Add(12 * time.Hour) }
	second, err := svc.GetDashboard(ctx, principal)
	require.NoError(t, err)
	require.True(t, second.GeneratedAt.After(first.GeneratedAt))

	urgency := func(response dto.StudentDashboardResponse, title string) assignment.Urgency {
		for _, task := range response.Tasks {
			if task.Title == title {
				return task.DueStatus.Urgency
			}
		}
		t.Fatalf("task %q missing", title)
		return ""
	}
	require.NotEqual(t, urgency(first, "today"), urgency(second, "today"))
}
