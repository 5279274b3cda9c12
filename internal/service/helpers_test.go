package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/database"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

var referenceNow = time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type testRepos struct {
	db            *gorm.DB
	organizations repository.OrganizationRepository
	teachers      repository.TeacherRepository
	students      repository.StudentRepository
	groups        repository.GroupRepository
	tasks         repository.TaskRepository
	submissions   repository.SubmissionRepository
	activity      repository.ActivityLogRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return testRepos{
		db:            db,
		organizations: repository.NewOrganizationRepository(db),
		teachers:      repository.NewTeacherRepository(db),
		students:      repository.NewStudentRepository(db),
		groups:        repository.NewGroupRepository(db),
		tasks:         repository.NewTaskRepository(db),
		submissions:   repository.NewSubmissionRepository(db),
		activity:      repository.NewActivityLogRepository(db),
	}
}

func (r testRepos) identity() IdentityService {
	return NewIdentityService(r.teachers, r.students, testLogger())
}

func (r testRepos) notifier(events EventPublisher, cache *DashboardCache) *ChangeNotifier {
	return NewChangeNotifier(NewActivityService(r.activity, testLogger()), events, cache, testLogger())
}

func (r testRepos) seedOrganization(t *testing.T, name string) models.Organization {
	t.Helper()
	organization := models.Organization{Name: name}
	require.NoError(t, r.organizations.Create(context.Background(), &organization))
	return organization
}

func (r testRepos) seedTeacher(t *testing.T, email string, organizationID *uint) models.Teacher {
	t.Helper()
	teacher := models.Teacher{FullName: "Teacher " + email, Email: email, OrganizationID: organizationID}
	require.NoError(t, r.teachers.Create(context.Background(), &teacher))
	return teacher
}

func (r testRepos) seedStudent(t *testing.T, name, email string, organizationID *uint, group *string) models.Student {
	t.Helper()
	student := models.Student{FullName: name, Email: email, OrganizationID: organizationID, GroupName: group}
	require.NoError(t, r.students.Create(context.Background(), &student))
	return student
}

func (r testRepos) seedTask(t *testing.T, task models.Task) models.Task {
	t.Helper()
	require.NoError(t, r.tasks.Create(context.Background(), &task))
	return task
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func teacherPrincipal(email string) Principal {
	return Principal{Subject: "sub-" + email, Email: email, Role: RoleTeacher}
}

func studentPrincipal(email string) Principal {
	return Principal{Subject: "sub-" + email, Email: email, Role: RoleStudent}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, 0, len(p.events))
	for _, event := range p.events {
		actions = append(actions, event.Action)
	}
	return actions
}

type storageStub struct {
	calls    int
	path     string
	uploaded bytes.Buffer
	err      error
}

func (s *storageStub) Upload(ctx context.Context, path string, reader io.Reader) (string, error) {
	s.calls++
	s.path = path
	if s.err != nil {
		return "", s.err
	}
	s.uploaded.Reset()
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + path, nil
}

var errStoreDown = errors.New("store unavailable")

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(len(content))+1024))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}
