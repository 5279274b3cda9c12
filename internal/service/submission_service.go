package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/observability"
	"github.com/noah-isme/classroom-api/internal/repository"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

var allowedSubmissionTypes = []string{
	"application/pdf",
	"application/zip",
	"application/msword",
	"application/vnd.ms-",
	"application/vnd.openxmlformats-officedocument.",
	"application/vnd.oasis.opendocument.",
	"application/rtf",
	"text/",
	"image/",
}

// ObjectStorage stores submission files and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, reader io.Reader) (string, error)
}

// SubmissionService handles student submissions.
type SubmissionService interface {
	ListForStudent(ctx context.Context, principal Principal) ([]dto.SubmissionResponse, error)
	Upload(ctx context.Context, principal Principal, taskID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	tasks       repository.TaskRepository
	identity    IdentityService
	storage     ObjectStorage
	notifier    *ChangeNotifier
	maxSize     int64
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	tasks repository.TaskRepository,
	identity IdentityService,
	storage ObjectStorage,
	notifier *ChangeNotifier,
	maxSizeMB int,
	logger zerolog.Logger,
) SubmissionService {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	return &submissionService{
		submissions: submissions,
		tasks:       tasks,
		identity:    identity,
		storage:     storage,
		notifier:    notifier,
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/classroom-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) ListForStudent(ctx context.Context, principal Principal) ([]dto.SubmissionResponse, error) {
	student, err := s.identity.Student(ctx, principal)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Upload(ctx context.Context, principal Principal, taskID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.upload", trace.WithAttributes(
		attribute.Int64("task.id", int64(taskID)),
		attribute.Int64("upload.max_bytes", s.maxSize),
	))
	defer span.End()

	response, err := s.upload(ctx, span, principal, taskID, file)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		observability.SubmissionUploads().WithLabelValues(uploadResult(err)).Inc()
		return dto.SubmissionResponse{}, err
	}

	observability.SubmissionUploads().WithLabelValues("stored").Inc()
	return response, nil
}

func (s *submissionService) upload(ctx context.Context, span trace.Span, principal Principal, taskID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if file == nil {
		return dto.SubmissionResponse{}, ErrSubmissionFileRequired
	}
	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)
	if file.Size > s.maxSize {
		return dto.SubmissionResponse{}, ErrUploadTooLarge
	}

	student, err := s.identity.Student(ctx, principal)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !student.HasOrganization() {
		return dto.SubmissionResponse{}, ErrStudentWithoutOrganization
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTaskNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	if task.OrganizationID != *student.OrganizationID || !assignment.IsVisible(task, student) {
		return dto.SubmissionResponse{}, ErrTaskNotVisible
	}

	content, err := s.readFile(file)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	detected := mimetype.Detect(content)
	span.SetAttributes(attribute.String("upload.mime", detected.String()))
	if !allowedSubmissionType(detected) {
		return dto.SubmissionResponse{}, ErrUploadTypeNotAllowed
	}

	path := objectPath(student.ID, task.ID, s.now(), file.Filename)
	start := time.Now()
	url, err := s.storage.Upload(ctx, path, bytes.NewReader(content))
	observability.UploadLatency().Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to store submission file")
		return dto.SubmissionResponse{}, fmt.Errorf("store submission file: %w", err)
	}

	submission := models.Submission{
		TaskID:     task.ID,
		StudentID:  student.ID,
		FileURL:    url,
		UploadedAt: s.now().UTC(),
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		s.logger.Error().Err(err).
			Str("path", path).
			Str("file_url", url).
			Uint("task_id", task.ID).
			Uint("student_id", student.ID).
			Msg("submission row not recorded, stored object is orphaned")
		return dto.SubmissionResponse{}, fmt.Errorf("record submission: %w", err)
	}

	s.notifier.Notify(ctx, Change{
		ActorID:        student.ID,
		ActorRole:      RoleStudent,
		OrganizationID: task.OrganizationID,
		Action:         ActionSubmissionUploaded,
		EntityType:     "submission",
		EntityID:       submission.ID,
		Metadata: map[string]interface{}{
			"task_id":  task.ID,
			"file_url": url,
		},
	})

	submission.Task = task
	submission.Student = student
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) readFile(file *multipart.FileHeader) ([]byte, error) {
	handle, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return nil, err
	}
	if int64(buf.Len()) > s.maxSize {
		return nil, ErrUploadTooLarge
	}
	return buf.Bytes(), nil
}

// objectPath builds "<studentID>/<taskID>_<unixMillis>_<name>" with whitespace
// in the original name replaced by underscores.
func objectPath(studentID, taskID uint, at time.Time, filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == "/" || name == "" {
		name = "submission"
	}
	name = whitespacePattern.ReplaceAllString(name, "_")
	return fmt.Sprintf("%d/%d_%d_%s", studentID, taskID, at.UnixMilli(), name)
}

func allowedSubmissionType(detected *mimetype.MIME) bool {
	for mime := detected; mime != nil; mime = mime.Parent() {
		for _, allowed := range allowedSubmissionTypes {
			if strings.HasPrefix(mime.String(), allowed) {
				return true
			}
		}
	}
	return false
}

func uploadResult(err error) string {
	switch {
	case errors.Is(err, ErrUploadTooLarge):
		return "too_large"
	case errors.Is(err, ErrUploadTypeNotAllowed):
		return "type_rejected"
	case errors.Is(err, ErrTaskNotVisible), errors.Is(err, ErrTaskNotFound):
		return "task_rejected"
	case errors.Is(err, ErrSubmissionFileRequired):
		return "missing_file"
	default:
		return "failed"
	}
}
