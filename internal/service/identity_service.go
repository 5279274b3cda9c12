package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// Roles carried by authenticated principals.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Principal is the authenticated caller as asserted by the identity provider.
// Email is the join key to the teacher and student records.
type Principal struct {
	Subject string
	Email   string
	Role    string
}

// IdentityService resolves principals to their domain records.
type IdentityService interface {
	Current(ctx context.Context, principal Principal) (dto.IdentityResponse, error)
	Teacher(ctx context.Context, principal Principal) (models.Teacher, error)
	Student(ctx context.Context, principal Principal) (models.Student, error)
}

type identityService struct {
	teachers repository.TeacherRepository
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(teachers repository.TeacherRepository, students repository.StudentRepository, logger zerolog.Logger) IdentityService {
	return &identityService{
		teachers: teachers,
		students: students,
		logger:   logger.With().Str("component", "identity_service").Logger(),
	}
}

func (s *identityService) Current(ctx context.Context, principal Principal) (dto.IdentityResponse, error) {
	if strings.TrimSpace(principal.Email) == "" {
		return dto.IdentityResponse{}, ErrIdentityMissing
	}

	response := dto.IdentityResponse{
		Subject: principal.Subject,
		Email:   repository.NormalizeEmail(principal.Email),
		Role:    principal.Role,
	}

	if principal.Role != RoleStudent {
		teacher, err := s.Teacher(ctx, principal)
		switch {
		case err == nil:
			payload := dto.NewTeacherResponse(teacher)
			response.Teacher = &payload
			response.Role = RoleTeacher
			return response, nil
		case !errors.Is(err, ErrTeacherNotFound):
			return dto.IdentityResponse{}, err
		}
	}

	if principal.Role != RoleTeacher {
		student, err := s.Student(ctx, principal)
		switch {
		case err == nil:
			payload := dto.NewStudentResponse(student)
			response.Student = &payload
			response.Role = RoleStudent
			return response, nil
		case !errors.Is(err, ErrStudentNotFound):
			return dto.IdentityResponse{}, err
		}
	}

	// Authenticated but not registered yet.
	return response, nil
}

func (s *identityService) Teacher(ctx context.Context, principal Principal) (models.Teacher, error) {
	email := repository.NormalizeEmail(principal.Email)
	if email == "" {
		return models.Teacher{}, ErrIdentityMissing
	}

	teacher, err := s.teachers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, ErrTeacherNotFound
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to resolve teacher")
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (s *identityService) Student(ctx context.Context, principal Principal) (models.Student, error) {
	email := repository.NormalizeEmail(principal.Email)
	if email == "" {
		return models.Student{}, ErrIdentityMissing
	}

	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to resolve student")
		return models.Student{}, err
	}
	return student, nil
}
