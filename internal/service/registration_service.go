package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// RegistrationService creates the domain record for a freshly signed-up principal.
type RegistrationService interface {
	Register(ctx context.Context, principal Principal, req dto.RegisterRequest) (dto.IdentityResponse, error)
}

type registrationService struct {
	teachers  repository.TeacherRepository
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(teachers repository.TeacherRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) RegistrationService {
	return &registrationService{
		teachers:  teachers,
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "registration_service").Logger(),
	}
}

func (s *registrationService) Register(ctx context.Context, principal Principal, req dto.RegisterRequest) (dto.IdentityResponse, error) {
	email := repository.NormalizeEmail(principal.Email)
	if email == "" {
		return dto.IdentityResponse{}, ErrIdentityMissing
	}

	req.FullName = sanitizeText(s.sanitizer, req.FullName)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := s.validator.Struct(req); err != nil {
		return dto.IdentityResponse{}, err
	}

	if err := s.ensureUnregistered(ctx, email); err != nil {
		return dto.IdentityResponse{}, err
	}

	response := dto.IdentityResponse{Subject: principal.Subject, Email: email, Role: req.Role}

	switch req.Role {
	case RoleTeacher:
		teacher := models.Teacher{FullName: req.FullName, Email: email}
		if err := s.teachers.Create(ctx, &teacher); err != nil {
			s.logger.Error().Err(err).Str("email", email).Msg("failed to register teacher")
			return dto.IdentityResponse{}, err
		}
		payload := dto.NewTeacherResponse(teacher)
		response.Teacher = &payload
	default:
		student := models.Student{FullName: req.FullName, Email: email}
		if err := s.students.Create(ctx, &student); err != nil {
			s.logger.Error().Err(err).Str("email", email).Msg("failed to register student")
			return dto.IdentityResponse{}, err
		}
		payload := dto.NewStudentResponse(student)
		response.Student = &payload
	}

	s.logger.Info().Str("email", email).Str("role", req.Role).Msg("principal registered")
	return response, nil
}

func (s *registrationService) ensureUnregistered(ctx context.Context, email string) error {
	if _, err := s.teachers.GetByEmail(ctx, email); err == nil {
		return ErrAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.students.GetByEmail(ctx, email); err == nil {
		return ErrAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
