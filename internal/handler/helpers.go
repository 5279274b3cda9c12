package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

func principalFromContext(c *fiber.Ctx) service.Principal {
	subject, _ := c.Locals(middleware.LocalUserSubject).(string)
	email, _ := c.Locals(middleware.LocalUserEmail).(string)
	role, _ := c.Locals(middleware.LocalUserRole).(string)
	return service.Principal{Subject: subject, Email: email, Role: role}
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func validationDetails(errs validator.ValidationErrors) []fieldError {
	details := make([]fieldError, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return details
}

// writeServiceError maps service and validation errors onto the JSON envelope.
func writeServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrs validator.ValidationErrors
	var taskErr *assignment.ValidationError

	switch {
	case errors.As(err, &taskErr):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, taskErr.Error(), fiber.Map{"field": taskErr.Field})
	case errors.As(err, &validationErrs):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request", validationDetails(validationErrs))
	case errors.Is(err, service.ErrIdentityMissing):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrTeacherNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrOrganizationNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTaskNotVisible):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrTeacherWithoutOrganization),
		errors.Is(err, service.ErrStudentWithoutOrganization):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSubmissionFileRequired):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrOrganizationLinkFailed):
		reqLogger := middleware.RequestLogger(c, logger)
		reqLogger.Error().Err(err).Msg("organization link failed")
		return utils.SendError(c, fiber.StatusInternalServerError, service.ErrOrganizationLinkFailed.Error())
	default:
		reqLogger := middleware.RequestLogger(c, logger)
		reqLogger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
