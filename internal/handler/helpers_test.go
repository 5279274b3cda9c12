package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/config"
	"github.com/noah-isme/classroom-api/internal/service"
)

func serveError(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeServiceError(c, zerolog.Nop(), err)
	})

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrIdentityMissing, http.StatusUnauthorized},
		{service.ErrTeacherNotFound, http.StatusNotFound},
		{service.ErrStudentNotFound, http.StatusNotFound},
		{service.ErrOrganizationNotFound, http.StatusNotFound},
		{service.ErrGroupNotFound, http.StatusNotFound},
		{service.ErrTaskNotFound, http.StatusNotFound},
		{service.ErrTaskNotVisible, http.StatusForbidden},
		{service.ErrAlreadyRegistered, http.StatusConflict},
		{service.ErrTeacherWithoutOrganization, http.StatusConflict},
		{service.ErrStudentWithoutOrganization, http.StatusConflict},
		{service.ErrSubmissionFileRequired, http.StatusBadRequest},
		{service.ErrUploadTooLarge, http.StatusRequestEntityTooLarge},
		{service.ErrUploadTypeNotAllowed, http.StatusUnsupportedMediaType},
		{fmt.Errorf("wrapped: %w", service.ErrTaskNotVisible), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, body := serveError(t, tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, false, body["success"])
		})
	}
}

func TestWriteServiceErrorHidesInternalDetails(t *testing.T) {
	status, body := serveError(t, errors.New("pq: connection refused"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "internal server error", body["message"])

	status, body = serveError(t, fmt.Errorf("%w: %v", service.ErrOrganizationLinkFailed, errors.New("deadlock")))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, service.ErrOrganizationLinkFailed.Error(), body["message"])
}

func TestWriteServiceErrorReportsInvalidTaskField(t *testing.T) {
	err := assignment.ValidateTaskInput(assignment.TaskInput{Title: "Essay", TargetType: "student"})
	require.Error(t, err)

	status, body := serveError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "target_student", details["field"])
}

func TestWriteServiceErrorListsValidatorFields(t *testing.T) {
	payload := struct {
		Name string `validate:"required"`
	}{}
	err := validator.New().Struct(payload)

	status, body := serveError(t, err)
	require.Equal(t, http.StatusBadRequest, status)
	details, ok := body["details"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 1)
	first := details[0].(map[string]interface{})
	require.Equal(t, "Name", first["field"])
	require.Equal(t, "required", first["rule"])
}

func TestHealthCheckReportsConfiguration(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HealthCheck(config.Config{AppName: "Classroom API", AppEnv: "test", Timezone: "Europe/Riga"}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool           `json:"success"`
		Data    HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, "Europe/Riga", body.Data.Timezone)
}

func TestParseUintParamRejectsZero(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := parseUintParam(c, "id")
		if err != nil {
			return c.Status(http.StatusBadRequest).SendString(err.Error())
		}
		return c.SendString(fmt.Sprint(id))
	})

	for path, expected := range map[string]int{"/12": http.StatusOK, "/0": http.StatusBadRequest, "/abc": http.StatusBadRequest} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, expected, resp.StatusCode, path)
	}
}
