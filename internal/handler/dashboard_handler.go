package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// TeacherDashboardHandler exposes the teacher snapshot.
type TeacherDashboardHandler struct {
	service service.TeacherDashboardService
	logger  zerolog.Logger
}

// NewTeacherDashboardHandler creates a new handler instance.
func NewTeacherDashboardHandler(service service.TeacherDashboardService, logger zerolog.Logger) *TeacherDashboardHandler {
	return &TeacherDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "teacher_dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint.
func (h *TeacherDashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
}

func (h *TeacherDashboardHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.GetDashboard(c.UserContext(), principalFromContext(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

// StudentDashboardHandler exposes the student snapshot.
type StudentDashboardHandler struct {
	service service.StudentDashboardService
	logger  zerolog.Logger
}

// NewStudentDashboardHandler creates a new handler instance.
func NewStudentDashboardHandler(service service.StudentDashboardService, logger zerolog.Logger) *StudentDashboardHandler {
	return &StudentDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "student_dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint.
func (h *StudentDashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
}

func (h *StudentDashboardHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.GetDashboard(c.UserContext(), principalFromContext(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
