package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// SubmissionHandler manages student submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes. Upload handlers run after the given guards,
// typically a rate limiter.
func (h *SubmissionHandler) Register(router fiber.Router, uploadGuards ...fiber.Handler) {
	router.Get("/submissions", h.list)

	handlers := append(append([]fiber.Handler{}, uploadGuards...), h.upload)
	router.Post("/tasks/:id/submissions", handlers...)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	submissions, err := h.service.ListForStudent(c.UserContext(), principalFromContext(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) upload(c *fiber.Ctx) error {
	taskID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrSubmissionFileRequired.Error())
	}

	submission, err := h.service.Upload(c.UserContext(), principalFromContext(c), taskID, file)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission uploaded", submission)
}
