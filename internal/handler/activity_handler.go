package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ActivityHandler lists the audit trail of the teacher's organization.
type ActivityHandler struct {
	activity service.ActivityService
	identity service.IdentityService
	logger   zerolog.Logger
}

// NewActivityHandler creates a new handler instance.
func NewActivityHandler(activity service.ActivityService, identity service.IdentityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		identity: identity,
		logger:   logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the activity route.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/activity", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	if limit == 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	teacher, err := h.identity.Teacher(c.UserContext(), principalFromContext(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if !teacher.HasOrganization() {
		return writeServiceError(c, h.logger, service.ErrTeacherWithoutOrganization)
	}

	entries, err := h.activity.List(c.UserContext(), *teacher.OrganizationID, limit)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity retrieved", entries)
}
