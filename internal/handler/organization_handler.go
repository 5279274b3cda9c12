package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// OrganizationHandler manages the organization directory and membership.
type OrganizationHandler struct {
	service service.OrganizationService
	logger  zerolog.Logger
}

// NewOrganizationHandler creates a new handler instance.
func NewOrganizationHandler(service service.OrganizationService, logger zerolog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		service: service,
		logger:  logger.With().Str("component", "organization_handler").Logger(),
	}
}

// Register attaches the organization routes.
func (h *OrganizationHandler) Register(router fiber.Router) {
	router.Get("", h.directory)
	router.Post("", middleware.RequireRole(service.RoleTeacher), h.create)
	router.Post("/:id/join", middleware.RequireRole(service.RoleStudent), h.join)
}

func (h *OrganizationHandler) directory(c *fiber.Ctx) error {
	entries, err := h.service.Directory(c.UserContext())
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "organizations retrieved", entries)
}

func (h *OrganizationHandler) create(c *fiber.Ctx) error {
	var payload dto.OrganizationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	organization, err := h.service.Create(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "organization created", organization)
}

func (h *OrganizationHandler) join(c *fiber.Ctx) error {
	organizationID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.service.Join(c.UserContext(), principalFromContext(c), organizationID)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "organization joined", student)
}
