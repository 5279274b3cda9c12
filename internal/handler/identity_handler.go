package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// IdentityHandler exposes the signed-in principal and registration.
type IdentityHandler struct {
	identity     service.IdentityService
	registration service.RegistrationService
	logger       zerolog.Logger
}

// NewIdentityHandler creates a new handler instance.
func NewIdentityHandler(identity service.IdentityService, registration service.RegistrationService, logger zerolog.Logger) *IdentityHandler {
	return &IdentityHandler{
		identity:     identity,
		registration: registration,
		logger:       logger.With().Str("component", "identity_handler").Logger(),
	}
}

// Register attaches the identity routes.
func (h *IdentityHandler) Register(router fiber.Router) {
	router.Get("/me", h.me)
	router.Post("/register", h.register)
}

func (h *IdentityHandler) me(c *fiber.Ctx) error {
	identity, err := h.identity.Current(c.UserContext(), principalFromContext(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "identity retrieved", identity)
}

func (h *IdentityHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	identity, err := h.registration.Register(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered", identity)
}
