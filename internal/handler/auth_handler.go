package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/service"
	"github.com/noah-isme/praktik-go-api/internal/utils"
)

// AuthHandler serves registration, role-scoped login and password rotation.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the public auth routes to the provided router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register/student", h.register(models.RoleStudent))
	router.Post("/register/teacher", h.register(models.RoleTeacher))
	router.Post("/register/hod", h.register(models.RoleHOD))
	router.Post("/register/admin", h.register(models.RoleAdmin))
	router.Post("/login", h.login)
}

// RegisterProtected attaches the routes requiring an authenticated user.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Put("/password", h.updatePassword)
}

func (h *AuthHandler) register(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload dto.RegisterRequest
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}

		user, err := h.service.Register(c.Context(), role, payload)
		if err != nil {
			return handleServiceError(c, *requestLogger(h.logger, c), err)
		}

		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registration successful", user)
	}
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) updatePassword(c *fiber.Ctx) error {
	var payload dto.PasswordUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.UpdatePassword(c.Context(), userIDFromContext(c), payload); err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "password updated", nil)
}
