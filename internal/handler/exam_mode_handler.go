package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/service"
	"github.com/noah-isme/praktik-go-api/internal/utils"
)

// ExamModeHandler serves the department exam switch.
type ExamModeHandler struct {
	service service.ExamModeService
	logger  zerolog.Logger
}

// NewExamModeHandler builds an exam mode handler instance.
func NewExamModeHandler(service service.ExamModeService, logger zerolog.Logger) *ExamModeHandler {
	return &ExamModeHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_mode_handler").Logger(),
	}
}

// Register attaches the exam mode routes to the provided router group.
func (h *ExamModeHandler) Register(router fiber.Router) {
	router.Get("/exam-mode", h.status)
	router.Put("/exam-mode", h.toggle)
}

func (h *ExamModeHandler) status(c *fiber.Ctx) error {
	mode, err := h.service.Status(c.Context(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "exam mode retrieved", mode)
}

func (h *ExamModeHandler) toggle(c *fiber.Ctx) error {
	var payload dto.ExamModeToggleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	mode, err := h.service.Toggle(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "exam mode updated", mode)
}
