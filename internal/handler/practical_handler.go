package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/service"
	"github.com/noah-isme/praktik-go-api/internal/utils"
)

// PracticalHandler serves practical management under subjects.
type PracticalHandler struct {
	service service.PracticalService
	logger  zerolog.Logger
}

// NewPracticalHandler builds a practical handler instance.
func NewPracticalHandler(service service.PracticalService, logger zerolog.Logger) *PracticalHandler {
	return &PracticalHandler{
		service: service,
		logger:  logger.With().Str("component", "practical_handler").Logger(),
	}
}

// Register attaches the practical routes to the provided router group.
func (h *PracticalHandler) Register(router fiber.Router) {
	router.Get("/subjects/:subjectId/practicals", h.listBySubject)
	router.Post("/subjects/:subjectId/practicals", h.create)
	router.Get("/practicals/:id", h.get)
}

func (h *PracticalHandler) listBySubject(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "subjectId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	practicals, err := h.service.ListBySubject(c.Context(), subjectID)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "practicals retrieved", practicals)
}

func (h *PracticalHandler) create(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "subjectId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.PracticalCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	practical, err := h.service.Create(c.Context(), actorFromContext(c), subjectID, payload)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "practical created", practical)
}

func (h *PracticalHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	practical, err := h.service.GetByID(c.Context(), actorFromContext(c), id)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "practical retrieved", practical)
}
