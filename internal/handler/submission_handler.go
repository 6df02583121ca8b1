package handler

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/service"
	"github.com/noah-isme/praktik-go-api/internal/utils"
)

// SubmissionHandler serves the practical submission workflow endpoints.
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

// RegisterStudent attaches the student-side submission routes.
func (h *SubmissionHandler) RegisterStudent(router fiber.Router) {
	router.Get("/practicals/:id/submission", h.open)
	router.Post("/practicals/:id/submission/draft", h.saveDraft)
	router.Post("/practicals/:id/submission/submit", h.submit)
}

// RegisterTeacher attaches the teacher review routes.
func (h *SubmissionHandler) RegisterTeacher(router fiber.Router) {
	router.Post("/submissions/:id/approve", h.approve)
	router.Post("/submissions/:id/reject", h.reject)
	router.Post("/submissions/:id/best", h.markBest)
}

func (h *SubmissionHandler) open(c *fiber.Ctx) error {
	practicalID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Open(c.Context(), actorFromContext(c), practicalID)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) saveDraft(c *fiber.Ctx) error {
	practicalID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.SaveDraft(c.Context(), actorFromContext(c), practicalID, optionalFile(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "draft saved", submission)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	practicalID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Submit(c.Context(), actorFromContext(c), practicalID, optionalFile(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "submission submitted", submission)
}

func (h *SubmissionHandler) approve(c *fiber.Ctx) error {
	return h.review(c, h.service.Approve, "submission approved")
}

func (h *SubmissionHandler) reject(c *fiber.Ctx) error {
	return h.review(c, h.service.Reject, "submission rejected")
}

func (h *SubmissionHandler) review(c *fiber.Ctx, verdict func(ctx context.Context, actor authz.Actor, id uint, payload dto.ReviewRequest) (dto.SubmissionResponse, error), message string) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := verdict(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, message, submission)
}

func (h *SubmissionHandler) markBest(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.MarkBest(c.Context(), actorFromContext(c), id)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "best practical updated", submission)
}

func optionalFile(c *fiber.Ctx) *multipart.FileHeader {
	file, err := c.FormFile("file")
	if err != nil {
		return nil
	}
	return file
}
