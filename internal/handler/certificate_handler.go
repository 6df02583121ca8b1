package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/service"
	"github.com/noah-isme/praktik-go-api/internal/utils"
)

// CertificateHandler serves the certificate approval chain endpoints.
type CertificateHandler struct {
	service service.CertificateService
	logger  zerolog.Logger
}

// NewCertificateHandler builds a certificate handler instance.
func NewCertificateHandler(service service.CertificateService, logger zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		service: service,
		logger:  logger.With().Str("component", "certificate_handler").Logger(),
	}
}

// RegisterStudent attaches the student-side certificate routes.
func (h *CertificateHandler) RegisterStudent(router fiber.Router) {
	router.Get("/certificates", h.listStudent)
	router.Post("/subjects/:subjectId/certificate/submit", h.submit)
}

// RegisterTeacher attaches the teacher-side certificate routes.
func (h *CertificateHandler) RegisterTeacher(router fiber.Router) {
	router.Get("/certificates", h.listTeacher)
	router.Post("/subjects/:subjectId/certificate/template", h.addTemplate)
	router.Post("/certificates/:id/approve", h.approveTeacher)
	router.Post("/certificates/:id/reject", h.rejectTeacher)
	router.Post("/certificate-attachments/:id/feedback", h.reviewAttachment)
}

// RegisterHOD attaches the HOD-side certificate routes.
func (h *CertificateHandler) RegisterHOD(router fiber.Router) {
	router.Get("/certificates", h.listHOD)
	router.Post("/certificates/:id/approve", h.approveHOD)
}

// RegisterExaminer attaches the examiner-side certificate routes.
func (h *CertificateHandler) RegisterExaminer(router fiber.Router) {
	router.Get("/certificates", h.listExaminer)
	router.Post("/certificates/:id/certify", h.certify)
	router.Post("/certificates/:id/reject", h.rejectExaminer)
}

func (h *CertificateHandler) submit(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "subjectId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	certificate, err := h.service.Submit(c.Context(), actorFromContext(c), subjectID, file)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "certificate submitted", certificate)
}

func (h *CertificateHandler) addTemplate(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "subjectId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	certificate, err := h.service.AddTemplate(c.Context(), actorFromContext(c), subjectID, optionalFile(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "certificate template added", certificate)
}

func (h *CertificateHandler) approveTeacher(c *fiber.Ctx) error {
	return h.advance(c, h.service.ApproveTeacher, "certificate sent to hod")
}

func (h *CertificateHandler) rejectTeacher(c *fiber.Ctx) error {
	return h.advance(c, h.service.RejectTeacher, "certificate rejected")
}

func (h *CertificateHandler) approveHOD(c *fiber.Ctx) error {
	return h.advance(c, h.service.ApproveHOD, "certificate sent to examiner")
}

func (h *CertificateHandler) certify(c *fiber.Ctx) error {
	return h.advance(c, h.service.Certify, "certificate certified")
}

func (h *CertificateHandler) rejectExaminer(c *fiber.Ctx) error {
	return h.advance(c, h.service.RejectExaminer, "certificate rejected")
}

func (h *CertificateHandler) advance(c *fiber.Ctx, verdict func(ctx context.Context, actor authz.Actor, id uint, payload dto.ReviewRequest) (dto.CertificateResponse, error), message string) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	certificate, err := verdict(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, message, certificate)
}

func (h *CertificateHandler) reviewAttachment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ReviewAttachment(c.Context(), actorFromContext(c), id, payload); err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "attachment feedback saved", nil)
}

func (h *CertificateHandler) listStudent(c *fiber.Ctx) error {
	return h.list(c, h.service.ListForStudent)
}

func (h *CertificateHandler) listTeacher(c *fiber.Ctx) error {
	return h.list(c, h.service.ListForTeacher)
}

func (h *CertificateHandler) listHOD(c *fiber.Ctx) error {
	return h.list(c, h.service.ListForHOD)
}

func (h *CertificateHandler) listExaminer(c *fiber.Ctx) error {
	return h.list(c, h.service.ListForExaminer)
}

func (h *CertificateHandler) list(c *fiber.Ctx, fetch func(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error)) error {
	certificates, err := fetch(c.Context(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "certificates retrieved", certificates)
}
