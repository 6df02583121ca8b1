package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/service"
	"github.com/noah-isme/praktik-go-api/internal/utils"
)

// DashboardHandler serves the role landing views and the examiner lookup.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler builds a dashboard handler instance.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// RegisterStudent attaches the student dashboard route.
func (h *DashboardHandler) RegisterStudent(router fiber.Router) {
	router.Get("/dashboard", h.student)
}

// RegisterTeacher attaches the teacher dashboard route.
func (h *DashboardHandler) RegisterTeacher(router fiber.Router) {
	router.Get("/dashboard", h.teacher)
}

// RegisterHOD attaches the HOD dashboard route.
func (h *DashboardHandler) RegisterHOD(router fiber.Router) {
	router.Get("/dashboard", h.hod)
}

// RegisterAdmin attaches the admin dashboard route.
func (h *DashboardHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/dashboard", h.admin)
}

// RegisterExaminer attaches the examiner dashboard and lookup routes.
func (h *DashboardHandler) RegisterExaminer(router fiber.Router) {
	router.Get("/dashboard", h.examiner)
	router.Get("/students/lookup", h.studentLookup)
}

func (h *DashboardHandler) student(c *fiber.Ctx) error {
	dashboard, err := h.service.Student(c.Context(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) teacher(c *fiber.Ctx) error {
	dashboard, err := h.service.Teacher(c.Context(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) hod(c *fiber.Ctx) error {
	dashboard, err := h.service.HOD(c.Context(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) admin(c *fiber.Ctx) error {
	dashboard, err := h.service.Admin(c.Context(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) examiner(c *fiber.Ctx) error {
	dashboard, err := h.service.Examiner(c.Context(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) studentLookup(c *fiber.Ctx) error {
	var query dto.StudentLookupRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.StudentLookup(c.Context(), actorFromContext(c), query)
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "student record retrieved", result)
}
