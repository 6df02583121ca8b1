package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/service"
	"github.com/noah-isme/praktik-go-api/internal/utils"
)

// ShowcaseHandler serves the unauthenticated best-practicals listing.
type ShowcaseHandler struct {
	service service.ShowcaseService
	logger  zerolog.Logger
}

// NewShowcaseHandler builds a showcase handler instance.
func NewShowcaseHandler(service service.ShowcaseService, logger zerolog.Logger) *ShowcaseHandler {
	return &ShowcaseHandler{
		service: service,
		logger:  logger.With().Str("component", "showcase_handler").Logger(),
	}
}

// Register attaches the public showcase route.
func (h *ShowcaseHandler) Register(router fiber.Router) {
	router.Get("/showcase", h.list)
}

func (h *ShowcaseHandler) list(c *fiber.Ctx) error {
	showcase, err := h.service.List(c.Context())
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "showcase retrieved", showcase)
}
