package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/service"
	"github.com/noah-isme/sinau-go-api/internal/utils"
)

// CertificateHandler serves issued certificates for the authenticated student.
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

// Register attaches the routes to the provided router group.
func (h *CertificateHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/courses/:id", h.forCourse)
}

func (h *CertificateHandler) list(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	certificates, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "certificates retrieved", certificates)
}

func (h *CertificateHandler) forCourse(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	certificate, found, err := h.service.GetForCourse(c.Context(), studentID, courseID)
	if err != nil {
		return h.handleError(c, err)
	}
	if !found {
		return utils.SendError(c, fiber.StatusNotFound, "certificate not found")
	}

	return utils.SendSuccess(c, "certificate retrieved", certificate)
}

func (h *CertificateHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
