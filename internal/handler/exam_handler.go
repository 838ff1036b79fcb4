package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/service"
	"github.com/noah-isme/sinau-go-api/internal/utils"
)

// ExamHandler manages exam submission and module verdict endpoints.
type ExamHandler struct {
	service service.ExamService
	logger  zerolog.Logger
}

// NewExamHandler builds an exam handler instance.
func NewExamHandler(service service.ExamService, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ExamHandler) Register(router fiber.Router) {
	router.Post("/submissions", h.submit)
	router.Get("/:id/attempts", h.listAttempts)
	router.Get("/modules/:id/outcome", h.moduleOutcome)
}

func (h *ExamHandler) submit(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ExamSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Submit(c.Context(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission recorded", submission)
}

func (h *ExamHandler) listAttempts(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attempts, err := h.service.ListAttempts(c.Context(), studentID, examID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attempts retrieved", attempts)
}

func (h *ExamHandler) moduleOutcome(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	moduleID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	outcome, found, err := h.service.ModuleOutcome(c.Context(), studentID, moduleID)
	if err != nil {
		return h.handleError(c, err)
	}
	if !found {
		return utils.SendSuccess(c, "no submissions yet", nil)
	}

	return utils.SendSuccess(c, "module outcome retrieved", outcome)
}

func (h *ExamHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrModuleLocked):
		return utils.SendError(c, fiber.StatusForbidden, "module is locked")
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrModuleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "module not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
