package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/progression"
	"github.com/noah-isme/sinau-go-api/internal/service"
	"github.com/noah-isme/sinau-go-api/internal/utils"
)

// CourseHandler serves the catalog, the per-student outline and navigation.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler builds a course handler instance.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id/outline", h.outline)
	router.Get("/:id/navigation/next", h.next)
	router.Get("/:id/navigation/previous", h.previous)
}

// RegisterAdmin attaches authoring routes to an admin-scoped group.
func (h *CourseHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	courses, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) outline(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	outline, err := h.service.GetOutline(c.Context(), studentID, courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "outline retrieved", outline)
}

func (h *CourseHandler) next(c *fiber.Ctx) error {
	studentID, courseID, current, err := h.navigationArgs(c)
	if err != nil {
		return h.navigationArgsError(c, err)
	}

	response, err := h.service.NextLesson(c.Context(), studentID, courseID, current)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "next lesson resolved", response)
}

func (h *CourseHandler) previous(c *fiber.Ctx) error {
	studentID, courseID, current, err := h.navigationArgs(c)
	if err != nil {
		return h.navigationArgsError(c, err)
	}

	response, err := h.service.PreviousLesson(c.Context(), studentID, courseID, current)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "previous lesson resolved", response)
}

var errMissingIdentity = errors.New("authentication required")

// navigationArgs extracts the caller identity and the current position from
// the `module` and `lesson` query parameters.
func (h *CourseHandler) navigationArgs(c *fiber.Ctx) (uint, uint, progression.LessonRef, error) {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return 0, 0, progression.LessonRef{}, errMissingIdentity
	}

	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return 0, 0, progression.LessonRef{}, err
	}

	moduleIndex, err := parseQueryInt(c, "module")
	if err != nil {
		return 0, 0, progression.LessonRef{}, errors.New("invalid module index")
	}
	lessonIndex, err := parseQueryInt(c, "lesson")
	if err != nil {
		return 0, 0, progression.LessonRef{}, errors.New("invalid lesson index")
	}

	return studentID, courseID, progression.LessonRef{ModuleIndex: moduleIndex, LessonIndex: lessonIndex}, nil
}

func (h *CourseHandler) navigationArgsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errMissingIdentity) {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}
	return utils.SendError(c, fiber.StatusBadRequest, err.Error())
}

func (h *CourseHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
