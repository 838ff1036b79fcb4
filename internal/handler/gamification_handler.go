package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/service"
	"github.com/noah-isme/sinau-go-api/internal/utils"
)

// GamificationHandler serves the points profile and recent award events.
type GamificationHandler struct {
	service service.GamificationService
	logger  zerolog.Logger
}

// NewGamificationHandler builds a gamification handler instance.
func NewGamificationHandler(service service.GamificationService, logger zerolog.Logger) *GamificationHandler {
	return &GamificationHandler{
		service: service,
		logger:  logger.With().Str("component", "gamification_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GamificationHandler) Register(router fiber.Router) {
	router.Get("/profile", h.profile)
	router.Get("/events", h.events)
}

func (h *GamificationHandler) profile(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.GetProfile(c.Context(), studentID)
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *GamificationHandler) events(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	events, err := h.service.RecentEvents(c.Context(), studentID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "events retrieved", events)
}
