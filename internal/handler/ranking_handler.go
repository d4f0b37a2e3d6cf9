package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// RankingHandler wires leaderboard HTTP routes.
type RankingHandler struct {
	service service.RankingService
	logger  zerolog.Logger
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(service service.RankingService, logger zerolog.Logger) *RankingHandler {
	return &RankingHandler{
		service: service,
		logger:  logger.With().Str("component", "ranking_handler").Logger(),
	}
}

// Register attaches leaderboard endpoints for every authenticated role.
func (h *RankingHandler) Register(router fiber.Router) {
	router.Get("", h.leaderboard)
	router.Get("/mi-posicion", h.myPosition)
}

// RegisterStaff attaches the explicit recompute endpoint.
func (h *RankingHandler) RegisterStaff(router fiber.Router) {
	router.Post("/recalcular", h.recompute)
}

func (h *RankingHandler) leaderboard(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	board, err := h.service.Leaderboard(c.Context(), limit)
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "ranking recuperado", board)
}

func (h *RankingHandler) myPosition(c *fiber.Ctx) error {
	position, err := h.service.PositionFor(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "posición recuperada", fiber.Map{"posicion": position})
}

func (h *RankingHandler) recompute(c *fiber.Ctx) error {
	board, err := h.service.Recompute(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "ranking recalculado", board)
}

func (h *RankingHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
