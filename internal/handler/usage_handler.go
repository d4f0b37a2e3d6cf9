package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// UsageHandler wires usage analytics HTTP routes.
type UsageHandler struct {
	service service.UsageService
	logger  zerolog.Logger
}

// NewUsageHandler constructs the handler.
func NewUsageHandler(service service.UsageService, logger zerolog.Logger) *UsageHandler {
	return &UsageHandler{
		service: service,
		logger:  logger.With().Str("component", "usage_handler").Logger(),
	}
}

// Register attaches the event ingestion endpoint for every authenticated role.
func (h *UsageHandler) Register(router fiber.Router) {
	router.Post("", h.record)
}

// RegisterAdmin attaches the analytics listing.
func (h *UsageHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
}

func (h *UsageHandler) record(c *fiber.Ctx) error {
	var payload dto.UsageLogCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Record(c.Context(), userIDFromContext(c), userRoleFromContext(c), payload); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendCreated(c, "evento registrado", nil)
}

func (h *UsageHandler) list(c *fiber.Ctx) error {
	var payload dto.UsageLogListRequest
	if err := c.QueryParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	events, err := h.service.List(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "eventos recuperados", events)
}
