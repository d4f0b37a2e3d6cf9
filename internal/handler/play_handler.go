package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// PlayHandler wires play session HTTP routes.
type PlayHandler struct {
	service service.PlayService
	logger  zerolog.Logger
}

// NewPlayHandler constructs the handler.
func NewPlayHandler(service service.PlayService, logger zerolog.Logger) *PlayHandler {
	return &PlayHandler{
		service: service,
		logger:  logger.With().Str("component", "play_handler").Logger(),
	}
}

// RegisterStudent attaches the record endpoint for students.
func (h *PlayHandler) RegisterStudent(router fiber.Router) {
	router.Post("", h.record)
	router.Get("/mias", h.myPlays)
}

// RegisterStaff attaches the per-student listing for docente and admin.
func (h *PlayHandler) RegisterStaff(router fiber.Router) {
	router.Get("/estudiante/:estudianteID", h.studentPlays)
}

func (h *PlayHandler) record(c *fiber.Ctx) error {
	var payload dto.PlayCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	recorded, err := h.service.Record(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "jugada registrada", recorded)
}

func (h *PlayHandler) myPlays(c *fiber.Ctx) error {
	return h.listPlays(c, userIDFromContext(c))
}

func (h *PlayHandler) studentPlays(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "estudianteID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	return h.listPlays(c, studentID)
}

func (h *PlayHandler) listPlays(c *fiber.Ctx, studentID uint) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	plays, err := h.service.ListByStudent(c.Context(), studentID, limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "jugadas recuperadas", plays)
}

func (h *PlayHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "usuario no encontrado")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
