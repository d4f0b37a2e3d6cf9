package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// PointHandler wires the point ledger and cascade HTTP routes.
type PointHandler struct {
	service service.GamificationService
	logger  zerolog.Logger
}

// NewPointHandler constructs the handler.
func NewPointHandler(service service.GamificationService, logger zerolog.Logger) *PointHandler {
	return &PointHandler{
		service: service,
		logger:  logger.With().Str("component", "point_handler").Logger(),
	}
}

// Register attaches student-readable point endpoints.
func (h *PointHandler) Register(router fiber.Router) {
	router.Get("/usuario/:usuarioID/total", h.total)
	router.Get("/usuario/:usuarioID/historial", h.history)
}

// RegisterStaff attaches endpoints restricted to docente and admin roles.
func (h *PointHandler) RegisterStaff(router fiber.Router) {
	router.Post("/otorgar", h.award)
	router.Post("/revocar", h.revoke)
	router.Post("/usuario/:usuarioID/verificar-niveles", h.checkLevels)
	router.Post("/usuario/:usuarioID/verificar-insignias", h.checkBadges)
}

func (h *PointHandler) award(c *fiber.Ctx) error {
	var payload dto.PointMutationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	outcome, err := h.service.Award(c.Context(), payload.UserID, payload.Amount, payload.Reason)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "puntos otorgados", outcome)
}

func (h *PointHandler) revoke(c *fiber.Ctx) error {
	var payload dto.PointMutationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	total, err := h.service.Revoke(c.Context(), payload.UserID, payload.Amount, payload.Reason)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "puntos revocados", total)
}

func (h *PointHandler) total(c *fiber.Ctx) error {
	userID, err := h.targetUser(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	}

	total, err := h.service.Total(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "total recuperado", total)
}

func (h *PointHandler) history(c *fiber.Ctx) error {
	userID, err := h.targetUser(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	entries, err := h.service.History(c.Context(), userID, limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "historial recuperado", entries)
}

func (h *PointHandler) checkLevels(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "usuarioID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	granted, err := h.service.CheckLevels(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "niveles verificados", granted)
}

func (h *PointHandler) checkBadges(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "usuarioID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.CheckBadges(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "insignias verificadas", result)
}

// targetUser resolves the :usuarioID parameter. Students may only query
// their own ledger; docente and admin may query anyone.
func (h *PointHandler) targetUser(c *fiber.Ctx) (uint, error) {
	userID, err := parseUintParam(c, "usuarioID")
	if err != nil {
		return 0, err
	}

	role := userRoleFromContext(c)
	if role.IsStudent() && userID != userIDFromContext(c) {
		return 0, errors.New("students may only view their own points")
	}

	return userID, nil
}

func (h *PointHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "usuario no encontrado")
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrEmptyReason):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
