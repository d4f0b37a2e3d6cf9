package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// BadgeHandler wires badge catalog HTTP routes.
type BadgeHandler struct {
	service service.BadgeService
	logger  zerolog.Logger
}

// NewBadgeHandler constructs the handler.
func NewBadgeHandler(service service.BadgeService, logger zerolog.Logger) *BadgeHandler {
	return &BadgeHandler{
		service: service,
		logger:  logger.With().Str("component", "badge_handler").Logger(),
	}
}

// Register attaches read endpoints available to every authenticated role.
func (h *BadgeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/usuario/:usuarioID", h.listByUser)
}

// RegisterAdmin attaches catalog management endpoints.
func (h *BadgeHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Delete("/usuario/:usuarioID/:id", h.revoke)
}

func (h *BadgeHandler) list(c *fiber.Ctx) error {
	badges, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "insignias recuperadas", badges)
}

func (h *BadgeHandler) listByUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "usuarioID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if role := userRoleFromContext(c); role.IsStudent() && userID != userIDFromContext(c) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own badges")
	}

	badges, err := h.service.ListByUser(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "insignias del usuario recuperadas", badges)
}

func (h *BadgeHandler) create(c *fiber.Ctx) error {
	var payload dto.BadgeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	badge, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "insignia creada", badge)
}

func (h *BadgeHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.BadgeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	badge, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "insignia actualizada", badge)
}

func (h *BadgeHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "insignia eliminada", fiber.Map{"id": id})
}

func (h *BadgeHandler) revoke(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "usuarioID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	badgeID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Revoke(c.Context(), userID, badgeID); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "insignia revocada", fiber.Map{"usuario_id": userID, "insignia_id": badgeID})
}

func (h *BadgeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrBadgeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "insignia no encontrada")
	case errors.Is(err, service.ErrAwardNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "el usuario no posee esa insignia")
	case errors.Is(err, service.ErrInvalidCriterion):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
