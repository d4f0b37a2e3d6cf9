package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// LevelHandler wires level catalog HTTP routes.
type LevelHandler struct {
	service service.LevelService
	logger  zerolog.Logger
}

// NewLevelHandler constructs the handler.
func NewLevelHandler(service service.LevelService, logger zerolog.Logger) *LevelHandler {
	return &LevelHandler{
		service: service,
		logger:  logger.With().Str("component", "level_handler").Logger(),
	}
}

// Register attaches read endpoints available to every authenticated role.
func (h *LevelHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/usuario/:usuarioID", h.listByUser)
}

// RegisterAdmin attaches catalog management endpoints.
func (h *LevelHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *LevelHandler) list(c *fiber.Ctx) error {
	levels, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "niveles recuperados", levels)
}

func (h *LevelHandler) listByUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "usuarioID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if role := userRoleFromContext(c); role.IsStudent() && userID != userIDFromContext(c) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own levels")
	}

	levels, err := h.service.ListByUser(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "niveles del usuario recuperados", levels)
}

func (h *LevelHandler) create(c *fiber.Ctx) error {
	var payload dto.LevelRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	level, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "nivel creado", level)
}

func (h *LevelHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LevelRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	level, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "nivel actualizado", level)
}

func (h *LevelHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "nivel eliminado", fiber.Map{"id": id})
}

func (h *LevelHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrLevelNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "nivel no encontrado")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
