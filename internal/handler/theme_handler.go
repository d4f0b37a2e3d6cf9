package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// ThemeHandler wires curriculum theme HTTP routes.
type ThemeHandler struct {
	service service.ThemeService
	logger  zerolog.Logger
}

// NewThemeHandler constructs the handler.
func NewThemeHandler(service service.ThemeService, logger zerolog.Logger) *ThemeHandler {
	return &ThemeHandler{
		service: service,
		logger:  logger.With().Str("component", "theme_handler").Logger(),
	}
}

// Register attaches the read endpoint for every authenticated role.
func (h *ThemeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterStaff attaches theme management endpoints.
func (h *ThemeHandler) RegisterStaff(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ThemeHandler) list(c *fiber.Ctx) error {
	themes, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "temáticas recuperadas", themes)
}

func (h *ThemeHandler) create(c *fiber.Ctx) error {
	var payload dto.ThemeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	theme, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "temática creada", theme)
}

func (h *ThemeHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ThemeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	theme, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "temática actualizada", theme)
}

func (h *ThemeHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "temática eliminada", fiber.Map{"id": id})
}

func (h *ThemeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrThemeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "temática no encontrada")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
