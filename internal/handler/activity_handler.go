package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// ActivityHandler wires activity catalog HTTP routes.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches read endpoints for every authenticated role.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterStaff attaches activity management endpoints.
func (h *ActivityHandler) RegisterStaff(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	teacherID, err := parseQueryUintPtr(c, "docente_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid docente_id")
	}
	themeID, err := parseQueryUintPtr(c, "tematica_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tematica_id")
	}

	activities, err := h.service.List(c.Context(), dto.ActivityFilter{TeacherID: teacherID, ThemeID: themeID})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "actividades recuperadas", activities)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "actividad recuperada", activity)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	payload, err := parseActivityForm(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	material, err := c.FormFile("material")
	if err != nil {
		material = nil
	}

	activity, err := h.service.Create(c.Context(), h.actingTeacher(c), payload, material)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "actividad creada", activity)
}

func (h *ActivityHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActivityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.Update(c.Context(), h.actingTeacher(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "actividad actualizada", activity)
}

func (h *ActivityHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), h.actingTeacher(c), id); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "actividad eliminada", fiber.Map{"id": id})
}

// actingTeacher returns the caller's id for ownership checks, or zero for
// admins, who may edit any activity.
func (h *ActivityHandler) actingTeacher(c *fiber.Ctx) uint {
	if userRoleFromContext(c).IsAdmin() {
		return 0
	}
	return userIDFromContext(c)
}

func parseActivityForm(c *fiber.Ctx) (dto.ActivityCreateRequest, error) {
	var payload dto.ActivityCreateRequest

	themeID, err := strconv.ParseUint(c.FormValue("tematica_id"), 10, 64)
	if err != nil {
		return payload, errors.New("invalid tematica_id")
	}

	dueDate, err := parseFlexibleDate(c.FormValue("fecha_entrega"))
	if err != nil {
		return payload, errors.New("invalid fecha_entrega")
	}

	rewardPoints := 0
	if raw := c.FormValue("puntos_recompensa"); raw != "" {
		rewardPoints, err = strconv.Atoi(raw)
		if err != nil {
			return payload, errors.New("invalid puntos_recompensa")
		}
	}

	payload.ThemeID = uint(themeID)
	payload.Title = c.FormValue("titulo")
	payload.Description = c.FormValue("descripcion")
	payload.DueDate = dueDate
	payload.RewardPoints = rewardPoints

	return payload, nil
}

func parseFlexibleDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *ActivityHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "actividad no encontrada")
	case errors.Is(err, service.ErrThemeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "temática no encontrada")
	case errors.Is(err, service.ErrNotActivityOwner):
		return utils.SendError(c, fiber.StatusForbidden, "la actividad pertenece a otro docente")
	case errors.Is(err, service.ErrUnsupportedUpload):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
