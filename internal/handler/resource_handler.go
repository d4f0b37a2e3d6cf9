package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// ResourceHandler wires classroom resource HTTP routes.
type ResourceHandler struct {
	service service.ResourceService
	logger  zerolog.Logger
}

// NewResourceHandler constructs the handler.
func NewResourceHandler(service service.ResourceService, logger zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		logger:  logger.With().Str("component", "resource_handler").Logger(),
	}
}

// Register attaches read endpoints for every authenticated role. Students
// only see resources flagged visible.
func (h *ResourceHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterStaff attaches resource management endpoints.
func (h *ResourceHandler) RegisterStaff(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ResourceHandler) list(c *fiber.Ctx) error {
	teacherID, err := parseQueryUintPtr(c, "docente_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid docente_id")
	}
	themeID, err := parseQueryUintPtr(c, "tematica_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tematica_id")
	}

	studentView := userRoleFromContext(c).IsStudent()
	resources, err := h.service.List(c.Context(), dto.ResourceFilter{TeacherID: teacherID, ThemeID: themeID}, studentView)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "recursos recuperados", resources)
}

func (h *ResourceHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	resource, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	if userRoleFromContext(c).IsStudent() && !resource.VisibleToStudent {
		return utils.SendError(c, fiber.StatusNotFound, "recurso no encontrado")
	}

	return utils.SendSuccess(c, "recurso recuperado", resource)
}

func (h *ResourceHandler) create(c *fiber.Ctx) error {
	payload, err := parseResourceForm(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("archivo")
	if err != nil {
		file = nil
	}

	teacherID := userIDFromContext(c)
	resource, err := h.service.Create(c.Context(), teacherID, payload, file)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "recurso creado", resource)
}

func (h *ResourceHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ResourceUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resource, err := h.service.Update(c.Context(), h.actingTeacher(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "recurso actualizado", resource)
}

func (h *ResourceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), h.actingTeacher(c), id); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "recurso eliminado", fiber.Map{"id": id})
}

func (h *ResourceHandler) actingTeacher(c *fiber.Ctx) uint {
	if userRoleFromContext(c).IsAdmin() {
		return 0
	}
	return userIDFromContext(c)
}

func parseResourceForm(c *fiber.Ctx) (dto.ResourceCreateRequest, error) {
	var payload dto.ResourceCreateRequest

	themeID, err := strconv.ParseUint(c.FormValue("tematica_id"), 10, 64)
	if err != nil {
		return payload, errors.New("invalid tematica_id")
	}

	visible := false
	if raw := c.FormValue("visible_estudiantes"); raw != "" {
		visible, err = strconv.ParseBool(raw)
		if err != nil {
			return payload, errors.New("invalid visible_estudiantes")
		}
	}

	payload.ThemeID = uint(themeID)
	payload.Name = c.FormValue("nombre")
	payload.Description = c.FormValue("descripcion")
	payload.URL = c.FormValue("url")
	payload.VisibleToStudent = visible

	return payload, nil
}

func (h *ResourceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "recurso no encontrado")
	case errors.Is(err, service.ErrThemeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "temática no encontrada")
	case errors.Is(err, service.ErrNotResourceOwner):
		return utils.SendError(c, fiber.StatusForbidden, "el recurso pertenece a otro docente")
	case errors.Is(err, service.ErrEmptyResource):
		return utils.SendError(c, fiber.StatusBadRequest, "el recurso necesita una url o un archivo")
	case errors.Is(err, service.ErrUnsupportedUpload):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
