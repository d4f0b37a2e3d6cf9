package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// AssignmentHandler wires the assign, submit and grade HTTP routes.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches endpoints shared by every authenticated role.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterStudent attaches the hand-in endpoint.
func (h *AssignmentHandler) RegisterStudent(router fiber.Router) {
	router.Post("/:id/entrega", h.submit)
}

// RegisterStaff attaches assignment and grading endpoints.
func (h *AssignmentHandler) RegisterStaff(router fiber.Router) {
	router.Post("", h.assign)
	router.Post("/:id/calificar", h.grade)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	filter, err := parseAssignmentFilter(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	// Students only ever see their own assignments.
	if role := userRoleFromContext(c); role.IsStudent() {
		self := userIDFromContext(c)
		filter.StudentID = &self
	}

	assignments, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "asignaciones recuperadas", assignments)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	if role := userRoleFromContext(c); role.IsStudent() && assignment.StudentID != userIDFromContext(c) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own assignments")
	}

	return utils.SendSuccess(c, "asignación recuperada", assignment)
}

func (h *AssignmentHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacherID := userIDFromContext(c)
	if userRoleFromContext(c).IsAdmin() {
		teacherID = 0
	}

	assignment, err := h.service.Assign(c.Context(), teacherID, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "actividad asignada", assignment)
}

func (h *AssignmentHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.SubmissionRequest{Text: c.FormValue("texto_entrega")}

	file, err := c.FormFile("archivo")
	if err != nil {
		file = nil
	}

	assignment, err := h.service.Submit(c.Context(), userIDFromContext(c), id, payload, file)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "entrega registrada", assignment)
}

func (h *AssignmentHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacherID := userIDFromContext(c)
	if userRoleFromContext(c).IsAdmin() {
		teacherID = 0
	}

	assignment, cascade, err := h.service.Grade(c.Context(), teacherID, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "asignación calificada", fiber.Map{
		"asignacion":   assignment,
		"gamificacion": cascade,
	})
}

func parseAssignmentFilter(c *fiber.Ctx) (dto.AssignmentFilter, error) {
	var filter dto.AssignmentFilter

	activityID, err := parseQueryUintPtr(c, "actividad_id")
	if err != nil {
		return filter, errors.New("invalid actividad_id")
	}
	studentID, err := parseQueryUintPtr(c, "estudiante_id")
	if err != nil {
		return filter, errors.New("invalid estudiante_id")
	}
	teacherID, err := parseQueryUintPtr(c, "docente_id")
	if err != nil {
		return filter, errors.New("invalid docente_id")
	}

	filter.ActivityID = activityID
	filter.StudentID = studentID
	filter.TeacherID = teacherID
	if status := c.Query("estado"); status != "" {
		filter.Status = &status
	}

	return filter, nil
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "asignación no encontrada")
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "actividad no encontrada")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "usuario no encontrado")
	case errors.Is(err, service.ErrAlreadyAssigned):
		return utils.SendError(c, fiber.StatusConflict, "la actividad ya fue asignada a ese estudiante")
	case errors.Is(err, service.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusConflict, "la asignación ya fue entregada")
	case errors.Is(err, service.ErrNotAssignedStudent), errors.Is(err, service.ErrNotAssignmentOwner), errors.Is(err, service.ErrNotActivityOwner):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotStudentRecipient):
		return utils.SendError(c, fiber.StatusBadRequest, "solo se puede asignar a estudiantes")
	case errors.Is(err, service.ErrNotSubmitted):
		return utils.SendError(c, fiber.StatusConflict, "la asignación no tiene entrega que calificar")
	case errors.Is(err, service.ErrEmptySubmission):
		return utils.SendError(c, fiber.StatusBadRequest, "la entrega necesita texto o un archivo")
	case errors.Is(err, service.ErrUnsupportedUpload):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
