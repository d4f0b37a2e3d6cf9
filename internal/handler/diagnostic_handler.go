package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// DiagnosticHandler wires diagnostic test HTTP routes.
type DiagnosticHandler struct {
	service service.DiagnosticService
	logger  zerolog.Logger
}

// NewDiagnosticHandler constructs the handler.
func NewDiagnosticHandler(service service.DiagnosticService, logger zerolog.Logger) *DiagnosticHandler {
	return &DiagnosticHandler{
		service: service,
		logger:  logger.With().Str("component", "diagnostic_handler").Logger(),
	}
}

// Register attaches endpoints shared by every authenticated role.
func (h *DiagnosticHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterStudent attaches the answer-submission and result endpoints.
func (h *DiagnosticHandler) RegisterStudent(router fiber.Router) {
	router.Post("/:id/responder", h.submit)
	router.Get("/:id/resultado", h.result)
	router.Get("/resultados/mios", h.myResults)
}

// RegisterStaff attaches test management endpoints.
func (h *DiagnosticHandler) RegisterStaff(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/preguntas", h.addQuestion)
	router.Get("/:id/resultados/:estudianteID", h.studentResult)
}

func (h *DiagnosticHandler) list(c *fiber.Ctx) error {
	teacherID, err := parseQueryUintPtr(c, "docente_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid docente_id")
	}

	tests, err := h.service.ListTests(c.Context(), teacherID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "pruebas recuperadas", tests)
}

func (h *DiagnosticHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	// Students never see respuesta_correcta.
	includeAnswers := !userRoleFromContext(c).IsStudent()

	test, err := h.service.GetTest(c.Context(), id, includeAnswers)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "prueba recuperada", test)
}

func (h *DiagnosticHandler) create(c *fiber.Ctx) error {
	var payload dto.DiagnosticTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	test, err := h.service.CreateTest(c.Context(), h.actingTeacher(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "prueba creada", test)
}

func (h *DiagnosticHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DiagnosticTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	test, err := h.service.UpdateTest(c.Context(), h.actingTeacher(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "prueba actualizada", test)
}

func (h *DiagnosticHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteTest(c.Context(), h.actingTeacher(c), id); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "prueba eliminada", fiber.Map{"id": id})
}

func (h *DiagnosticHandler) addQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DiagnosticQuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.AddQuestion(c.Context(), h.actingTeacher(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "pregunta agregada", question)
}

func (h *DiagnosticHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DiagnosticSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Submit(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "respuestas registradas", result)
}

func (h *DiagnosticHandler) result(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.GetResult(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "resultado recuperado", result)
}

func (h *DiagnosticHandler) myResults(c *fiber.Ctx) error {
	results, err := h.service.ListResults(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "resultados recuperados", results)
}

func (h *DiagnosticHandler) studentResult(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := parseUintParam(c, "estudianteID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.GetResult(c.Context(), id, studentID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "resultado recuperado", result)
}

func (h *DiagnosticHandler) actingTeacher(c *fiber.Ctx) uint {
	if userRoleFromContext(c).IsAdmin() {
		return 0
	}
	return userIDFromContext(c)
}

func (h *DiagnosticHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "prueba no encontrada")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resultado no encontrado")
	case errors.Is(err, service.ErrNotTestOwner):
		return utils.SendError(c, fiber.StatusForbidden, "la prueba pertenece a otro docente")
	case errors.Is(err, service.ErrTestHasNoQuestion):
		return utils.SendError(c, fiber.StatusConflict, "la prueba no tiene preguntas")
	case errors.Is(err, service.ErrAnswerMismatch):
		return utils.SendError(c, fiber.StatusBadRequest, "las respuestas no corresponden a las preguntas de la prueba")
	case errors.Is(err, service.ErrInvalidQuestion):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
