package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// AttendanceHandler wires attendance HTTP routes.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// RegisterStudent attaches the student's own attendance view.
func (h *AttendanceHandler) RegisterStudent(router fiber.Router) {
	router.Get("/mias", h.myAttendance)
}

// RegisterStaff attaches recording and listing endpoints.
func (h *AttendanceHandler) RegisterStaff(router fiber.Router) {
	router.Post("", h.record)
	router.Get("", h.list)
}

func (h *AttendanceHandler) record(c *fiber.Ctx) error {
	var payload dto.AttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.service.Record(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "asistencia registrada", record)
}

func (h *AttendanceHandler) list(c *fiber.Ctx) error {
	filter, err := parseAttendanceFilter(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "asistencias recuperadas", records)
}

func (h *AttendanceHandler) myAttendance(c *fiber.Ctx) error {
	filter, err := parseAttendanceFilter(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	self := userIDFromContext(c)
	filter.StudentID = &self

	records, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "asistencias recuperadas", records)
}

func parseAttendanceFilter(c *fiber.Ctx) (service.AttendanceFilterParams, error) {
	var filter service.AttendanceFilterParams

	studentID, err := parseQueryUintPtr(c, "estudiante_id")
	if err != nil {
		return filter, errors.New("invalid estudiante_id")
	}
	date, err := parseQueryDatePtr(c, "fecha")
	if err != nil {
		return filter, errors.New("invalid fecha")
	}
	from, err := parseQueryDatePtr(c, "desde")
	if err != nil {
		return filter, errors.New("invalid desde")
	}
	to, err := parseQueryDatePtr(c, "hasta")
	if err != nil {
		return filter, errors.New("invalid hasta")
	}

	filter.StudentID = studentID
	filter.Date = date
	filter.From = from
	filter.To = to
	return filter, nil
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "usuario no encontrado")
	case errors.Is(err, service.ErrNotStudentRecipient):
		return utils.SendError(c, fiber.StatusBadRequest, "la asistencia solo aplica a estudiantes")
	case errors.Is(err, service.ErrFutureAttendance):
		return utils.SendError(c, fiber.StatusBadRequest, "la fecha no puede ser futura")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
