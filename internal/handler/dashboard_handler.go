package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/service"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// DashboardHandler wires the student dashboard HTTP route.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// RegisterStudent attaches the dashboard endpoint for the acting student.
func (h *DashboardHandler) RegisterStudent(router fiber.Router) {
	router.Get("/estudiante", h.student)
}

// RegisterStaff lets docente and admin inspect any student's dashboard.
func (h *DashboardHandler) RegisterStaff(router fiber.Router) {
	router.Get("/estudiante/:estudianteID", h.studentByID)
}

func (h *DashboardHandler) student(c *fiber.Ctx) error {
	dashboard, err := h.service.Student(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "panel recuperado", dashboard)
}

func (h *DashboardHandler) studentByID(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "estudianteID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	dashboard, err := h.service.Student(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "panel recuperado", dashboard)
}

func (h *DashboardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "usuario no encontrado")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
