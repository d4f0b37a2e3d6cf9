package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// AssignmentCreateRequest links an activity to a student.
type AssignmentCreateRequest struct {
	ActivityID uint `json:"actividad_id" validate:"required,gt=0"`
	StudentID  uint `json:"estudiante_id" validate:"required,gt=0"`
}

// AssignmentFilter carries query-string filters for assignment listings.
type AssignmentFilter struct {
	ActivityID *uint   `query:"actividad_id"`
	StudentID  *uint   `query:"estudiante_id"`
	TeacherID  *uint   `query:"docente_id"`
	Status     *string `query:"estado" validate:"omitempty,oneof=asignada entregada calificada"`
}

// SubmissionRequest is the student's hand-in payload. Text and file are
// alternatives; at least one must be present.
type SubmissionRequest struct {
	Text string `form:"texto_entrega" validate:"omitempty,max=20000"`
}

// GradeRequest writes or overwrites the grade and feedback.
type GradeRequest struct {
	Grade    float64 `json:"calificacion" validate:"gte=0,lte=100"`
	Feedback string  `json:"retroalimentacion" validate:"omitempty,max=5000"`
}

// AssignmentResponse serializes an assignment with its submission state.
type AssignmentResponse struct {
	ID             uint         `json:"id"`
	ActivityID     uint         `json:"actividad_id"`
	StudentID      uint         `json:"estudiante_id"`
	TeacherID      uint         `json:"docente_id"`
	Status         string       `json:"estado"`
	SubmissionText string       `json:"texto_entrega"`
	SubmissionURL  string       `json:"archivo_entrega"`
	SubmittedAt    *time.Time   `json:"fecha_entregado"`
	Grade          *float64     `json:"calificacion"`
	Feedback       string       `json:"retroalimentacion"`
	GradedAt       *time.Time   `json:"fecha_retro"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Activity       ActivityLite `json:"actividad"`
	Student        UserLite     `json:"estudiante"`
}

// ActivityLite summarizes an activity inside assignment responses.
type ActivityLite struct {
	ID           uint      `json:"id"`
	Title        string    `json:"titulo"`
	DueDate      time.Time `json:"fecha_entrega"`
	RewardPoints int       `json:"puntos_recompensa"`
}

// UserLite summarizes a user without exposing full profile data.
type UserLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:             model.ID,
		ActivityID:     model.ActivityID,
		StudentID:      model.StudentID,
		TeacherID:      model.TeacherID,
		Status:         model.Status,
		SubmissionText: model.SubmissionText,
		SubmissionURL:  model.SubmissionURL,
		SubmittedAt:    model.SubmittedAt,
		Grade:          model.Grade,
		Feedback:       model.Feedback,
		GradedAt:       model.GradedAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}

	if model.Activity.ID != 0 {
		response.Activity = ActivityLite{
			ID:           model.Activity.ID,
			Title:        model.Activity.Title,
			DueDate:      model.Activity.DueDate,
			RewardPoints: model.Activity.RewardPoints,
		}
	}

	if model.Student.ID != 0 {
		response.Student = UserLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	return response
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}
	return responses
}
