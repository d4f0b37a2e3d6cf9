package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// AttendanceRequest records or corrects a per-day attendance entry.
type AttendanceRequest struct {
	StudentID uint   `json:"estudiante_id" validate:"required,gt=0"`
	Date      string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Status    string `json:"estado" validate:"required,oneof=presente ausente tarde"`
	Incidents string `json:"incidencias" validate:"omitempty,max=2000"`
}

// AttendanceResponse serializes an attendance record.
type AttendanceResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"estudiante_id"`
	TeacherID uint      `json:"docente_id"`
	Date      string    `json:"fecha"`
	Status    string    `json:"estado"`
	Incidents string    `json:"incidencias"`
	Student   UserLite  `json:"estudiante"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttendanceResponse converts an Attendance model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	response := AttendanceResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		TeacherID: model.TeacherID,
		Date:      model.Date.Format("2006-01-02"),
		Status:    model.Status,
		Incidents: model.Incidents,
		CreatedAt: model.CreatedAt,
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

// NewAttendanceResponseSlice converts attendance models into DTOs.
func NewAttendanceResponseSlice(records []models.Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceResponse(record))
	}
	return responses
}
