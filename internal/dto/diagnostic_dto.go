package dto

import (
	"encoding/json"
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// DiagnosticTestRequest creates or updates a diagnostic test.
type DiagnosticTestRequest struct {
	Title       string `json:"titulo" validate:"required,min=2,max=255"`
	Description string `json:"descripcion" validate:"omitempty,max=5000"`
}

// DiagnosticQuestionRequest adds a question to a test. Options must include
// the correct answer; the payload shape is additionally checked against a
// JSON schema before persisting.
type DiagnosticQuestionRequest struct {
	Statement     string   `json:"enunciado" validate:"required,min=3"`
	Options       []string `json:"opciones" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"respuesta_correcta" validate:"required"`
}

// DiagnosticAnswerItem is one answer within a submission.
type DiagnosticAnswerItem struct {
	QuestionID uint   `json:"pregunta_id" validate:"required,gt=0"`
	Answer     string `json:"respuesta" validate:"required"`
}

// DiagnosticSubmitRequest is a student's full answer set for a test.
type DiagnosticSubmitRequest struct {
	Answers []DiagnosticAnswerItem `json:"respuestas" validate:"required,min=1,dive"`
}

// DiagnosticTestResponse serializes a test with its questions. The correct
// answer is withheld for students.
type DiagnosticTestResponse struct {
	ID          uint                         `json:"id"`
	TeacherID   uint                         `json:"docente_id"`
	Title       string                       `json:"titulo"`
	Description string                       `json:"descripcion"`
	CreatedAt   time.Time                    `json:"created_at"`
	Questions   []DiagnosticQuestionResponse `json:"preguntas,omitempty"`
}

// DiagnosticQuestionResponse serializes a question.
type DiagnosticQuestionResponse struct {
	ID            uint     `json:"id"`
	TestID        uint     `json:"prueba_id"`
	Statement     string   `json:"enunciado"`
	Options       []string `json:"opciones"`
	CorrectAnswer string   `json:"respuesta_correcta,omitempty"`
}

// DiagnosticResultResponse serializes the aggregate outcome.
type DiagnosticResultResponse struct {
	TestID     uint      `json:"prueba_id"`
	StudentID  uint      `json:"estudiante_id"`
	Correct    int       `json:"correctas"`
	Total      int       `json:"total"`
	Percentage float64   `json:"porcentaje"`
	Category   string    `json:"categoria"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewDiagnosticQuestionResponse converts a question model into a DTO.
// includeAnswer controls whether respuesta_correcta is exposed.
func NewDiagnosticQuestionResponse(model models.DiagnosticQuestion, includeAnswer bool) DiagnosticQuestionResponse {
	var options []string
	_ = json.Unmarshal(model.Options, &options)

	response := DiagnosticQuestionResponse{
		ID:        model.ID,
		TestID:    model.TestID,
		Statement: model.Statement,
		Options:   options,
	}

	if includeAnswer {
		response.CorrectAnswer = model.CorrectAnswer
	}

	return response
}

// NewDiagnosticTestResponse converts a test model into a DTO.
func NewDiagnosticTestResponse(model models.DiagnosticTest, includeAnswers bool) DiagnosticTestResponse {
	response := DiagnosticTestResponse{
		ID:          model.ID,
		TeacherID:   model.TeacherID,
		Title:       model.Title,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}

	for _, question := range model.Questions {
		response.Questions = append(response.Questions, NewDiagnosticQuestionResponse(question, includeAnswers))
	}

	return response
}

// NewDiagnosticTestResponseSlice converts test models into DTOs.
func NewDiagnosticTestResponseSlice(tests []models.DiagnosticTest) []DiagnosticTestResponse {
	responses := make([]DiagnosticTestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, NewDiagnosticTestResponse(test, false))
	}
	return responses
}

// NewDiagnosticResultResponse converts a result model into a DTO.
func NewDiagnosticResultResponse(model models.DiagnosticResult) DiagnosticResultResponse {
	return DiagnosticResultResponse{
		TestID:     model.TestID,
		StudentID:  model.StudentID,
		Correct:    model.Correct,
		Total:      model.Total,
		Percentage: model.Percentage,
		Category:   model.Category,
		CreatedAt:  model.CreatedAt,
	}
}

// NewDiagnosticResultResponseSlice converts result models into DTOs.
func NewDiagnosticResultResponseSlice(results []models.DiagnosticResult) []DiagnosticResultResponse {
	responses := make([]DiagnosticResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewDiagnosticResultResponse(result))
	}
	return responses
}
