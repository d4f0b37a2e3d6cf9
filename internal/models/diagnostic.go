package models

import (
	"time"

	"gorm.io/datatypes"
)

// DiagnosticTest is a question bank owned by a teacher.
type DiagnosticTest struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	TeacherID   uint                 `gorm:"column:docente_id;not null;index" json:"docente_id"`
	Title       string               `gorm:"column:titulo;size:255;not null" json:"titulo"`
	Description string               `gorm:"column:descripcion;type:text" json:"descripcion"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Questions   []DiagnosticQuestion `gorm:"foreignKey:TestID" json:"preguntas,omitempty"`
}

// TableName keeps tests under the original pruebas_diagnosticas table.
func (DiagnosticTest) TableName() string { return "pruebas_diagnosticas" }

// DiagnosticQuestion holds the options as a JSON array and the exact text of
// the correct option. Grading is exact string match against respuesta_correcta.
type DiagnosticQuestion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TestID        uint           `gorm:"column:prueba_id;not null;index" json:"prueba_id"`
	Statement     string         `gorm:"column:enunciado;type:text;not null" json:"enunciado"`
	Options       datatypes.JSON `gorm:"column:opciones;type:json;not null" json:"opciones"`
	CorrectAnswer string         `gorm:"column:respuesta_correcta;size:512;not null" json:"respuesta_correcta"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName keeps questions under the original preguntas table.
func (DiagnosticQuestion) TableName() string { return "preguntas" }

// DiagnosticAnswer records one student answer to one question of a test.
type DiagnosticAnswer struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	TestID     uint               `gorm:"column:prueba_id;not null;index" json:"prueba_id"`
	QuestionID uint               `gorm:"column:pregunta_id;not null;uniqueIndex:idx_respuesta_pregunta_estudiante" json:"pregunta_id"`
	StudentID  uint               `gorm:"column:estudiante_id;not null;uniqueIndex:idx_respuesta_pregunta_estudiante" json:"estudiante_id"`
	Answer     string             `gorm:"column:respuesta;size:512;not null" json:"respuesta"`
	Correct    bool               `gorm:"column:correcta;not null" json:"correcta"`
	CreatedAt  time.Time          `json:"created_at"`
	Question   DiagnosticQuestion `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student    User               `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TableName keeps answers under the original respuestas table.
func (DiagnosticAnswer) TableName() string { return "respuestas" }

// DiagnosticResult is the aggregate outcome of a student's answer set for a
// test. Categoria comes from the configured thresholds, never hardcoded.
type DiagnosticResult struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TestID     uint      `gorm:"column:prueba_id;not null;uniqueIndex:idx_resultado_prueba_estudiante" json:"prueba_id"`
	StudentID  uint      `gorm:"column:estudiante_id;not null;uniqueIndex:idx_resultado_prueba_estudiante" json:"estudiante_id"`
	Correct    int       `gorm:"column:correctas;not null" json:"correctas"`
	Total      int       `gorm:"column:total;not null" json:"total"`
	Percentage float64   `gorm:"column:porcentaje;not null" json:"porcentaje"`
	Category   string    `gorm:"column:categoria;size:32;not null" json:"categoria"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps results under the original resultados_diagnosticos table.
func (DiagnosticResult) TableName() string { return "resultados_diagnosticos" }
