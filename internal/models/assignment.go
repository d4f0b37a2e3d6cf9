package models

import "time"

// Assignment states. Transitions only move forward: asignada -> entregada ->
// calificada. A graded assignment may be re-graded but never returns to an
// earlier state.
const (
	AssignmentStatusAssigned  = "asignada"
	AssignmentStatusSubmitted = "entregada"
	AssignmentStatusGraded    = "calificada"
)

// Assignment links an activity to a student and carries the submission and
// its grade. At most one assignment exists per (activity, student).
type Assignment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ActivityID     uint       `gorm:"column:actividad_id;not null;uniqueIndex:idx_asignacion_actividad_estudiante" json:"actividad_id"`
	StudentID      uint       `gorm:"column:estudiante_id;not null;uniqueIndex:idx_asignacion_actividad_estudiante" json:"estudiante_id"`
	TeacherID      uint       `gorm:"column:docente_id;not null;index" json:"docente_id"`
	Status         string     `gorm:"column:estado;size:32;not null;default:asignada" json:"estado"`
	SubmissionText string     `gorm:"column:texto_entrega;type:text" json:"texto_entrega"`
	SubmissionURL  string     `gorm:"column:archivo_entrega;size:512" json:"archivo_entrega"`
	SubmittedAt    *time.Time `gorm:"column:fecha_entregado" json:"fecha_entregado"`
	Grade          *float64   `gorm:"column:calificacion" json:"calificacion"`
	Feedback       string     `gorm:"column:retroalimentacion;type:text" json:"retroalimentacion"`
	GradedAt       *time.Time `gorm:"column:fecha_retro" json:"fecha_retro"`
	GradedBy       *uint      `gorm:"column:calificada_por" json:"calificada_por"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Activity       Activity   `gorm:"foreignKey:ActivityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"actividad"`
	Student        User       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"estudiante"`
}

// IsSubmitted reports whether the student already handed in work.
func (a Assignment) IsSubmitted() bool {
	return a.Status == AssignmentStatusSubmitted || a.Status == AssignmentStatusGraded
}

// IsGraded reports whether the assignment carries a final grade.
func (a Assignment) IsGraded() bool {
	return a.Status == AssignmentStatusGraded
}
