package models

import "time"

// Attendance statuses.
const (
	AttendanceStatusPresent = "presente"
	AttendanceStatusAbsent  = "ausente"
	AttendanceStatusLate    = "tarde"
)

// Attendance is a per-student-per-day record written by a teacher. The
// unique index keeps one record per student per date; re-recording the same
// day updates the existing row.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"column:estudiante_id;not null;uniqueIndex:idx_asistencia_estudiante_fecha" json:"estudiante_id"`
	TeacherID uint      `gorm:"column:docente_id;not null;index" json:"docente_id"`
	Date      time.Time `gorm:"column:fecha;type:date;not null;uniqueIndex:idx_asistencia_estudiante_fecha" json:"fecha"`
	Status    string    `gorm:"column:estado;size:32;not null" json:"estado"`
	Incidents string    `gorm:"column:incidencias;type:text" json:"incidencias"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Student   User      `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"estudiante"`
}

// TableName keeps attendance under the original asistencias table.
func (Attendance) TableName() string { return "asistencias" }

// ValidAttendanceStatus reports whether the status is a known variant.
func ValidAttendanceStatus(status string) bool {
	switch status {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	}
	return false
}
