package models

import "time"

// Resource is a teacher-owned file or link tied to a theme. Students only
// see resources flagged visible.
type Resource struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TeacherID        uint      `gorm:"column:docente_id;not null;index" json:"docente_id"`
	ThemeID          uint      `gorm:"column:tematica_id;not null;index" json:"tematica_id"`
	Name             string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Description      string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	URL              string    `gorm:"column:url;size:512;not null" json:"url"`
	VisibleToStudent bool      `gorm:"column:visible_estudiantes;not null;default:false" json:"visible_estudiantes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Theme            Theme     `gorm:"foreignKey:ThemeID" json:"tematica"`
}

// TableName keeps resources under the original recursos table.
func (Resource) TableName() string { return "recursos" }
