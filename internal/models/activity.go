package models

import "time"

// Activity is a gradable task authored by a teacher and tied to a theme.
type Activity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeacherID    uint      `gorm:"column:docente_id;not null;index" json:"docente_id"`
	ThemeID      uint      `gorm:"column:tematica_id;not null;index" json:"tematica_id"`
	Title        string    `gorm:"column:titulo;size:255;not null" json:"titulo"`
	Description  string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	DueDate      time.Time `gorm:"column:fecha_entrega;not null" json:"fecha_entrega"`
	MaterialURL  string    `gorm:"column:material_url;size:512" json:"material_url"`
	RewardPoints int       `gorm:"column:puntos_recompensa;not null;default:0" json:"puntos_recompensa"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Teacher      User      `gorm:"foreignKey:TeacherID" json:"-"`
	Theme        Theme     `gorm:"foreignKey:ThemeID" json:"tematica"`
}

// IsPastDue returns true when the activity deadline has already passed.
func (a Activity) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
