package models

import "time"

// Level is unlocked once a user's point total reaches its threshold.
type Level struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	RequiredPoints int       `gorm:"column:requisito_puntos;not null;index" json:"requisito_puntos"`
	Difficulty     string    `gorm:"column:dificultad;size:64" json:"dificultad"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName keeps levels under the original niveles table.
func (Level) TableName() string { return "niveles" }

// UserLevel is the join entity between users and levels. The unique index is
// the backstop against double assignment under concurrent cascades, and
// rows are never removed: level assignment is monotonic.
type UserLevel struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:usuario_id;not null;uniqueIndex:idx_usuario_nivel" json:"usuario_id"`
	LevelID    uint      `gorm:"column:nivel_id;not null;uniqueIndex:idx_usuario_nivel" json:"nivel_id"`
	AssignedAt time.Time `gorm:"column:fecha_asignacion;not null" json:"fecha_asignacion"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Level      Level     `gorm:"foreignKey:LevelID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"nivel"`
}

// TableName keeps the pivot under the original usuario_niveles table.
func (UserLevel) TableName() string { return "usuario_niveles" }
