package models

import "time"

// Play records one session of a gamified exercise and the score achieved.
// Recording a play feeds the points ledger through the cascade.
type Play struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"column:estudiante_id;not null;index" json:"estudiante_id"`
	Game      string    `gorm:"column:juego;size:255;not null" json:"juego"`
	Score     int       `gorm:"column:puntuacion;not null" json:"puntuacion"`
	Duration  int       `gorm:"column:duracion_segundos;not null;default:0" json:"duracion_segundos"`
	CreatedAt time.Time `json:"created_at"`
	Student   User      `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TableName keeps plays under the original jugadas table.
func (Play) TableName() string { return "jugadas" }
