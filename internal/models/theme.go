package models

import "time"

// Theme groups activities and resources under a curriculum topic.
type Theme struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Description string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
