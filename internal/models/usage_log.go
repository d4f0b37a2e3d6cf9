package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsageLog captures usage analytics events: who did what against which
// entity, with free-form metadata.
type UsageLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	Role       Role              `gorm:"column:rol;size:32;not null" json:"rol"`
	Action     string            `gorm:"column:accion;size:64;not null" json:"accion"`
	EntityType string            `gorm:"column:entidad;size:64;not null" json:"entidad"`
	EntityID   *uint             `gorm:"column:entidad_id" json:"entidad_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TableName keeps usage analytics under the original datos_uso table.
func (UsageLog) TableName() string { return "datos_uso" }
