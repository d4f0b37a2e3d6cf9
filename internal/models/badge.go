package models

import "time"

// Badge is awarded when its criterion predicate is satisfied by a user's
// aggregate state. The criterion is stored as rule text and parsed by the
// rules package; an unparseable criterion is skipped during evaluation.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Description string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	Criterion   string    `gorm:"column:criterio;type:text;not null" json:"criterio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps badges under the original insignias table.
func (Badge) TableName() string { return "insignias" }

// UserBadge is the join entity between users and badges. Uniqueness on
// (user, badge) makes awards idempotent; rows are only removed through the
// explicit admin revocation endpoint, never by the cascade.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:usuario_id;not null;uniqueIndex:idx_usuario_insignia" json:"usuario_id"`
	BadgeID   uint      `gorm:"column:insignia_id;not null;uniqueIndex:idx_usuario_insignia" json:"insignia_id"`
	AwardedAt time.Time `gorm:"column:fecha_otorgada;not null" json:"fecha_otorgada"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Badge     Badge     `gorm:"foreignKey:BadgeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"insignia"`
}

// TableName keeps the pivot under the original usuario_insignias table.
func (UserBadge) TableName() string { return "usuario_insignias" }
