package models

import "time"

// Ranking stores a user's position at the time of the last recompute.
// Positions derive from ledger totals and are replaced wholesale on each
// recompute; the redis leaderboard is the read-optimized view.
type Ranking struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:usuario_id;not null;uniqueIndex" json:"usuario_id"`
	Position   int       `gorm:"column:posicion;not null" json:"posicion"`
	Points     int       `gorm:"column:puntos;not null" json:"puntos"`
	ComputedAt time.Time `gorm:"column:fecha;not null" json:"fecha"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"usuario"`
}

// TableName keeps rankings under the original rankings table.
func (Ranking) TableName() string { return "rankings" }
