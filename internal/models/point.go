package models

import "time"

// PointEntry is one row of the append-only points ledger. Amount is signed;
// a user's total is always the sum of their entries. Entries are never
// updated or deleted.
type PointEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	Amount    int       `gorm:"column:cantidad;not null" json:"cantidad"`
	Reason    string    `gorm:"column:motivo;size:255;not null" json:"motivo"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TableName keeps the ledger under the original puntos table.
func (PointEntry) TableName() string { return "puntos" }
