package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// LeaderboardEntry is one row of the ranking.
type LeaderboardEntry struct {
	Position int       `json:"posicion"`
	UserID   uint      `json:"usuario_id"`
	Name     string    `json:"nombre"`
	Points   int       `json:"puntos"`
	Date     time.Time `json:"fecha"`
}

// LeaderboardResponse is the cached ranking view.
type LeaderboardResponse struct {
	Entries    []LeaderboardEntry `json:"posiciones"`
	ComputedAt time.Time          `json:"calculado_en"`
}

// NewLeaderboardEntry converts a ranking row into a DTO.
func NewLeaderboardEntry(model models.Ranking) LeaderboardEntry {
	return LeaderboardEntry{
		Position: model.Position,
		UserID:   model.UserID,
		Name:     model.User.Name,
		Points:   model.Points,
		Date:     model.ComputedAt,
	}
}
