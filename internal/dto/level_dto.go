package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// LevelRequest creates or updates a level definition.
type LevelRequest struct {
	Name           string `json:"nombre" validate:"required,min=2,max=255"`
	RequiredPoints int    `json:"requisito_puntos" validate:"gte=0"`
	Difficulty     string `json:"dificultad" validate:"omitempty,max=64"`
}

// LevelResponse serializes a level definition.
type LevelResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"nombre"`
	RequiredPoints int       `json:"requisito_puntos"`
	Difficulty     string    `json:"dificultad"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewLevelResponse converts a Level model into a DTO.
func NewLevelResponse(model models.Level) LevelResponse {
	return LevelResponse{
		ID:             model.ID,
		Name:           model.Name,
		RequiredPoints: model.RequiredPoints,
		Difficulty:     model.Difficulty,
		CreatedAt:      model.CreatedAt,
	}
}

// NewLevelResponseSlice converts level models into DTOs.
func NewLevelResponseSlice(levels []models.Level) []LevelResponse {
	responses := make([]LevelResponse, 0, len(levels))
	for _, level := range levels {
		responses = append(responses, NewLevelResponse(level))
	}
	return responses
}

// UserLevelResponse serializes one level assignment.
type UserLevelResponse struct {
	UserID     uint          `json:"usuario_id"`
	Level      LevelResponse `json:"nivel"`
	AssignedAt time.Time     `json:"fecha_asignacion"`
}

// NewUserLevelResponse converts an assignment pivot into a DTO.
func NewUserLevelResponse(model models.UserLevel) UserLevelResponse {
	return UserLevelResponse{
		UserID:     model.UserID,
		Level:      NewLevelResponse(model.Level),
		AssignedAt: model.AssignedAt,
	}
}

// NewUserLevelResponseSlice converts assignment pivots into DTOs.
func NewUserLevelResponseSlice(assignments []models.UserLevel) []UserLevelResponse {
	responses := make([]UserLevelResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewUserLevelResponse(assignment))
	}
	return responses
}
