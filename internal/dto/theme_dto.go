package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// ThemeRequest creates or updates a curriculum theme.
type ThemeRequest struct {
	Name        string `json:"nombre" validate:"required,min=2,max=255"`
	Description string `json:"descripcion" validate:"omitempty,max=2000"`
}

// ThemeResponse serializes a theme.
type ThemeResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewThemeResponse converts a Theme model into a DTO.
func NewThemeResponse(model models.Theme) ThemeResponse {
	return ThemeResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
}

// NewThemeResponseSlice converts theme models into DTOs.
func NewThemeResponseSlice(themes []models.Theme) []ThemeResponse {
	responses := make([]ThemeResponse, 0, len(themes))
	for _, theme := range themes {
		responses = append(responses, NewThemeResponse(theme))
	}
	return responses
}
