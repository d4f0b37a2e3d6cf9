package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// ActivityCreateRequest is the multipart payload for creating an activity.
// The optional material file travels alongside as a form file.
type ActivityCreateRequest struct {
	ThemeID      uint      `form:"tematica_id" validate:"required,gt=0"`
	Title        string    `form:"titulo" validate:"required,min=2,max=255"`
	Description  string    `form:"descripcion" validate:"omitempty,max=5000"`
	DueDate      time.Time `form:"fecha_entrega" validate:"required"`
	RewardPoints int       `form:"puntos_recompensa" validate:"gte=0,lte=1000"`
}

// ActivityFilter carries query-string filters for activity listings.
type ActivityFilter struct {
	TeacherID *uint `query:"docente_id"`
	ThemeID   *uint `query:"tematica_id"`
}

// ActivityUpdateRequest patches an activity definition.
type ActivityUpdateRequest struct {
	Title        *string    `json:"titulo" validate:"omitempty,min=2,max=255"`
	Description  *string    `json:"descripcion" validate:"omitempty,max=5000"`
	DueDate      *time.Time `json:"fecha_entrega"`
	RewardPoints *int       `json:"puntos_recompensa" validate:"omitempty,gte=0,lte=1000"`
}

// ActivityResponse serializes an activity.
type ActivityResponse struct {
	ID           uint          `json:"id"`
	TeacherID    uint          `json:"docente_id"`
	Theme        ThemeResponse `json:"tematica"`
	Title        string        `json:"titulo"`
	Description  string        `json:"descripcion"`
	DueDate      time.Time     `json:"fecha_entrega"`
	MaterialURL  string        `json:"material_url"`
	RewardPoints int           `json:"puntos_recompensa"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewActivityResponse converts an Activity model into a DTO.
func NewActivityResponse(model models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:           model.ID,
		TeacherID:    model.TeacherID,
		Theme:        NewThemeResponse(model.Theme),
		Title:        model.Title,
		Description:  model.Description,
		DueDate:      model.DueDate,
		MaterialURL:  model.MaterialURL,
		RewardPoints: model.RewardPoints,
		CreatedAt:    model.CreatedAt,
	}
}

// NewActivityResponseSlice converts activity models into DTOs.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}
	return responses
}
