package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// BadgeRequest creates or updates a badge definition.
type BadgeRequest struct {
	Name        string `json:"nombre" validate:"required,min=2,max=255"`
	Description string `json:"descripcion" validate:"omitempty,max=2000"`
	Criterion   string `json:"criterio" validate:"required,min=3"`
}

// BadgeResponse serializes a badge definition.
type BadgeResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Criterion   string    `json:"criterio"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBadgeResponse converts a Badge model into a DTO.
func NewBadgeResponse(model models.Badge) BadgeResponse {
	return BadgeResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Criterion:   model.Criterion,
		CreatedAt:   model.CreatedAt,
	}
}

// NewBadgeResponseSlice converts badge models into DTOs.
func NewBadgeResponseSlice(badges []models.Badge) []BadgeResponse {
	responses := make([]BadgeResponse, 0, len(badges))
	for _, badge := range badges {
		responses = append(responses, NewBadgeResponse(badge))
	}
	return responses
}

// UserBadgeResponse serializes one badge award.
type UserBadgeResponse struct {
	UserID    uint          `json:"usuario_id"`
	Badge     BadgeResponse `json:"insignia"`
	AwardedAt time.Time     `json:"fecha_otorgada"`
}

// NewUserBadgeResponse converts an award pivot into a DTO.
func NewUserBadgeResponse(model models.UserBadge) UserBadgeResponse {
	return UserBadgeResponse{
		UserID:    model.UserID,
		Badge:     NewBadgeResponse(model.Badge),
		AwardedAt: model.AwardedAt,
	}
}

// NewUserBadgeResponseSlice converts award pivots into DTOs.
func NewUserBadgeResponseSlice(awards []models.UserBadge) []UserBadgeResponse {
	responses := make([]UserBadgeResponse, 0, len(awards))
	for _, award := range awards {
		responses = append(responses, NewUserBadgeResponse(award))
	}
	return responses
}

// BadgeCheckResponse reports the outcome of a criteria evaluation pass.
type BadgeCheckResponse struct {
	Granted         []UserBadgeResponse `json:"otorgadas"`
	CriteriaSkipped []string            `json:"criterios_omitidos,omitempty"`
}
