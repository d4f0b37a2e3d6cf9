package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// UsageLogCreateRequest records one usage analytics event.
type UsageLogCreateRequest struct {
	Action     string                 `json:"accion" validate:"required,min=2,max=64"`
	EntityType string                 `json:"entidad" validate:"required,min=2,max=64"`
	EntityID   *uint                  `json:"entidad_id" validate:"omitempty,gt=0"`
	Metadata   map[string]interface{} `json:"metadata" validate:"omitempty"`
}

// UsageLogListRequest filters the usage log listing.
type UsageLogListRequest struct {
	Page       int    `query:"page" validate:"omitempty,gte=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	UserID     *uint  `query:"usuario_id" validate:"omitempty,gt=0"`
	Action     string `query:"accion" validate:"omitempty,max=64"`
	EntityType string `query:"entidad" validate:"omitempty,max=64"`
}

// UsageLogResponse serializes one usage event.
type UsageLogResponse struct {
	ID         uint                   `json:"id"`
	UserID     uint                   `json:"usuario_id"`
	Role       string                 `json:"rol"`
	Action     string                 `json:"accion"`
	EntityType string                 `json:"entidad"`
	EntityID   *uint                  `json:"entidad_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// UsageLogListResponse pages usage events.
type UsageLogListResponse struct {
	Entries  []UsageLogResponse `json:"eventos"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// NewUsageLogResponse converts a UsageLog model into a DTO.
func NewUsageLogResponse(model models.UsageLog) UsageLogResponse {
	return UsageLogResponse{
		ID:         model.ID,
		UserID:     model.UserID,
		Role:       string(model.Role),
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}
