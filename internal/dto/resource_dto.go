package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// ResourceCreateRequest is the multipart payload for a resource. Either a
// link URL or an uploaded file must be provided.
type ResourceCreateRequest struct {
	ThemeID          uint   `form:"tematica_id" validate:"required,gt=0"`
	Name             string `form:"nombre" validate:"required,min=2,max=255"`
	Description      string `form:"descripcion" validate:"omitempty,max=2000"`
	URL              string `form:"url" validate:"omitempty,url"`
	VisibleToStudent bool   `form:"visible_estudiantes"`
}

// ResourceFilter carries query-string filters for resource listings.
type ResourceFilter struct {
	TeacherID *uint `query:"docente_id"`
	ThemeID   *uint `query:"tematica_id"`
}

// ResourceUpdateRequest patches a resource definition.
type ResourceUpdateRequest struct {
	Name             *string `json:"nombre" validate:"omitempty,min=2,max=255"`
	Description      *string `json:"descripcion" validate:"omitempty,max=2000"`
	URL              *string `json:"url" validate:"omitempty,url"`
	VisibleToStudent *bool   `json:"visible_estudiantes"`
}

// ResourceResponse serializes a resource.
type ResourceResponse struct {
	ID               uint          `json:"id"`
	TeacherID        uint          `json:"docente_id"`
	Theme            ThemeResponse `json:"tematica"`
	Name             string        `json:"nombre"`
	Description      string        `json:"descripcion"`
	URL              string        `json:"url"`
	VisibleToStudent bool          `json:"visible_estudiantes"`
	CreatedAt        time.Time     `json:"created_at"`
}

// NewResourceResponse converts a Resource model into a DTO.
func NewResourceResponse(model models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:               model.ID,
		TeacherID:        model.TeacherID,
		Theme:            NewThemeResponse(model.Theme),
		Name:             model.Name,
		Description:      model.Description,
		URL:              model.URL,
		VisibleToStudent: model.VisibleToStudent,
		CreatedAt:        model.CreatedAt,
	}
}

// NewResourceResponseSlice converts resource models into DTOs.
func NewResourceResponseSlice(resources []models.Resource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, NewResourceResponse(resource))
	}
	return responses
}
