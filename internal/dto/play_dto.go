package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// PlayCreateRequest records one play session. The score doubles as the
// points awarded through the cascade when positive.
type PlayCreateRequest struct {
	Game     string `json:"juego" validate:"required,min=2,max=255"`
	Score    int    `json:"puntuacion" validate:"gte=0,lte=10000"`
	Duration int    `json:"duracion_segundos" validate:"gte=0"`
}

// PlayResponse serializes a play session.
type PlayResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"estudiante_id"`
	Game      string    `json:"juego"`
	Score     int       `json:"puntuacion"`
	Duration  int       `json:"duracion_segundos"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayRecordedResponse bundles the stored play with the cascade outcome.
type PlayRecordedResponse struct {
	Play    PlayResponse    `json:"jugada"`
	Cascade *CascadeOutcome `json:"gamificacion,omitempty"`
}

// NewPlayResponse converts a Play model into a DTO.
func NewPlayResponse(model models.Play) PlayResponse {
	return PlayResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		Game:      model.Game,
		Score:     model.Score,
		Duration:  model.Duration,
		CreatedAt: model.CreatedAt,
	}
}

// NewPlayResponseSlice converts play models into DTOs.
func NewPlayResponseSlice(plays []models.Play) []PlayResponse {
	responses := make([]PlayResponse, 0, len(plays))
	for _, play := range plays {
		responses = append(responses, NewPlayResponse(play))
	}
	return responses
}
