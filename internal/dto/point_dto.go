package dto

import (
	"time"

	"github.com/ludica-app/ludica-api/internal/models"
)

// PointMutationRequest awards or revokes points for a user.
type PointMutationRequest struct {
	UserID uint   `json:"usuario_id" validate:"required,gt=0"`
	Amount int    `json:"cantidad" validate:"required,gt=0"`
	Reason string `json:"motivo" validate:"required,min=2,max=255"`
}

// PointEntryResponse serializes one ledger row.
type PointEntryResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"usuario_id"`
	Amount    int       `json:"cantidad"`
	Reason    string    `json:"motivo"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPointEntryResponse converts a ledger row into a DTO.
func NewPointEntryResponse(model models.PointEntry) PointEntryResponse {
	return PointEntryResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		Amount:    model.Amount,
		Reason:    model.Reason,
		CreatedAt: model.CreatedAt,
	}
}

// NewPointEntryResponseSlice converts ledger rows into DTOs.
func NewPointEntryResponseSlice(entries []models.PointEntry) []PointEntryResponse {
	responses := make([]PointEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewPointEntryResponse(entry))
	}
	return responses
}

// PointTotalResponse reports a user's ledger total. Total is the raw sum of
// entries; TotalDisplay is clamped at zero for presentation.
type PointTotalResponse struct {
	UserID       uint `json:"usuario_id"`
	Total        int  `json:"total"`
	TotalDisplay int  `json:"total_visible"`
}

// NewPointTotalResponse builds the total view, clamping the display value.
func NewPointTotalResponse(userID uint, total int) PointTotalResponse {
	display := total
	if display < 0 {
		display = 0
	}
	return PointTotalResponse{UserID: userID, Total: total, TotalDisplay: display}
}

// CascadeOutcome summarizes what a ledger mutation unlocked.
type CascadeOutcome struct {
	Entry           PointEntryResponse  `json:"entrada"`
	Total           PointTotalResponse  `json:"total"`
	LevelsGranted   []UserLevelResponse `json:"niveles_desbloqueados"`
	BadgesGranted   []UserBadgeResponse `json:"insignias_otorgadas"`
	CriteriaSkipped []string            `json:"criterios_omitidos,omitempty"`
}
