package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// PlayService records play sessions. A positive score feeds the points
// ledger through the gamification cascade; a zero score only stores the play.
type PlayService interface {
	Record(ctx context.Context, studentID uint, payload dto.PlayCreateRequest) (dto.PlayRecordedResponse, error)
	ListByStudent(ctx context.Context, studentID uint, limit, offset int) ([]dto.PlayResponse, error)
}

type playService struct {
	plays        repository.PlayRepository
	gamification GamificationService
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewPlayService constructs a PlayService instance.
func NewPlayService(plays repository.PlayRepository, gamification GamificationService, validate *validator.Validate, logger zerolog.Logger) PlayService {
	return &playService{
		plays:        plays,
		gamification: gamification,
		validator:    validate,
		logger:       logger.With().Str("component", "play_service").Logger(),
	}
}

func (s *playService) Record(ctx context.Context, studentID uint, payload dto.PlayCreateRequest) (dto.PlayRecordedResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlayRecordedResponse{}, err
	}

	play := models.Play{
		StudentID: studentID,
		Game:      payload.Game,
		Score:     payload.Score,
		Duration:  payload.Duration,
	}

	if err := s.plays.Create(ctx, &play); err != nil {
		return dto.PlayRecordedResponse{}, err
	}

	response := dto.PlayRecordedResponse{Play: dto.NewPlayResponse(play)}

	if payload.Score > 0 {
		reason := fmt.Sprintf("jugada: %s", payload.Game)
		outcome, err := s.gamification.Award(ctx, studentID, payload.Score, reason)
		if err != nil {
			// The play is already stored; surface the cascade failure in
			// logs but keep the recorded session as the response.
			s.logger.Error().Err(err).
				Uint("play_id", play.ID).
				Uint("student_id", studentID).
				Msg("score award failed after play")
		} else {
			response.Cascade = &outcome
		}
	}

	s.logger.Info().
		Uint("play_id", play.ID).
		Uint("student_id", studentID).
		Str("game", payload.Game).
		Int("score", payload.Score).
		Msg("play recorded")

	return response, nil
}

func (s *playService) ListByStudent(ctx context.Context, studentID uint, limit, offset int) ([]dto.PlayResponse, error) {
	plays, err := s.plays.ListByStudent(ctx, studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewPlayResponseSlice(plays), nil
}
