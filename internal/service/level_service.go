package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// ErrLevelNotFound indicates the level definition does not exist.
var ErrLevelNotFound = errors.New("level not found")

// LevelService manages level definitions and exposes per-user assignments.
// Assignment itself belongs to the gamification cascade.
type LevelService interface {
	List(ctx context.Context) ([]dto.LevelResponse, error)
	Create(ctx context.Context, payload dto.LevelRequest) (dto.LevelResponse, error)
	Update(ctx context.Context, id uint, payload dto.LevelRequest) (dto.LevelResponse, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]dto.UserLevelResponse, error)
}

type levelService struct {
	levels    repository.LevelRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLevelService constructs the level service.
func NewLevelService(levels repository.LevelRepository, validate *validator.Validate, logger zerolog.Logger) LevelService {
	return &levelService{
		levels:    levels,
		validator: validate,
		logger:    logger.With().Str("component", "level_service").Logger(),
	}
}

func (s *levelService) List(ctx context.Context) ([]dto.LevelResponse, error) {
	levels, err := s.levels.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewLevelResponseSlice(levels), nil
}

func (s *levelService) Create(ctx context.Context, payload dto.LevelRequest) (dto.LevelResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LevelResponse{}, err
	}

	level := models.Level{
		Name:           payload.Name,
		RequiredPoints: payload.RequiredPoints,
		Difficulty:     payload.Difficulty,
	}

	if err := s.levels.Create(ctx, &level); err != nil {
		return dto.LevelResponse{}, err
	}

	s.logger.Info().Uint("nivel_id", level.ID).Int("requisito_puntos", level.RequiredPoints).Msg("level created")

	return dto.NewLevelResponse(level), nil
}

func (s *levelService) Update(ctx context.Context, id uint, payload dto.LevelRequest) (dto.LevelResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LevelResponse{}, err
	}

	level, err := s.levels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LevelResponse{}, ErrLevelNotFound
		}
		return dto.LevelResponse{}, err
	}

	level.Name = payload.Name
	level.RequiredPoints = payload.RequiredPoints
	level.Difficulty = payload.Difficulty

	if err := s.levels.Update(ctx, &level); err != nil {
		return dto.LevelResponse{}, err
	}

	return dto.NewLevelResponse(level), nil
}

func (s *levelService) Delete(ctx context.Context, id uint) error {
	if err := s.levels.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLevelNotFound
		}
		return err
	}
	return nil
}

func (s *levelService) ListByUser(ctx context.Context, userID uint) ([]dto.UserLevelResponse, error) {
	assignments, err := s.levels.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserLevelResponseSlice(assignments), nil
}
