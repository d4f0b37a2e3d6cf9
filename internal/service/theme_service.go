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

// ErrThemeNotFound indicates the theme does not exist.
var ErrThemeNotFound = errors.New("theme not found")

// ThemeService manages curriculum themes.
type ThemeService interface {
	List(ctx context.Context) ([]dto.ThemeResponse, error)
	Create(ctx context.Context, payload dto.ThemeRequest) (dto.ThemeResponse, error)
	Update(ctx context.Context, id uint, payload dto.ThemeRequest) (dto.ThemeResponse, error)
	Delete(ctx context.Context, id uint) error
}

type themeService struct {
	themes    repository.ThemeRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewThemeService constructs the theme service.
func NewThemeService(themes repository.ThemeRepository, validate *validator.Validate, logger zerolog.Logger) ThemeService {
	return &themeService{
		themes:    themes,
		validator: validate,
		logger:    logger.With().Str("component", "theme_service").Logger(),
	}
}

func (s *themeService) List(ctx context.Context) ([]dto.ThemeResponse, error) {
	themes, err := s.themes.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewThemeResponseSlice(themes), nil
}

func (s *themeService) Create(ctx context.Context, payload dto.ThemeRequest) (dto.ThemeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ThemeResponse{}, err
	}

	theme := models.Theme{Name: payload.Name, Description: payload.Description}
	if err := s.themes.Create(ctx, &theme); err != nil {
		return dto.ThemeResponse{}, err
	}

	return dto.NewThemeResponse(theme), nil
}

func (s *themeService) Update(ctx context.Context, id uint, payload dto.ThemeRequest) (dto.ThemeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ThemeResponse{}, err
	}

	theme, err := s.themes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ThemeResponse{}, ErrThemeNotFound
		}
		return dto.ThemeResponse{}, err
	}

	theme.Name = payload.Name
	theme.Description = payload.Description

	if err := s.themes.Update(ctx, &theme); err != nil {
		return dto.ThemeResponse{}, err
	}

	return dto.NewThemeResponse(theme), nil
}

func (s *themeService) Delete(ctx context.Context, id uint) error {
	if err := s.themes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrThemeNotFound
		}
		return err
	}
	return nil
}
