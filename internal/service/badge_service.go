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
	"github.com/ludica-app/ludica-api/internal/rules"
)

// ErrBadgeNotFound indicates the badge definition does not exist.
var ErrBadgeNotFound = errors.New("badge not found")

// ErrAwardNotFound indicates the (user, badge) pair has no award to revoke.
var ErrAwardNotFound = errors.New("badge award not found")

// ErrInvalidCriterion indicates criterion text that does not parse.
var ErrInvalidCriterion = errors.New("invalid badge criterion")

// BadgeService manages badge definitions and explicit revocation. Awarding
// belongs to the gamification cascade; revocation is admin-only and never
// automatic.
type BadgeService interface {
	List(ctx context.Context) ([]dto.BadgeResponse, error)
	Create(ctx context.Context, payload dto.BadgeRequest) (dto.BadgeResponse, error)
	Update(ctx context.Context, id uint, payload dto.BadgeRequest) (dto.BadgeResponse, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]dto.UserBadgeResponse, error)
	Revoke(ctx context.Context, userID, badgeID uint) error
}

type badgeService struct {
	badges    repository.BadgeRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBadgeService constructs the badge service.
func NewBadgeService(badges repository.BadgeRepository, validate *validator.Validate, logger zerolog.Logger) BadgeService {
	return &badgeService{
		badges:    badges,
		validator: validate,
		logger:    logger.With().Str("component", "badge_service").Logger(),
	}
}

func (s *badgeService) List(ctx context.Context) ([]dto.BadgeResponse, error) {
	badges, err := s.badges.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewBadgeResponseSlice(badges), nil
}

// Create rejects criteria that do not parse so badly written rules surface
// at definition time instead of silently never firing.
func (s *badgeService) Create(ctx context.Context, payload dto.BadgeRequest) (dto.BadgeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BadgeResponse{}, err
	}

	if _, err := rules.Parse(payload.Criterion); err != nil {
		return dto.BadgeResponse{}, errors.Join(ErrInvalidCriterion, err)
	}

	badge := models.Badge{
		Name:        payload.Name,
		Description: payload.Description,
		Criterion:   payload.Criterion,
	}

	if err := s.badges.Create(ctx, &badge); err != nil {
		return dto.BadgeResponse{}, err
	}

	s.logger.Info().Uint("insignia_id", badge.ID).Str("criterio", badge.Criterion).Msg("badge created")

	return dto.NewBadgeResponse(badge), nil
}

func (s *badgeService) Update(ctx context.Context, id uint, payload dto.BadgeRequest) (dto.BadgeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BadgeResponse{}, err
	}

	if _, err := rules.Parse(payload.Criterion); err != nil {
		return dto.BadgeResponse{}, errors.Join(ErrInvalidCriterion, err)
	}

	badge, err := s.badges.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BadgeResponse{}, ErrBadgeNotFound
		}
		return dto.BadgeResponse{}, err
	}

	badge.Name = payload.Name
	badge.Description = payload.Description
	badge.Criterion = payload.Criterion

	if err := s.badges.Update(ctx, &badge); err != nil {
		return dto.BadgeResponse{}, err
	}

	return dto.NewBadgeResponse(badge), nil
}

func (s *badgeService) Delete(ctx context.Context, id uint) error {
	if err := s.badges.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadgeNotFound
		}
		return err
	}
	return nil
}

func (s *badgeService) ListByUser(ctx context.Context, userID uint) ([]dto.UserBadgeResponse, error) {
	awards, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserBadgeResponseSlice(awards), nil
}

func (s *badgeService) Revoke(ctx context.Context, userID, badgeID uint) error {
	if err := s.badges.Revoke(ctx, userID, badgeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAwardNotFound
		}
		return err
	}

	s.logger.Info().Uint("usuario_id", userID).Uint("insignia_id", badgeID).Msg("badge revoked")

	return nil
}
