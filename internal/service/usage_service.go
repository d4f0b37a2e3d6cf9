package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// UsageService records and lists usage analytics events. Recording is
// fire-and-forget from the caller's perspective; a failed insert is logged
// and never breaks the originating request.
type UsageService interface {
	Record(ctx context.Context, userID uint, role models.Role, payload dto.UsageLogCreateRequest) error
	List(ctx context.Context, payload dto.UsageLogListRequest) (dto.UsageLogListResponse, error)
}

type usageService struct {
	logs      repository.UsageLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUsageService constructs a UsageService instance.
func NewUsageService(logs repository.UsageLogRepository, validate *validator.Validate, logger zerolog.Logger) UsageService {
	return &usageService{
		logs:      logs,
		validator: validate,
		logger:    logger.With().Str("component", "usage_service").Logger(),
	}
}

func (s *usageService) Record(ctx context.Context, userID uint, role models.Role, payload dto.UsageLogCreateRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	entry := models.UsageLog{
		UserID:     userID,
		Role:       role,
		Action:     payload.Action,
		EntityType: payload.EntityType,
		EntityID:   payload.EntityID,
		Metadata:   datatypes.JSONMap(payload.Metadata),
	}

	if err := s.logs.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).
			Uint("user_id", userID).
			Str("action", payload.Action).
			Msg("usage event insert failed")
		return err
	}

	return nil
}

func (s *usageService) List(ctx context.Context, payload dto.UsageLogListRequest) (dto.UsageLogListResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UsageLogListResponse{}, err
	}

	page := payload.Page
	if page < 1 {
		page = 1
	}
	pageSize := payload.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	entries, total, err := s.logs.List(ctx, repository.UsageLogFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     payload.UserID,
		Action:     payload.Action,
		EntityType: payload.EntityType,
	})
	if err != nil {
		return dto.UsageLogListResponse{}, err
	}

	response := dto.UsageLogListResponse{
		Entries:  make([]dto.UsageLogResponse, 0, len(entries)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, dto.NewUsageLogResponse(entry))
	}

	return response, nil
}
