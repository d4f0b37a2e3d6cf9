package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// Activity service sentinels.
var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrNotActivityOwner  = errors.New("activity belongs to another teacher")
	ErrUnsupportedUpload = errors.New("unsupported file type")
)

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, filename string, reader io.Reader) (string, error)
}

// ActivityService manages the activity catalog teachers publish for students.
type ActivityService interface {
	List(ctx context.Context, filter dto.ActivityFilter) ([]dto.ActivityResponse, error)
	Get(ctx context.Context, id uint) (dto.ActivityResponse, error)
	Create(ctx context.Context, teacherID uint, payload dto.ActivityCreateRequest, material *multipart.FileHeader) (dto.ActivityResponse, error)
	Update(ctx context.Context, teacherID uint, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error)
	Delete(ctx context.Context, teacherID uint, id uint) error
}

type activityService struct {
	activities repository.ActivityRepository
	themes     repository.ThemeRepository
	validator  *validator.Validate
	uploader   FileUploader
	logger     zerolog.Logger
}

// NewActivityService constructs an ActivityService instance.
func NewActivityService(activities repository.ActivityRepository, themes repository.ThemeRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities: activities,
		themes:     themes,
		validator:  validate,
		uploader:   uploader,
		logger:     logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) List(ctx context.Context, filter dto.ActivityFilter) ([]dto.ActivityResponse, error) {
	activities, err := s.activities.List(ctx, repository.ActivityFilter{
		TeacherID: filter.TeacherID,
		ThemeID:   filter.ThemeID,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewActivityResponseSlice(activities), nil
}

func (s *activityService) Get(ctx context.Context, id uint) (dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Create(ctx context.Context, teacherID uint, payload dto.ActivityCreateRequest, material *multipart.FileHeader) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	if _, err := s.themes.GetByID(ctx, payload.ThemeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrThemeNotFound
		}
		return dto.ActivityResponse{}, err
	}

	activity := models.Activity{
		TeacherID:    teacherID,
		ThemeID:      payload.ThemeID,
		Title:        payload.Title,
		Description:  payload.Description,
		DueDate:      payload.DueDate,
		RewardPoints: payload.RewardPoints,
	}

	if material != nil {
		url, err := s.uploadMaterial(ctx, material)
		if err != nil {
			return dto.ActivityResponse{}, err
		}
		activity.MaterialURL = url
	}

	if err := s.activities.Create(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	created, err := s.activities.GetByID(ctx, activity.ID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", created.ID).Uint("teacher_id", teacherID).Msg("activity created")

	return dto.NewActivityResponse(created), nil
}

func (s *activityService) Update(ctx context.Context, teacherID uint, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.ownedActivity(ctx, teacherID, id)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	if payload.Title != nil {
		activity.Title = *payload.Title
	}
	if payload.Description != nil {
		activity.Description = *payload.Description
	}
	if payload.DueDate != nil {
		activity.DueDate = *payload.DueDate
	}
	if payload.RewardPoints != nil {
		activity.RewardPoints = *payload.RewardPoints
	}

	if err := s.activities.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	updated, err := s.activities.GetByID(ctx, activity.ID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(updated), nil
}

func (s *activityService) Delete(ctx context.Context, teacherID uint, id uint) error {
	if _, err := s.ownedActivity(ctx, teacherID, id); err != nil {
		return err
	}
	return s.activities.Delete(ctx, id)
}

// ownedActivity loads an activity and enforces that it belongs to the acting
// teacher. Admin callers pass teacherID zero to bypass the ownership check.
func (s *activityService) ownedActivity(ctx context.Context, teacherID uint, id uint) (models.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, ErrActivityNotFound
		}
		return models.Activity{}, err
	}
	if teacherID != 0 && activity.TeacherID != teacherID {
		return models.Activity{}, ErrNotActivityOwner
	}
	return activity, nil
}

func (s *activityService) uploadMaterial(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := validateMaterialType(file); err != nil {
		return "", err
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	url, err := s.uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return url, nil
}

func validateMaterialType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "image/png", "image/jpeg"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedUpload, mime.String())
}
