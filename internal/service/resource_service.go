package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// Resource service sentinels.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrNotResourceOwner = errors.New("resource belongs to another teacher")
	ErrEmptyResource    = errors.New("resource needs a url or a file")
)

// ResourceService manages teacher-owned files and links. Students only see
// resources flagged visible.
type ResourceService interface {
	List(ctx context.Context, filter dto.ResourceFilter, studentView bool) ([]dto.ResourceResponse, error)
	Get(ctx context.Context, id uint) (dto.ResourceResponse, error)
	Create(ctx context.Context, teacherID uint, payload dto.ResourceCreateRequest, file *multipart.FileHeader) (dto.ResourceResponse, error)
	Update(ctx context.Context, teacherID uint, id uint, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error)
	Delete(ctx context.Context, teacherID uint, id uint) error
}

type resourceService struct {
	resources repository.ResourceRepository
	themes    repository.ThemeRepository
	validator *validator.Validate
	uploader  FileUploader
	logger    zerolog.Logger
}

// NewResourceService constructs a ResourceService instance.
func NewResourceService(resources repository.ResourceRepository, themes repository.ThemeRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) ResourceService {
	return &resourceService{
		resources: resources,
		themes:    themes,
		validator: validate,
		uploader:  uploader,
		logger:    logger.With().Str("component", "resource_service").Logger(),
	}
}

func (s *resourceService) List(ctx context.Context, filter dto.ResourceFilter, studentView bool) ([]dto.ResourceResponse, error) {
	resources, err := s.resources.List(ctx, repository.ResourceFilter{
		TeacherID:   filter.TeacherID,
		ThemeID:     filter.ThemeID,
		VisibleOnly: studentView,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewResourceResponseSlice(resources), nil
}

func (s *resourceService) Get(ctx context.Context, id uint) (dto.ResourceResponse, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrResourceNotFound
		}
		return dto.ResourceResponse{}, err
	}
	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) Create(ctx context.Context, teacherID uint, payload dto.ResourceCreateRequest, file *multipart.FileHeader) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}

	if payload.URL == "" && file == nil {
		return dto.ResourceResponse{}, ErrEmptyResource
	}

	if _, err := s.themes.GetByID(ctx, payload.ThemeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrThemeNotFound
		}
		return dto.ResourceResponse{}, err
	}

	resource := models.Resource{
		TeacherID:        teacherID,
		ThemeID:          payload.ThemeID,
		Name:             payload.Name,
		Description:      payload.Description,
		URL:              payload.URL,
		VisibleToStudent: payload.VisibleToStudent,
	}

	// An uploaded file takes precedence over a pasted link.
	if file != nil {
		if err := validateMaterialType(file); err != nil {
			return dto.ResourceResponse{}, err
		}
		reader, err := file.Open()
		if err != nil {
			return dto.ResourceResponse{}, fmt.Errorf("failed to open file: %w", err)
		}
		defer reader.Close()

		url, err := s.uploader.Upload(ctx, file.Filename, reader)
		if err != nil {
			return dto.ResourceResponse{}, fmt.Errorf("failed to upload file: %w", err)
		}
		resource.URL = url
	}

	if err := s.resources.Create(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	created, err := s.resources.GetByID(ctx, resource.ID)
	if err != nil {
		return dto.ResourceResponse{}, err
	}

	s.logger.Info().Uint("resource_id", created.ID).Uint("teacher_id", teacherID).Msg("resource created")

	return dto.NewResourceResponse(created), nil
}

func (s *resourceService) Update(ctx context.Context, teacherID uint, id uint, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}

	resource, err := s.ownedResource(ctx, teacherID, id)
	if err != nil {
		return dto.ResourceResponse{}, err
	}

	if payload.Name != nil {
		resource.Name = *payload.Name
	}
	if payload.Description != nil {
		resource.Description = *payload.Description
	}
	if payload.URL != nil {
		resource.URL = *payload.URL
	}
	if payload.VisibleToStudent != nil {
		resource.VisibleToStudent = *payload.VisibleToStudent
	}

	if err := s.resources.Update(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	updated, err := s.resources.GetByID(ctx, resource.ID)
	if err != nil {
		return dto.ResourceResponse{}, err
	}

	return dto.NewResourceResponse(updated), nil
}

func (s *resourceService) Delete(ctx context.Context, teacherID uint, id uint) error {
	if _, err := s.ownedResource(ctx, teacherID, id); err != nil {
		return err
	}
	return s.resources.Delete(ctx, id)
}

func (s *resourceService) ownedResource(ctx context.Context, teacherID uint, id uint) (models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Resource{}, ErrResourceNotFound
		}
		return models.Resource{}, err
	}
	if teacherID != 0 && resource.TeacherID != teacherID {
		return models.Resource{}, ErrNotResourceOwner
	}
	return resource, nil
}
