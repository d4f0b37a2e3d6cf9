package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
)

// ResourceFilter narrows resource listing queries.
type ResourceFilter struct {
	TeacherID   *uint
	ThemeID     *uint
	VisibleOnly bool
}

// ResourceRepository persists teacher-owned files and links.
type ResourceRepository interface {
	List(ctx context.Context, filter ResourceFilter) ([]models.Resource, error)
	GetByID(ctx context.Context, id uint) (models.Resource, error)
	Create(ctx context.Context, resource *models.Resource) error
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, id uint) error
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository instantiates the repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) List(ctx context.Context, filter ResourceFilter) ([]models.Resource, error) {
	query := r.db.WithContext(ctx).Model(&models.Resource{}).Preload("Theme")

	if filter.TeacherID != nil {
		query = query.Where("docente_id = ?", *filter.TeacherID)
	}

	if filter.ThemeID != nil {
		query = query.Where("tematica_id = ?", *filter.ThemeID)
	}

	if filter.VisibleOnly {
		query = query.Where("visible_estudiantes = ?", true)
	}

	var resources []models.Resource
	if err := query.Order("created_at DESC").Find(&resources).Error; err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint) (models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).Preload("Theme").First(&resource, id).Error; err != nil {
		return models.Resource{}, err
	}
	return resource, nil
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *resourceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Resource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
