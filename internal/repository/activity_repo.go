package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
)

// ActivityFilter narrows activity listing queries.
type ActivityFilter struct {
	TeacherID *uint
	ThemeID   *uint
}

// ActivityRepository persists teacher-authored activities.
type ActivityRepository interface {
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error)
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uint) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository instantiates the repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Activity{}).Preload("Theme")
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error) {
	query := r.baseQuery(ctx)

	if filter.TeacherID != nil {
		query = query.Where("docente_id = ?", *filter.TeacherID)
	}

	if filter.ThemeID != nil {
		query = query.Where("tematica_id = ?", *filter.ThemeID)
	}

	var activities []models.Activity
	if err := query.Order("fecha_entrega ASC").Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	if err := r.baseQuery(ctx).First(&activity, id).Error; err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Activity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
