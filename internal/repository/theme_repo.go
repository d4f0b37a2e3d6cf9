package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
)

// ThemeRepository persists curriculum themes.
type ThemeRepository interface {
	List(ctx context.Context) ([]models.Theme, error)
	GetByID(ctx context.Context, id uint) (models.Theme, error)
	Create(ctx context.Context, theme *models.Theme) error
	Update(ctx context.Context, theme *models.Theme) error
	Delete(ctx context.Context, id uint) error
}

type themeRepository struct {
	db *gorm.DB
}

// NewThemeRepository instantiates the repository.
func NewThemeRepository(db *gorm.DB) ThemeRepository {
	return &themeRepository{db: db}
}

func (r *themeRepository) List(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	if err := r.db.WithContext(ctx).Order("nombre ASC").Find(&themes).Error; err != nil {
		return nil, err
	}
	return themes, nil
}

func (r *themeRepository) GetByID(ctx context.Context, id uint) (models.Theme, error) {
	var theme models.Theme
	if err := r.db.WithContext(ctx).First(&theme, id).Error; err != nil {
		return models.Theme{}, err
	}
	return theme, nil
}

func (r *themeRepository) Create(ctx context.Context, theme *models.Theme) error {
	return r.db.WithContext(ctx).Create(theme).Error
}

func (r *themeRepository) Update(ctx context.Context, theme *models.Theme) error {
	return r.db.WithContext(ctx).Save(theme).Error
}

func (r *themeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Theme{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
