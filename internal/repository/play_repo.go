package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
)

// PlayRepository persists play-session records.
type PlayRepository interface {
	Create(ctx context.Context, play *models.Play) error
	ListByStudent(ctx context.Context, studentID uint, limit, offset int) ([]models.Play, error)
	CountByStudent(ctx context.Context, studentID uint) (int, error)
}

type playRepository struct {
	db *gorm.DB
}

// NewPlayRepository instantiates the repository.
func NewPlayRepository(db *gorm.DB) PlayRepository {
	return &playRepository{db: db}
}

func (r *playRepository) Create(ctx context.Context, play *models.Play) error {
	return r.db.WithContext(ctx).Create(play).Error
}

func (r *playRepository) ListByStudent(ctx context.Context, studentID uint, limit, offset int) ([]models.Play, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var plays []models.Play
	if err := r.db.WithContext(ctx).
		Where("estudiante_id = ?", studentID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&plays).Error; err != nil {
		return nil, err
	}

	return plays, nil
}

func (r *playRepository) CountByStudent(ctx context.Context, studentID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Play{}).
		Where("estudiante_id = ?", studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
