package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ludica-app/ludica-api/internal/models"
)

// LevelRepository persists level definitions and their user assignments.
type LevelRepository interface {
	List(ctx context.Context) ([]models.Level, error)
	GetByID(ctx context.Context, id uint) (models.Level, error)
	Create(ctx context.Context, level *models.Level) error
	Update(ctx context.Context, level *models.Level) error
	Delete(ctx context.Context, id uint) error

	ListByUser(ctx context.Context, userID uint) ([]models.UserLevel, error)
	HeldIDs(ctx context.Context, userID uint) (map[uint]struct{}, error)
	Assign(ctx context.Context, assignment *models.UserLevel) (bool, error)
	CountByUser(ctx context.Context, userID uint) (int, error)
}

type levelRepository struct {
	db *gorm.DB
}

// NewLevelRepository instantiates the repository.
func NewLevelRepository(db *gorm.DB) LevelRepository {
	return &levelRepository{db: db}
}

func (r *levelRepository) List(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	if err := r.db.WithContext(ctx).Order("requisito_puntos ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *levelRepository) GetByID(ctx context.Context, id uint) (models.Level, error) {
	var level models.Level
	if err := r.db.WithContext(ctx).First(&level, id).Error; err != nil {
		return models.Level{}, err
	}
	return level, nil
}

func (r *levelRepository) Create(ctx context.Context, level *models.Level) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *levelRepository) Update(ctx context.Context, level *models.Level) error {
	return r.db.WithContext(ctx).Save(level).Error
}

func (r *levelRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Level{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *levelRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserLevel, error) {
	var assignments []models.UserLevel
	if err := r.db.WithContext(ctx).
		Preload("Level").
		Where("usuario_id = ?", userID).
		Order("fecha_asignacion ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *levelRepository) HeldIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.UserLevel{}).
		Where("usuario_id = ?", userID).
		Pluck("nivel_id", &ids).Error; err != nil {
		return nil, err
	}

	held := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		held[id] = struct{}{}
	}
	return held, nil
}

// Assign inserts the pivot row, treating a duplicate as a no-op. The bool
// result reports whether a new row was written.
func (r *levelRepository) Assign(ctx context.Context, assignment *models.UserLevel) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "usuario_id"}, {Name: "nivel_id"}},
			DoNothing: true,
		}).
		Create(assignment)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *levelRepository) CountByUser(ctx context.Context, userID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserLevel{}).
		Where("usuario_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
