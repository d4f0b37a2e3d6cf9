package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
)

// UserTotal pairs a user with the sum of their ledger entries.
type UserTotal struct {
	UserID uint `gorm:"column:usuario_id"`
	Total  int  `gorm:"column:total"`
}

// PointRepository persists the append-only points ledger. There is no update
// or delete: corrections are new signed entries.
type PointRepository interface {
	Append(ctx context.Context, entry *models.PointEntry) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.PointEntry, error)
	Total(ctx context.Context, userID uint) (int, error)
	TotalsAll(ctx context.Context) ([]UserTotal, error)
}

type pointRepository struct {
	db *gorm.DB
}

// NewPointRepository instantiates the repository.
func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

func (r *pointRepository) Append(ctx context.Context, entry *models.PointEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *pointRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.PointEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entries []models.PointEntry
	if err := r.db.WithContext(ctx).
		Where("usuario_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *pointRepository) Total(ctx context.Context, userID uint) (int, error) {
	var total int
	if err := r.db.WithContext(ctx).
		Model(&models.PointEntry{}).
		Select("COALESCE(SUM(cantidad), 0)").
		Where("usuario_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func (r *pointRepository) TotalsAll(ctx context.Context) ([]UserTotal, error) {
	var totals []UserTotal
	if err := r.db.WithContext(ctx).
		Model(&models.PointEntry{}).
		Select("usuario_id, COALESCE(SUM(cantidad), 0) AS total").
		Group("usuario_id").
		Order("total DESC, usuario_id ASC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	return totals, nil
}
