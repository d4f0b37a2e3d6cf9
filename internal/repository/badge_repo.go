package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ludica-app/ludica-api/internal/models"
)

// BadgeRepository persists badge definitions and awards.
type BadgeRepository interface {
	List(ctx context.Context) ([]models.Badge, error)
	GetByID(ctx context.Context, id uint) (models.Badge, error)
	Create(ctx context.Context, badge *models.Badge) error
	Update(ctx context.Context, badge *models.Badge) error
	Delete(ctx context.Context, id uint) error

	ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error)
	HeldIDs(ctx context.Context, userID uint) (map[uint]struct{}, error)
	Award(ctx context.Context, award *models.UserBadge) (bool, error)
	Revoke(ctx context.Context, userID, badgeID uint) error
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository instantiates the repository.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) List(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepository) GetByID(ctx context.Context, id uint) (models.Badge, error) {
	var badge models.Badge
	if err := r.db.WithContext(ctx).First(&badge, id).Error; err != nil {
		return models.Badge{}, err
	}
	return badge, nil
}

func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}

func (r *badgeRepository) Update(ctx context.Context, badge *models.Badge) error {
	return r.db.WithContext(ctx).Save(badge).Error
}

func (r *badgeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Badge{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var awards []models.UserBadge
	if err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("usuario_id = ?", userID).
		Order("fecha_otorgada ASC").
		Find(&awards).Error; err != nil {
		return nil, err
	}
	return awards, nil
}

func (r *badgeRepository) HeldIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.UserBadge{}).
		Where("usuario_id = ?", userID).
		Pluck("insignia_id", &ids).Error; err != nil {
		return nil, err
	}

	held := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		held[id] = struct{}{}
	}
	return held, nil
}

// Award inserts the pivot row, treating a duplicate as a no-op. The bool
// result reports whether a new row was written.
func (r *badgeRepository) Award(ctx context.Context, award *models.UserBadge) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "usuario_id"}, {Name: "insignia_id"}},
			DoNothing: true,
		}).
		Create(award)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Revoke removes an award. Only the explicit admin endpoint reaches here;
// the cascade never revokes.
func (r *badgeRepository) Revoke(ctx context.Context, userID, badgeID uint) error {
	result := r.db.WithContext(ctx).
		Where("usuario_id = ? AND insignia_id = ?", userID, badgeID).
		Delete(&models.UserBadge{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
