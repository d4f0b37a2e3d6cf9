package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ludica-app/ludica-api/internal/models"
)

// RankingRepository persists computed leaderboard positions.
type RankingRepository interface {
	Replace(ctx context.Context, rankings []models.Ranking) error
	List(ctx context.Context, limit int) ([]models.Ranking, error)
	GetByUser(ctx context.Context, userID uint) (models.Ranking, error)
}

type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository instantiates the repository.
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

// Replace upserts the freshly computed positions in one transaction. Users
// absent from the new standings keep their last known row until the next
// full recompute stamps them.
func (r *rankingRepository) Replace(ctx context.Context, rankings []models.Ranking) error {
	if len(rankings) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for i := range rankings {
			if rankings[i].ComputedAt.IsZero() {
				rankings[i].ComputedAt = now
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "usuario_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"posicion", "puntos", "fecha"}),
		}).Create(&rankings).Error
	})
}

func (r *rankingRepository) List(ctx context.Context, limit int) ([]models.Ranking, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rankings []models.Ranking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("posicion ASC").
		Limit(limit).
		Find(&rankings).Error; err != nil {
		return nil, err
	}

	return rankings, nil
}

func (r *rankingRepository) GetByUser(ctx context.Context, userID uint) (models.Ranking, error) {
	var ranking models.Ranking
	if err := r.db.WithContext(ctx).
		Where("usuario_id = ?", userID).
		First(&ranking).Error; err != nil {
		return models.Ranking{}, err
	}
	return ranking, nil
}
