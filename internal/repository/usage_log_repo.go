package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
)

// UsageLogFilter narrows usage analytics queries.
type UsageLogFilter struct {
	Page       int
	PageSize   int
	UserID     *uint
	Action     string
	EntityType string
}

// UsageLogRepository persists usage analytics events.
type UsageLogRepository interface {
	Create(ctx context.Context, entry *models.UsageLog) error
	List(ctx context.Context, filter UsageLogFilter) ([]models.UsageLog, int64, error)
}

type usageLogRepository struct {
	db *gorm.DB
}

// NewUsageLogRepository constructs the usage log repository.
func NewUsageLogRepository(db *gorm.DB) UsageLogRepository {
	return &usageLogRepository{db: db}
}

func (r *usageLogRepository) Create(ctx context.Context, entry *models.UsageLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *usageLogRepository) List(ctx context.Context, filter UsageLogFilter) ([]models.UsageLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UsageLog{})

	if filter.UserID != nil {
		query = query.Where("usuario_id = ?", *filter.UserID)
	}

	if filter.Action != "" {
		query = query.Where("accion = ?", filter.Action)
	}

	if filter.EntityType != "" {
		query = query.Where("entidad = ?", filter.EntityType)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var entries []models.UsageLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
