package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
)

// AssignmentFilter narrows assignment queries.
type AssignmentFilter struct {
	ActivityID *uint
	StudentID  *uint
	TeacherID  *uint
	Status     *string
}

// AssignmentRepository persists activity assignments and their submissions.
type AssignmentRepository interface {
	List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	CountGradedByStudent(ctx context.Context, studentID uint) (int, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assignment{}).
		Preload("Activity").
		Preload("Activity.Theme").
		Preload("Student")
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.baseQuery(ctx)

	if filter.ActivityID != nil {
		query = query.Where("actividad_id = ?", *filter.ActivityID)
	}

	if filter.StudentID != nil {
		query = query.Where("estudiante_id = ?", *filter.StudentID)
	}

	if filter.TeacherID != nil {
		query = query.Where("docente_id = ?", *filter.TeacherID)
	}

	if filter.Status != nil {
		query = query.Where("estado = ?", *filter.Status)
	}

	var assignments []models.Assignment
	if err := query.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.baseQuery(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.baseQuery(ctx).
		Where("actividad_id = ?", activityID).
		Where("estudiante_id = ?", studentID).
		First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) CountGradedByStudent(ctx context.Context, studentID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("estudiante_id = ? AND estado = ?", studentID, models.AssignmentStatusGraded).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
