package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ludica-app/ludica-api/internal/models"
)

// AttendanceFilter narrows attendance queries.
type AttendanceFilter struct {
	StudentID *uint
	Date      *time.Time
	From      *time.Time
	To        *time.Time
}

// AttendanceRepository persists per-day attendance records.
type AttendanceRepository interface {
	Record(ctx context.Context, record *models.Attendance) error
	List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error)
	GetByStudentAndDate(ctx context.Context, studentID uint, date time.Time) (models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Record upserts on (student, date): re-recording the same day replaces the
// status and incident notes instead of duplicating the row.
func (r *attendanceRepository) Record(ctx context.Context, record *models.Attendance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "estudiante_id"}, {Name: "fecha"}},
			DoUpdates: clause.AssignmentColumns([]string{"estado", "incidencias", "docente_id", "updated_at"}),
		}).
		Create(record).Error
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error) {
	query := r.db.WithContext(ctx).Model(&models.Attendance{}).Preload("Student")

	if filter.StudentID != nil {
		query = query.Where("estudiante_id = ?", *filter.StudentID)
	}

	if filter.Date != nil {
		query = query.Where("fecha = ?", filter.Date.Format("2006-01-02"))
	}

	if filter.From != nil {
		query = query.Where("fecha >= ?", filter.From.Format("2006-01-02"))
	}

	if filter.To != nil {
		query = query.Where("fecha <= ?", filter.To.Format("2006-01-02"))
	}

	var records []models.Attendance
	if err := query.Order("fecha DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) GetByStudentAndDate(ctx context.Context, studentID uint, date time.Time) (models.Attendance, error) {
	var record models.Attendance
	if err := r.db.WithContext(ctx).
		Where("estudiante_id = ? AND fecha = ?", studentID, date.Format("2006-01-02")).
		First(&record).Error; err != nil {
		return models.Attendance{}, err
	}
	return record, nil
}
