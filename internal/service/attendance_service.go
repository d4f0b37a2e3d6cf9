package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
)

// ErrFutureAttendance rejects attendance dated after today.
var ErrFutureAttendance = errors.New("attendance date is in the future")

// AttendanceFilterParams carries parsed listing filters.
type AttendanceFilterParams struct {
	StudentID *uint
	Date      *time.Time
	From      *time.Time
	To        *time.Time
}

// AttendanceService records and lists per-day attendance.
type AttendanceService interface {
	Record(ctx context.Context, teacherID uint, payload dto.AttendanceRequest) (dto.AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilterParams) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	users      repository.UserRepository
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(attendance repository.AttendanceRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		users:      users,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		now:        time.Now,
	}
}

func (s *attendanceService) Record(ctx context.Context, teacherID uint, payload dto.AttendanceRequest) (dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}

	// Compare calendar dates. The payload parses as midnight UTC, so build
	// today from the clock's local calendar day in the same location.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return dto.AttendanceResponse{}, ErrFutureAttendance
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrUserNotFound
		}
		return dto.AttendanceResponse{}, err
	}
	if !student.Role.IsStudent() {
		return dto.AttendanceResponse{}, ErrNotStudentRecipient
	}

	record := models.Attendance{
		StudentID: payload.StudentID,
		TeacherID: teacherID,
		Date:      date,
		Status:    payload.Status,
		Incidents: s.sanitizer.Sanitize(payload.Incidents),
	}

	if err := s.attendance.Record(ctx, &record); err != nil {
		return dto.AttendanceResponse{}, err
	}

	stored, err := s.attendance.GetByStudentAndDate(ctx, payload.StudentID, date)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}

	s.logger.Info().
		Uint("student_id", payload.StudentID).
		Str("date", payload.Date).
		Str("status", payload.Status).
		Msg("attendance recorded")

	return dto.NewAttendanceResponse(stored), nil
}

func (s *attendanceService) List(ctx context.Context, filter AttendanceFilterParams) ([]dto.AttendanceResponse, error) {
	records, err := s.attendance.List(ctx, repository.AttendanceFilter{
		StudentID: filter.StudentID,
		Date:      filter.Date,
		From:      filter.From,
		To:        filter.To,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewAttendanceResponseSlice(records), nil
}
