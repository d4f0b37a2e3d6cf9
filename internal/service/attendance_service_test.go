package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/service"
)

func setupAttendance(t *testing.T) (service.AttendanceService, *gorm.DB, models.User, models.User) {
	t.Helper()

	db := openTestDB(t)
	svc := service.NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		testValidator(),
		testLogger(),
	)
	return svc, db, createTestUser(t, db, models.RoleTeacher), createTestUser(t, db, models.RoleStudent)
}

func TestAttendanceRecord(t *testing.T) {
	svc, _, teacher, student := setupAttendance(t)

	record, err := svc.Record(context.Background(), teacher.ID, dto.AttendanceRequest{
		StudentID: student.ID,
		Date:      "2026-03-02",
		Status:    "presente",
	})
	require.NoError(t, err)
	require.Equal(t, "2026-03-02", record.Date)
	require.Equal(t, "presente", record.Status)
	require.Equal(t, teacher.ID, record.TeacherID)
}

func TestAttendanceRecordUpsertsSameDay(t *testing.T) {
	svc, db, teacher, student := setupAttendance(t)

	_, err := svc.Record(context.Background(), teacher.ID, dto.AttendanceRequest{
		StudentID: student.ID,
		Date:      "2026-03-02",
		Status:    "ausente",
	})
	require.NoError(t, err)

	record, err := svc.Record(context.Background(), teacher.ID, dto.AttendanceRequest{
		StudentID: student.ID,
		Date:      "2026-03-02",
		Status:    "tarde",
		Incidents: "llego veinte minutos tarde",
	})
	require.NoError(t, err)
	require.Equal(t, "tarde", record.Status)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Where("estudiante_id = ?", student.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAttendanceRecordRejectsFutureDate(t *testing.T) {
	svc, _, teacher, student := setupAttendance(t)

	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	_, err := svc.Record(context.Background(), teacher.ID, dto.AttendanceRequest{
		StudentID: student.ID,
		Date:      future,
		Status:    "presente",
	})
	require.ErrorIs(t, err, service.ErrFutureAttendance)
}

func TestAttendanceRecordRejectsNonStudent(t *testing.T) {
	svc, db, teacher, _ := setupAttendance(t)

	other := createTestUser(t, db, models.RoleTeacher)
	_, err := svc.Record(context.Background(), teacher.ID, dto.AttendanceRequest{
		StudentID: other.ID,
		Date:      "2026-03-02",
		Status:    "presente",
	})
	require.ErrorIs(t, err, service.ErrNotStudentRecipient)
}

func TestAttendanceListFilters(t *testing.T) {
	svc, db, teacher, student := setupAttendance(t)
	other := createTestUser(t, db, models.RoleStudent)

	for _, record := range []dto.AttendanceRequest{
		{StudentID: student.ID, Date: "2026-03-02", Status: "presente"},
		{StudentID: student.ID, Date: "2026-03-03", Status: "ausente"},
		{StudentID: other.ID, Date: "2026-03-03", Status: "presente"},
	} {
		_, err := svc.Record(context.Background(), teacher.ID, record)
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), service.AttendanceFilterParams{StudentID: &student.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)

	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	list, err = svc.List(context.Background(), service.AttendanceFilterParams{Date: &day})
	require.NoError(t, err)
	require.Len(t, list, 2)

	from := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	list, err = svc.List(context.Background(), service.AttendanceFilterParams{StudentID: &student.ID, From: &from})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ausente", list[0].Status)
}

func TestAttendanceRecordAcceptsLocalToday(t *testing.T) {
	svc, _, teacher, student := setupAttendance(t)

	// Clock pinned in a zone whose calendar day is ahead of UTC.
	zone := time.FixedZone("UTC+13", 13*60*60)
	service.SetAttendanceClock(svc, func() time.Time {
		return time.Date(2026, 3, 2, 8, 0, 0, 0, zone)
	})

	record, err := svc.Record(context.Background(), teacher.ID, dto.AttendanceRequest{
		StudentID: student.ID,
		Date:      "2026-03-02",
		Status:    "presente",
	})
	require.NoError(t, err)
	require.Equal(t, "2026-03-02", record.Date)

	_, err = svc.Record(context.Background(), teacher.ID, dto.AttendanceRequest{
		StudentID: student.ID,
		Date:      "2026-03-03",
		Status:    "presente",
	})
	require.ErrorIs(t, err, service.ErrFutureAttendance)
}
