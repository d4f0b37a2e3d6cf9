package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/service"
)

func setupDashboard(t *testing.T) (service.DashboardService, *gorm.DB, *redis.Client) {
	t.Helper()

	db := openTestDB(t)
	cache := openTestRedis(t)
	validate := testValidator()
	logger := testLogger()

	gamification := service.NewGamificationService(db, cache, &recordingPublisher{}, logger)
	levels := service.NewLevelService(repository.NewLevelRepository(db), validate, logger)
	badges := service.NewBadgeService(repository.NewBadgeRepository(db), validate, logger)
	ranking := service.NewRankingService(repository.NewRankingRepository(db), repository.NewPointRepository(db), cache, time.Minute, logger)

	svc := service.NewDashboardService(
		gamification,
		levels,
		badges,
		ranking,
		repository.NewAssignmentRepository(db),
		repository.NewPlayRepository(db),
		cache,
		time.Minute,
		logger,
	)
	return svc, db, cache
}

func seedDashboardStudent(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	teacher := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)

	theme := models.Theme{Name: "Fracciones"}
	require.NoError(t, db.Create(&theme).Error)

	activity := models.Activity{
		TeacherID: teacher.ID,
		ThemeID:   theme.ID,
		Title:     "Taller",
		DueDate:   time.Now().Add(48 * time.Hour),
	}
	require.NoError(t, db.Create(&activity).Error)

	grade := 80.0
	require.NoError(t, db.Create(&models.Assignment{
		ActivityID: activity.ID,
		StudentID:  student.ID,
		TeacherID:  teacher.ID,
		Status:     models.AssignmentStatusAssigned,
	}).Error)

	second := models.Activity{
		TeacherID: teacher.ID,
		ThemeID:   theme.ID,
		Title:     "Refuerzo",
		DueDate:   time.Now().Add(48 * time.Hour),
	}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&models.Assignment{
		ActivityID: second.ID,
		StudentID:  student.ID,
		TeacherID:  teacher.ID,
		Status:     models.AssignmentStatusGraded,
		Grade:      &grade,
	}).Error)

	require.NoError(t, db.Create(&models.PointEntry{UserID: student.ID, Amount: 45, Reason: "semilla"}).Error)
	require.NoError(t, db.Create(&models.Play{StudentID: student.ID, Game: "trivia", Score: 12}).Error)

	return student
}

func TestDashboardStudentAggregates(t *testing.T) {
	svc, db, _ := setupDashboard(t)
	student := seedDashboardStudent(t, db)

	dashboard, err := svc.Student(context.Background(), student.ID)
	require.NoError(t, err)

	require.Equal(t, 45, dashboard.Points.Total)
	require.Equal(t, 2, dashboard.Summary.TotalAssignments)
	require.Equal(t, 1, dashboard.Summary.Pending)
	require.Equal(t, 1, dashboard.Summary.Graded)
	require.Equal(t, 80.0, dashboard.Summary.AverageGrade)
	require.Len(t, dashboard.Pending, 1)
	require.Len(t, dashboard.RecentPlays, 1)
}

func TestDashboardCachesPerStudent(t *testing.T) {
	svc, db, cache := setupDashboard(t)
	student := seedDashboardStudent(t, db)

	first, err := svc.Student(context.Background(), student.ID)
	require.NoError(t, err)

	// New points appear only after the per-student cache expires.
	require.NoError(t, db.Create(&models.PointEntry{UserID: student.ID, Amount: 30, Reason: "extra"}).Error)

	cached, err := svc.Student(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, first.Points.Total, cached.Points.Total)

	keys, err := cache.Keys(context.Background(), "dashboard:estudiante:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)

	require.NoError(t, cache.Del(context.Background(), keys[0]).Err())

	fresh, err := svc.Student(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, 75, fresh.Points.Total)
}
