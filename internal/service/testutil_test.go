package service_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/service"
)

// openTestDB gives each test its own in-memory database so grant checks and
// leaderboard assertions never see another test's levels or badges.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Theme{},
		&models.Activity{},
		&models.Assignment{},
		&models.PointEntry{},
		&models.Level{},
		&models.UserLevel{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Ranking{},
		&models.DiagnosticTest{},
		&models.DiagnosticQuestion{},
		&models.DiagnosticAnswer{},
		&models.DiagnosticResult{},
		&models.Play{},
		&models.Attendance{},
		&models.Resource{},
		&models.UsageLog{},
	))

	return db
}

func openTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mini := miniredis.RunT(t)
	opts, err := redis.ParseURL("redis://" + mini.Addr())
	require.NoError(t, err)
	return redis.NewClient(opts)
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func createTestUser(t *testing.T, db *gorm.DB, role models.Role) models.User {
	t.Helper()

	user := models.User{
		Name:         "Usuario Prueba",
		Email:        fmt.Sprintf("user%d@ludica.test", time.Now().UnixNano()),
		PasswordHash: "$2a$10$hashhashhashhashhashha",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// recordingPublisher captures cascade events for assertions.
type recordingPublisher struct {
	events []service.GamificationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event service.GamificationEvent) {
	p.events = append(p.events, event)
}

// stubUploader satisfies the uploader dependency without touching the CDN.
type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, filename string, _ io.Reader) (string, error) {
	return "https://cdn.example.com/" + filename, nil
}
