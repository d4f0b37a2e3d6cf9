package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/service"
)

func setupGamification(t *testing.T) (service.GamificationService, *gorm.DB, *recordingPublisher) {
	t.Helper()

	db := openTestDB(t)
	publisher := &recordingPublisher{}
	svc := service.NewGamificationService(db, openTestRedis(t), publisher, testLogger())
	return svc, db, publisher
}

func TestGamificationAwardAppendsLedgerEntry(t *testing.T) {
	svc, db, _ := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	outcome, err := svc.Award(context.Background(), student.ID, 25, "actividad calificada")
	require.NoError(t, err)
	require.Equal(t, 25, outcome.Entry.Amount)
	require.Equal(t, 25, outcome.Total.Total)

	outcome, err = svc.Award(context.Background(), student.ID, 10, "jugada")
	require.NoError(t, err)
	require.Equal(t, 35, outcome.Total.Total)

	history, err := svc.History(context.Background(), student.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestGamificationAwardValidation(t *testing.T) {
	svc, db, _ := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	_, err := svc.Award(context.Background(), student.ID, 0, "motivo")
	require.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = svc.Award(context.Background(), student.ID, -5, "motivo")
	require.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = svc.Award(context.Background(), student.ID, 10, "")
	require.ErrorIs(t, err, service.ErrEmptyReason)

	_, err = svc.Award(context.Background(), 99999, 10, "motivo")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestGamificationAwardGrantsHighestQualifyingLevel(t *testing.T) {
	svc, db, publisher := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	bronze := models.Level{Name: "Bronce", RequiredPoints: 10}
	silver := models.Level{Name: "Plata", RequiredPoints: 50}
	gold := models.Level{Name: "Oro", RequiredPoints: 100}
	require.NoError(t, db.Create(&bronze).Error)
	require.NoError(t, db.Create(&silver).Error)
	require.NoError(t, db.Create(&gold).Error)

	// 60 points qualifies for bronze and silver; only silver is granted.
	outcome, err := svc.Award(context.Background(), student.ID, 60, "prueba")
	require.NoError(t, err)
	require.Len(t, outcome.LevelsGranted, 1)
	require.Equal(t, silver.ID, outcome.LevelsGranted[0].Level.ID)
	require.Len(t, publisher.events, 1)
	require.Equal(t, service.EventLevelUnlocked, publisher.events[0].Type)

	// Crossing the next threshold grants gold on top; silver is kept.
	outcome, err = svc.Award(context.Background(), student.ID, 40, "prueba")
	require.NoError(t, err)
	require.Len(t, outcome.LevelsGranted, 1)
	require.Equal(t, gold.ID, outcome.LevelsGranted[0].Level.ID)

	var held int64
	require.NoError(t, db.Model(&models.UserLevel{}).Where("usuario_id = ?", student.ID).Count(&held).Error)
	require.EqualValues(t, 2, held)
}

func TestGamificationLevelCheckIsIdempotent(t *testing.T) {
	svc, db, _ := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	level := models.Level{Name: "Inicial", RequiredPoints: 10}
	require.NoError(t, db.Create(&level).Error)

	_, err := svc.Award(context.Background(), student.ID, 20, "prueba")
	require.NoError(t, err)

	granted, err := svc.CheckLevels(context.Background(), student.ID)
	require.NoError(t, err)
	require.Empty(t, granted)

	var held int64
	require.NoError(t, db.Model(&models.UserLevel{}).Where("usuario_id = ?", student.ID).Count(&held).Error)
	require.EqualValues(t, 1, held)
}

func TestGamificationBadgeCriteria(t *testing.T) {
	svc, db, publisher := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	earned := models.Badge{Name: "Coleccionista", Criterion: "puntos >= 30"}
	pending := models.Badge{Name: "Constante", Criterion: "jugadas >= 3"}
	broken := models.Badge{Name: "Rota", Criterion: "puntos >>= oro"}
	require.NoError(t, db.Create(&earned).Error)
	require.NoError(t, db.Create(&pending).Error)
	require.NoError(t, db.Create(&broken).Error)

	outcome, err := svc.Award(context.Background(), student.ID, 40, "prueba")
	require.NoError(t, err)
	require.Len(t, outcome.BadgesGranted, 1)
	require.Equal(t, earned.ID, outcome.BadgesGranted[0].Badge.ID)
	require.Contains(t, outcome.CriteriaSkipped, "Rota")

	var types []string
	for _, event := range publisher.events {
		types = append(types, event.Type)
	}
	require.Contains(t, types, service.EventBadgeAwarded)

	// A second award past the same threshold never re-grants the badge.
	outcome, err = svc.Award(context.Background(), student.ID, 5, "prueba")
	require.NoError(t, err)
	require.Empty(t, outcome.BadgesGranted)
}

func TestGamificationBadgeMultiClauseCriterion(t *testing.T) {
	svc, db, _ := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	badge := models.Badge{Name: "Jugadora Experta", Criterion: "puntos >= 10 y jugadas >= 2"}
	require.NoError(t, db.Create(&badge).Error)

	require.NoError(t, db.Create(&models.Play{StudentID: student.ID, Game: "trivia", Score: 5}).Error)
	require.NoError(t, db.Create(&models.Play{StudentID: student.ID, Game: "trivia", Score: 7}).Error)

	outcome, err := svc.Award(context.Background(), student.ID, 15, "jugada")
	require.NoError(t, err)
	require.Len(t, outcome.BadgesGranted, 1)
	require.Equal(t, badge.ID, outcome.BadgesGranted[0].Badge.ID)
}

func TestGamificationRevokeKeepsGrants(t *testing.T) {
	svc, db, _ := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	level := models.Level{Name: "Inicial", RequiredPoints: 50}
	badge := models.Badge{Name: "Cincuenta", Criterion: "puntos >= 50"}
	require.NoError(t, db.Create(&level).Error)
	require.NoError(t, db.Create(&badge).Error)

	_, err := svc.Award(context.Background(), student.ID, 60, "prueba")
	require.NoError(t, err)

	total, err := svc.Revoke(context.Background(), student.ID, 40, "ajuste")
	require.NoError(t, err)
	require.Equal(t, 20, total.Total)

	// The total fell below both thresholds but nothing is taken away.
	var heldLevels, heldBadges int64
	require.NoError(t, db.Model(&models.UserLevel{}).Where("usuario_id = ?", student.ID).Count(&heldLevels).Error)
	require.NoError(t, db.Model(&models.UserBadge{}).Where("usuario_id = ?", student.ID).Count(&heldBadges).Error)
	require.EqualValues(t, 1, heldLevels)
	require.EqualValues(t, 1, heldBadges)
}

func TestGamificationTotalClampsDisplay(t *testing.T) {
	svc, db, _ := setupGamification(t)
	student := createTestUser(t, db, models.RoleStudent)

	_, err := svc.Award(context.Background(), student.ID, 10, "prueba")
	require.NoError(t, err)
	_, err = svc.Revoke(context.Background(), student.ID, 25, "sancion")
	require.NoError(t, err)

	total, err := svc.Total(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, -15, total.Total)
	require.Equal(t, 0, total.TotalDisplay)
}
