package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/service"
)

func TestThemeCRUD(t *testing.T) {
	db := openTestDB(t)
	svc := service.NewThemeService(repository.NewThemeRepository(db), testValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.ThemeRequest{Name: "Algebra basica"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.ThemeRequest{
		Name:        "Algebra",
		Description: "Ecuaciones de primer grado",
	})
	require.NoError(t, err)
	require.Equal(t, "Algebra", updated.Name)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID), service.ErrThemeNotFound)
}

func TestLevelCRUD(t *testing.T) {
	db := openTestDB(t)
	svc := service.NewLevelService(repository.NewLevelRepository(db), testValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.LevelRequest{Name: "Explorador", RequiredPoints: 50})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.LevelRequest{
		Name:           "Explorador",
		RequiredPoints: 75,
		Difficulty:     "media",
	})
	require.NoError(t, err)
	require.Equal(t, 75, updated.RequiredPoints)

	_, err = svc.Update(context.Background(), 9999, dto.LevelRequest{Name: "Fantasma"})
	require.ErrorIs(t, err, service.ErrLevelNotFound)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
}

func TestLevelListByUser(t *testing.T) {
	db := openTestDB(t)
	svc := service.NewLevelService(repository.NewLevelRepository(db), testValidator(), testLogger())
	student := createTestUser(t, db, models.RoleStudent)

	level := models.Level{Name: "Explorador", RequiredPoints: 10}
	require.NoError(t, db.Create(&level).Error)
	require.NoError(t, db.Create(&models.UserLevel{
		UserID:     student.ID,
		LevelID:    level.ID,
		AssignedAt: time.Now().UTC(),
	}).Error)

	held, err := svc.ListByUser(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)
	require.Equal(t, "Explorador", held[0].Level.Name)
}

func TestBadgeCreateValidatesCriterion(t *testing.T) {
	db := openTestDB(t)
	svc := service.NewBadgeService(repository.NewBadgeRepository(db), testValidator(), testLogger())

	_, err := svc.Create(context.Background(), dto.BadgeRequest{
		Name:      "Rota",
		Criterion: "nivel_magico >= 3",
	})
	require.ErrorIs(t, err, service.ErrInvalidCriterion)

	created, err := svc.Create(context.Background(), dto.BadgeRequest{
		Name:      "Constante",
		Criterion: "jugadas >= 5 y puntos >= 100",
	})
	require.NoError(t, err)
	require.Equal(t, "jugadas >= 5 y puntos >= 100", created.Criterion)
}

func TestBadgeRevoke(t *testing.T) {
	db := openTestDB(t)
	svc := service.NewBadgeService(repository.NewBadgeRepository(db), testValidator(), testLogger())
	student := createTestUser(t, db, models.RoleStudent)

	badge := models.Badge{Name: "Pionera", Criterion: "puntos >= 1"}
	require.NoError(t, db.Create(&badge).Error)
	require.NoError(t, db.Create(&models.UserBadge{
		UserID:    student.ID,
		BadgeID:   badge.ID,
		AwardedAt: time.Now().UTC(),
	}).Error)

	held, err := svc.ListByUser(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)

	require.NoError(t, svc.Revoke(context.Background(), student.ID, badge.ID))
	require.ErrorIs(t, svc.Revoke(context.Background(), student.ID, badge.ID), service.ErrAwardNotFound)

	held, err = svc.ListByUser(context.Background(), student.ID)
	require.NoError(t, err)
	require.Empty(t, held)
}
