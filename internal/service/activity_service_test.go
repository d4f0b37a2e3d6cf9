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

type activityFixture struct {
	svc     service.ActivityService
	db      *gorm.DB
	teacher models.User
	theme   models.Theme
}

func setupActivities(t *testing.T) activityFixture {
	t.Helper()

	db := openTestDB(t)
	svc := service.NewActivityService(
		repository.NewActivityRepository(db),
		repository.NewThemeRepository(db),
		testValidator(),
		stubUploader{},
		testLogger(),
	)

	theme := models.Theme{Name: "Fracciones"}
	require.NoError(t, db.Create(&theme).Error)

	return activityFixture{svc: svc, db: db, teacher: createTestUser(t, db, models.RoleTeacher), theme: theme}
}

func (f activityFixture) create(t *testing.T, title string) dto.ActivityResponse {
	t.Helper()
	activity, err := f.svc.Create(context.Background(), f.teacher.ID, dto.ActivityCreateRequest{
		ThemeID:      f.theme.ID,
		Title:        title,
		DueDate:      time.Now().Add(72 * time.Hour),
		RewardPoints: 15,
	}, nil)
	require.NoError(t, err)
	return activity
}

func TestActivityCreate(t *testing.T) {
	f := setupActivities(t)

	activity := f.create(t, "Taller de fracciones")
	require.Equal(t, f.teacher.ID, activity.TeacherID)
	require.Equal(t, 15, activity.RewardPoints)
	require.Equal(t, f.theme.ID, activity.Theme.ID)
}

func TestActivityCreateUnknownTheme(t *testing.T) {
	f := setupActivities(t)

	_, err := f.svc.Create(context.Background(), f.teacher.ID, dto.ActivityCreateRequest{
		ThemeID: 9999,
		Title:   "Taller fantasma",
		DueDate: time.Now().Add(time.Hour),
	}, nil)
	require.ErrorIs(t, err, service.ErrThemeNotFound)
}

func TestActivityUpdateOwnership(t *testing.T) {
	f := setupActivities(t)
	activity := f.create(t, "Taller original")

	title := "Taller corregido"
	points := 30
	updated, err := f.svc.Update(context.Background(), f.teacher.ID, activity.ID, dto.ActivityUpdateRequest{
		Title:        &title,
		RewardPoints: &points,
	})
	require.NoError(t, err)
	require.Equal(t, "Taller corregido", updated.Title)
	require.Equal(t, 30, updated.RewardPoints)

	other := createTestUser(t, f.db, models.RoleTeacher)
	_, err = f.svc.Update(context.Background(), other.ID, activity.ID, dto.ActivityUpdateRequest{Title: &title})
	require.ErrorIs(t, err, service.ErrNotActivityOwner)

	// The admin wildcard may edit anyone's activity.
	_, err = f.svc.Update(context.Background(), 0, activity.ID, dto.ActivityUpdateRequest{Title: &title})
	require.NoError(t, err)
}

func TestActivityListFilters(t *testing.T) {
	f := setupActivities(t)
	f.create(t, "Taller uno")
	f.create(t, "Taller dos")

	otherTheme := models.Theme{Name: "Decimales"}
	require.NoError(t, f.db.Create(&otherTheme).Error)

	list, err := f.svc.List(context.Background(), dto.ActivityFilter{ThemeID: &f.theme.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = f.svc.List(context.Background(), dto.ActivityFilter{ThemeID: &otherTheme.ID})
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = f.svc.List(context.Background(), dto.ActivityFilter{TeacherID: &f.teacher.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestActivityDelete(t *testing.T) {
	f := setupActivities(t)
	activity := f.create(t, "Taller efimero")

	other := createTestUser(t, f.db, models.RoleTeacher)
	require.ErrorIs(t, f.svc.Delete(context.Background(), other.ID, activity.ID), service.ErrNotActivityOwner)

	require.NoError(t, f.svc.Delete(context.Background(), f.teacher.ID, activity.ID))

	_, err := f.svc.Get(context.Background(), activity.ID)
	require.ErrorIs(t, err, service.ErrActivityNotFound)
}
