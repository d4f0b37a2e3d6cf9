package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/service"
)

type resourceFixture struct {
	svc     service.ResourceService
	db      *gorm.DB
	teacher models.User
	theme   models.Theme
}

func setupResources(t *testing.T) resourceFixture {
	t.Helper()

	db := openTestDB(t)
	svc := service.NewResourceService(
		repository.NewResourceRepository(db),
		repository.NewThemeRepository(db),
		testValidator(),
		stubUploader{},
		testLogger(),
	)

	theme := models.Theme{Name: "Geometria"}
	require.NoError(t, db.Create(&theme).Error)

	return resourceFixture{svc: svc, db: db, teacher: createTestUser(t, db, models.RoleTeacher), theme: theme}
}

func (f resourceFixture) create(t *testing.T, name string, visible bool) dto.ResourceResponse {
	t.Helper()
	resource, err := f.svc.Create(context.Background(), f.teacher.ID, dto.ResourceCreateRequest{
		ThemeID:          f.theme.ID,
		Name:             name,
		URL:              "https://ludica.test/material.pdf",
		VisibleToStudent: visible,
	}, nil)
	require.NoError(t, err)
	return resource
}

func TestResourceCreateNeedsURLOrFile(t *testing.T) {
	f := setupResources(t)

	_, err := f.svc.Create(context.Background(), f.teacher.ID, dto.ResourceCreateRequest{
		ThemeID: f.theme.ID,
		Name:    "Guia sin contenido",
	}, nil)
	require.ErrorIs(t, err, service.ErrEmptyResource)

	resource := f.create(t, "Guia de angulos", true)
	require.Equal(t, "https://ludica.test/material.pdf", resource.URL)
	require.Equal(t, f.theme.ID, resource.Theme.ID)
}

func TestResourceCreateUnknownTheme(t *testing.T) {
	f := setupResources(t)

	_, err := f.svc.Create(context.Background(), f.teacher.ID, dto.ResourceCreateRequest{
		ThemeID: 9999,
		Name:    "Guia perdida",
		URL:     "https://ludica.test/material.pdf",
	}, nil)
	require.ErrorIs(t, err, service.ErrThemeNotFound)
}

func TestResourceListStudentViewHidesInvisible(t *testing.T) {
	f := setupResources(t)

	f.create(t, "Guia publica", true)
	f.create(t, "Borrador privado", false)

	list, err := f.svc.List(context.Background(), dto.ResourceFilter{}, false)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = f.svc.List(context.Background(), dto.ResourceFilter{}, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Guia publica", list[0].Name)
}

func TestResourceUpdatePartialFields(t *testing.T) {
	f := setupResources(t)
	resource := f.create(t, "Guia original", true)

	name := "Guia corregida"
	visible := false
	updated, err := f.svc.Update(context.Background(), f.teacher.ID, resource.ID, dto.ResourceUpdateRequest{
		Name:             &name,
		VisibleToStudent: &visible,
	})
	require.NoError(t, err)
	require.Equal(t, "Guia corregida", updated.Name)
	require.False(t, updated.VisibleToStudent)
	require.Equal(t, resource.URL, updated.URL)
}

func TestResourceOwnershipEnforced(t *testing.T) {
	f := setupResources(t)
	resource := f.create(t, "Guia protegida", true)

	other := createTestUser(t, f.db, models.RoleTeacher)
	name := "intrusion"
	_, err := f.svc.Update(context.Background(), other.ID, resource.ID, dto.ResourceUpdateRequest{Name: &name})
	require.ErrorIs(t, err, service.ErrNotResourceOwner)

	require.ErrorIs(t, f.svc.Delete(context.Background(), other.ID, resource.ID), service.ErrNotResourceOwner)

	// The admin wildcard bypasses ownership.
	require.NoError(t, f.svc.Delete(context.Background(), 0, resource.ID))

	_, err = f.svc.Get(context.Background(), resource.ID)
	require.ErrorIs(t, err, service.ErrResourceNotFound)
}
