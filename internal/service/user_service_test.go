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

func setupUsers(t *testing.T) (service.UserService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return service.NewUserService(repository.NewUserRepository(db), testValidator(), testLogger()), db
}

func TestUserListFiltersByRole(t *testing.T) {
	svc, db := setupUsers(t)

	createTestUser(t, db, models.RoleStudent)
	createTestUser(t, db, models.RoleStudent)
	createTestUser(t, db, models.RoleTeacher)

	list, err := svc.List(context.Background(), dto.UserListRequest{Role: string(models.RoleStudent)})
	require.NoError(t, err)
	require.EqualValues(t, 2, list.Total)
	require.Len(t, list.Users, 2)
	require.Equal(t, 1, list.Page)
	require.Equal(t, 20, list.PageSize)
}

func TestUserListPagination(t *testing.T) {
	svc, db := setupUsers(t)

	for i := 0; i < 3; i++ {
		createTestUser(t, db, models.RoleStudent)
	}

	list, err := svc.List(context.Background(), dto.UserListRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, list.Total)
	require.Len(t, list.Users, 1)
	require.Equal(t, 2, list.Page)
}

func TestUserUpdatePatchesFields(t *testing.T) {
	svc, db := setupUsers(t)
	user := createTestUser(t, db, models.RoleStudent)

	name := "Nombre Nuevo"
	role := string(models.RoleTeacher)
	updated, err := svc.Update(context.Background(), user.ID, dto.UserUpdateRequest{Name: &name, Role: &role})
	require.NoError(t, err)
	require.Equal(t, "Nombre Nuevo", updated.Name)
	require.Equal(t, role, updated.Role)
	require.Equal(t, user.Email, updated.Email)

	_, err = svc.Update(context.Background(), 9999, dto.UserUpdateRequest{Name: &name})
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserDeactivate(t *testing.T) {
	svc, db := setupUsers(t)
	user := createTestUser(t, db, models.RoleStudent)

	deactivated, err := svc.Deactivate(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, deactivated.Active)

	fetched, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, fetched.Active)
}
