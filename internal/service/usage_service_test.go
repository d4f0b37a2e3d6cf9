package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/service"
)

func TestUsageRecordAndList(t *testing.T) {
	db := openTestDB(t)
	svc := service.NewUsageService(repository.NewUsageLogRepository(db), testValidator(), testLogger())
	student := createTestUser(t, db, models.RoleStudent)
	teacher := createTestUser(t, db, models.RoleTeacher)

	require.NoError(t, svc.Record(context.Background(), student.ID, models.RoleStudent, dto.UsageLogCreateRequest{
		Action:     "abrir",
		EntityType: "recurso",
		Metadata:   map[string]interface{}{"origen": "dashboard"},
	}))
	require.NoError(t, svc.Record(context.Background(), teacher.ID, models.RoleTeacher, dto.UsageLogCreateRequest{
		Action:     "calificar",
		EntityType: "asignacion",
	}))

	list, err := svc.List(context.Background(), dto.UsageLogListRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 2, list.Total)
	require.Equal(t, 1, list.Page)
	require.Equal(t, 50, list.PageSize)

	list, err = svc.List(context.Background(), dto.UsageLogListRequest{UserID: &student.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, "abrir", list.Entries[0].Action)

	list, err = svc.List(context.Background(), dto.UsageLogListRequest{Action: "calificar"})
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, string(models.RoleTeacher), list.Entries[0].Role)
}

func TestUsageRecordValidatesPayload(t *testing.T) {
	db := openTestDB(t)
	svc := service.NewUsageService(repository.NewUsageLogRepository(db), testValidator(), testLogger())
	student := createTestUser(t, db, models.RoleStudent)

	err := svc.Record(context.Background(), student.ID, models.RoleStudent, dto.UsageLogCreateRequest{
		Action: "abrir",
	})
	require.Error(t, err)
}
