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

type assignmentFixture struct {
	svc      service.AssignmentService
	db       *gorm.DB
	teacher  models.User
	student  models.User
	activity models.Activity
}

func setupAssignments(t *testing.T) assignmentFixture {
	t.Helper()

	db := openTestDB(t)
	gamification := service.NewGamificationService(db, openTestRedis(t), &recordingPublisher{}, testLogger())
	svc := service.NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewActivityRepository(db),
		repository.NewUserRepository(db),
		gamification,
		testValidator(),
		stubUploader{},
		testLogger(),
	)

	teacher := createTestUser(t, db, models.RoleTeacher)
	student := createTestUser(t, db, models.RoleStudent)

	theme := models.Theme{Name: "Fracciones"}
	require.NoError(t, db.Create(&theme).Error)

	activity := models.Activity{
		TeacherID:    teacher.ID,
		ThemeID:      theme.ID,
		Title:        "Taller de fracciones",
		DueDate:      time.Now().Add(72 * time.Hour),
		RewardPoints: 20,
	}
	require.NoError(t, db.Create(&activity).Error)

	return assignmentFixture{svc: svc, db: db, teacher: teacher, student: student, activity: activity}
}

func (f assignmentFixture) assign(t *testing.T) dto.AssignmentResponse {
	t.Helper()
	assignment, err := f.svc.Assign(context.Background(), f.teacher.ID, dto.AssignmentCreateRequest{
		ActivityID: f.activity.ID,
		StudentID:  f.student.ID,
	})
	require.NoError(t, err)
	return assignment
}

func (f assignmentFixture) submit(t *testing.T, id uint, text string) dto.AssignmentResponse {
	t.Helper()
	submitted, err := f.svc.Submit(context.Background(), f.student.ID, id, dto.SubmissionRequest{Text: text}, nil)
	require.NoError(t, err)
	return submitted
}

func TestAssignmentAssign(t *testing.T) {
	f := setupAssignments(t)

	assignment := f.assign(t)
	require.Equal(t, models.AssignmentStatusAssigned, assignment.Status)
	require.Equal(t, f.teacher.ID, assignment.TeacherID)

	_, err := f.svc.Assign(context.Background(), f.teacher.ID, dto.AssignmentCreateRequest{
		ActivityID: f.activity.ID,
		StudentID:  f.student.ID,
	})
	require.ErrorIs(t, err, service.ErrAlreadyAssigned)
}

func TestAssignmentAssignRejectsNonStudent(t *testing.T) {
	f := setupAssignments(t)

	other := createTestUser(t, f.db, models.RoleTeacher)
	_, err := f.svc.Assign(context.Background(), f.teacher.ID, dto.AssignmentCreateRequest{
		ActivityID: f.activity.ID,
		StudentID:  other.ID,
	})
	require.ErrorIs(t, err, service.ErrNotStudentRecipient)
}

func TestAssignmentAssignEnforcesOwnership(t *testing.T) {
	f := setupAssignments(t)

	other := createTestUser(t, f.db, models.RoleTeacher)
	_, err := f.svc.Assign(context.Background(), other.ID, dto.AssignmentCreateRequest{
		ActivityID: f.activity.ID,
		StudentID:  f.student.ID,
	})
	require.ErrorIs(t, err, service.ErrNotActivityOwner)

	// Zero acts as the admin wildcard and bypasses the owner check.
	_, err = f.svc.Assign(context.Background(), 0, dto.AssignmentCreateRequest{
		ActivityID: f.activity.ID,
		StudentID:  f.student.ID,
	})
	require.NoError(t, err)
}

func TestAssignmentSubmitFirstWriteWins(t *testing.T) {
	f := setupAssignments(t)
	assignment := f.assign(t)

	submitted := f.submit(t, assignment.ID, "mi respuesta")
	require.Equal(t, models.AssignmentStatusSubmitted, submitted.Status)
	require.Equal(t, "mi respuesta", submitted.SubmissionText)
	require.NotNil(t, submitted.SubmittedAt)

	_, err := f.svc.Submit(context.Background(), f.student.ID, assignment.ID, dto.SubmissionRequest{Text: "otra respuesta"}, nil)
	require.ErrorIs(t, err, service.ErrAlreadySubmitted)
}

func TestAssignmentSubmitSanitizesMarkup(t *testing.T) {
	f := setupAssignments(t)
	assignment := f.assign(t)

	submitted := f.submit(t, assignment.ID, `<script>alert(1)</script>respuesta`)
	require.Equal(t, "respuesta", submitted.SubmissionText)
}

func TestAssignmentSubmitRejectsEmptyAndForeign(t *testing.T) {
	f := setupAssignments(t)
	assignment := f.assign(t)

	_, err := f.svc.Submit(context.Background(), f.student.ID, assignment.ID, dto.SubmissionRequest{}, nil)
	require.ErrorIs(t, err, service.ErrEmptySubmission)

	other := createTestUser(t, f.db, models.RoleStudent)
	_, err = f.svc.Submit(context.Background(), other.ID, assignment.ID, dto.SubmissionRequest{Text: "intruso"}, nil)
	require.ErrorIs(t, err, service.ErrNotAssignedStudent)
}

func TestAssignmentGradeAwardsRewardOnce(t *testing.T) {
	f := setupAssignments(t)
	assignment := f.assign(t)
	f.submit(t, assignment.ID, "mi respuesta")

	graded, outcome, err := f.svc.Grade(context.Background(), f.teacher.ID, assignment.ID, dto.GradeRequest{
		Grade:    85,
		Feedback: "buen trabajo",
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusGraded, graded.Status)
	require.NotNil(t, graded.Grade)
	require.Equal(t, 85.0, *graded.Grade)
	require.NotNil(t, outcome)
	require.Equal(t, 20, outcome.Total.Total)

	// Re-grading adjusts the grade but never pays the reward again.
	regraded, outcome, err := f.svc.Grade(context.Background(), f.teacher.ID, assignment.ID, dto.GradeRequest{Grade: 90})
	require.NoError(t, err)
	require.Equal(t, 90.0, *regraded.Grade)
	require.Nil(t, outcome)

	var total int
	require.NoError(t, f.db.Model(&models.PointEntry{}).
		Select("COALESCE(SUM(cantidad), 0)").
		Where("usuario_id = ?", f.student.ID).
		Scan(&total).Error)
	require.Equal(t, 20, total)
}

func TestAssignmentGradeRequiresSubmission(t *testing.T) {
	f := setupAssignments(t)
	assignment := f.assign(t)

	_, _, err := f.svc.Grade(context.Background(), f.teacher.ID, assignment.ID, dto.GradeRequest{Grade: 70})
	require.ErrorIs(t, err, service.ErrNotSubmitted)
}

func TestAssignmentGradeEnforcesOwnership(t *testing.T) {
	f := setupAssignments(t)
	assignment := f.assign(t)
	f.submit(t, assignment.ID, "mi respuesta")

	other := createTestUser(t, f.db, models.RoleTeacher)
	_, _, err := f.svc.Grade(context.Background(), other.ID, assignment.ID, dto.GradeRequest{Grade: 70})
	require.ErrorIs(t, err, service.ErrNotAssignmentOwner)
}

func TestAssignmentListFilters(t *testing.T) {
	f := setupAssignments(t)
	assignment := f.assign(t)
	f.submit(t, assignment.ID, "mi respuesta")

	submitted := models.AssignmentStatusSubmitted
	list, err := f.svc.List(context.Background(), dto.AssignmentFilter{StudentID: &f.student.ID, Status: &submitted})
	require.NoError(t, err)
	require.Len(t, list, 1)

	graded := models.AssignmentStatusGraded
	list, err = f.svc.List(context.Background(), dto.AssignmentFilter{Status: &graded})
	require.NoError(t, err)
	require.Empty(t, list)
}
