package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ludica-app/ludica-api/internal/config"
	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/service"
)

type diagnosticFixture struct {
	svc     service.DiagnosticService
	db      *gorm.DB
	teacher models.User
	student models.User
}

func setupDiagnostics(t *testing.T) diagnosticFixture {
	t.Helper()

	db := openTestDB(t)
	svc := service.NewDiagnosticService(
		repository.NewDiagnosticRepository(db),
		config.DiagnosticThresholds{Medio: 40, Alto: 70},
		testValidator(),
		testLogger(),
	)
	return diagnosticFixture{
		svc:     svc,
		db:      db,
		teacher: createTestUser(t, db, models.RoleTeacher),
		student: createTestUser(t, db, models.RoleStudent),
	}
}

func (f diagnosticFixture) createTest(t *testing.T) dto.DiagnosticTestResponse {
	t.Helper()
	test, err := f.svc.CreateTest(context.Background(), f.teacher.ID, dto.DiagnosticTestRequest{
		Title: "Diagnostico de algebra",
	})
	require.NoError(t, err)
	return test
}

func (f diagnosticFixture) addQuestion(t *testing.T, testID uint, statement, correct string, options ...string) dto.DiagnosticQuestionResponse {
	t.Helper()
	question, err := f.svc.AddQuestion(context.Background(), f.teacher.ID, testID, dto.DiagnosticQuestionRequest{
		Statement:     statement,
		Options:       options,
		CorrectAnswer: correct,
	})
	require.NoError(t, err)
	return question
}

func TestDiagnosticQuestionValidation(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)

	// The marked correct answer must be one of the options.
	_, err := f.svc.AddQuestion(context.Background(), f.teacher.ID, test.ID, dto.DiagnosticQuestionRequest{
		Statement:     "¿Cuanto es 2+2?",
		Options:       []string{"3", "4"},
		CorrectAnswer: "5",
	})
	require.ErrorIs(t, err, service.ErrInvalidQuestion)

	// Duplicate options fail the schema check.
	_, err = f.svc.AddQuestion(context.Background(), f.teacher.ID, test.ID, dto.DiagnosticQuestionRequest{
		Statement:     "¿Cuanto es 2+2?",
		Options:       []string{"4", "4"},
		CorrectAnswer: "4",
	})
	require.ErrorIs(t, err, service.ErrInvalidQuestion)

	question := f.addQuestion(t, test.ID, "¿Cuanto es 2+2?", "4", "3", "4", "5")
	require.Equal(t, "4", question.CorrectAnswer)
}

func TestDiagnosticQuestionOwnership(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)

	other := createTestUser(t, f.db, models.RoleTeacher)
	_, err := f.svc.AddQuestion(context.Background(), other.ID, test.ID, dto.DiagnosticQuestionRequest{
		Statement:     "¿Cuanto es 2+2?",
		Options:       []string{"3", "4"},
		CorrectAnswer: "4",
	})
	require.ErrorIs(t, err, service.ErrNotTestOwner)
}

func TestDiagnosticSubmitGradesExactMatch(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)

	q1 := f.addQuestion(t, test.ID, "¿Cuanto es 2+2?", "4", "3", "4")
	q2 := f.addQuestion(t, test.ID, "¿Cuanto es 3*3?", "9", "6", "9")
	q3 := f.addQuestion(t, test.ID, "¿Cuanto es 10/2?", "5", "5", "2")

	result, err := f.svc.Submit(context.Background(), f.student.ID, test.ID, dto.DiagnosticSubmitRequest{
		Answers: []dto.DiagnosticAnswerItem{
			{QuestionID: q1.ID, Answer: "4"},
			{QuestionID: q2.ID, Answer: "6"},
			{QuestionID: q3.ID, Answer: "5"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Correct)
	require.Equal(t, 3, result.Total)
	require.Equal(t, 66.67, result.Percentage)
	require.Equal(t, "medio", result.Category)
}

func TestDiagnosticCategorization(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)

	q1 := f.addQuestion(t, test.ID, "Pregunta uno", "a", "a", "b")
	q2 := f.addQuestion(t, test.ID, "Pregunta dos", "a", "a", "b")

	cases := []struct {
		name     string
		answers  []string
		category string
	}{
		{"todo incorrecto", []string{"b", "b"}, "bajo"},
		{"mitad correcto", []string{"a", "b"}, "medio"},
		{"todo correcto", []string{"a", "a"}, "alto"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			student := createTestUser(t, f.db, models.RoleStudent)
			result, err := f.svc.Submit(context.Background(), student.ID, test.ID, dto.DiagnosticSubmitRequest{
				Answers: []dto.DiagnosticAnswerItem{
					{QuestionID: q1.ID, Answer: tc.answers[0]},
					{QuestionID: q2.ID, Answer: tc.answers[1]},
				},
			})
			require.NoError(t, err)
			require.Equal(t, tc.category, result.Category)
		})
	}
}

func TestDiagnosticSubmitRejectsPartialAnswers(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)

	q1 := f.addQuestion(t, test.ID, "Pregunta uno", "a", "a", "b")
	f.addQuestion(t, test.ID, "Pregunta dos", "a", "a", "b")

	_, err := f.svc.Submit(context.Background(), f.student.ID, test.ID, dto.DiagnosticSubmitRequest{
		Answers: []dto.DiagnosticAnswerItem{{QuestionID: q1.ID, Answer: "a"}},
	})
	require.ErrorIs(t, err, service.ErrAnswerMismatch)

	// A stray question id is rejected, not silently ignored.
	_, err = f.svc.Submit(context.Background(), f.student.ID, test.ID, dto.DiagnosticSubmitRequest{
		Answers: []dto.DiagnosticAnswerItem{
			{QuestionID: q1.ID, Answer: "a"},
			{QuestionID: 9999, Answer: "a"},
		},
	})
	require.ErrorIs(t, err, service.ErrAnswerMismatch)
}

func TestDiagnosticSubmitEmptyTest(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)

	_, err := f.svc.Submit(context.Background(), f.student.ID, test.ID, dto.DiagnosticSubmitRequest{
		Answers: []dto.DiagnosticAnswerItem{{QuestionID: 1, Answer: "a"}},
	})
	require.ErrorIs(t, err, service.ErrTestHasNoQuestion)
}

func TestDiagnosticResubmitOverwritesResult(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)
	question := f.addQuestion(t, test.ID, "Pregunta unica", "a", "a", "b")

	_, err := f.svc.Submit(context.Background(), f.student.ID, test.ID, dto.DiagnosticSubmitRequest{
		Answers: []dto.DiagnosticAnswerItem{{QuestionID: question.ID, Answer: "b"}},
	})
	require.NoError(t, err)

	result, err := f.svc.Submit(context.Background(), f.student.ID, test.ID, dto.DiagnosticSubmitRequest{
		Answers: []dto.DiagnosticAnswerItem{{QuestionID: question.ID, Answer: "a"}},
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, result.Percentage)

	stored, err := f.svc.GetResult(context.Background(), test.ID, f.student.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, stored.Percentage)

	list, err := f.svc.ListResults(context.Background(), f.student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDiagnosticTestVisibilityForStudents(t *testing.T) {
	f := setupDiagnostics(t)
	test := f.createTest(t)
	f.addQuestion(t, test.ID, "Pregunta unica", "a", "a", "b")

	studentView, err := f.svc.GetTest(context.Background(), test.ID, false)
	require.NoError(t, err)
	require.Len(t, studentView.Questions, 1)
	require.Empty(t, studentView.Questions[0].CorrectAnswer)

	teacherView, err := f.svc.GetTest(context.Background(), test.ID, true)
	require.NoError(t, err)
	require.Equal(t, "a", teacherView.Questions[0].CorrectAnswer)
}
